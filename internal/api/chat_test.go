package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HiQain/Task-Manager/internal/database"
	"github.com/HiQain/Task-Manager/internal/relay"
	"github.com/HiQain/Task-Manager/internal/testutil"
	"github.com/HiQain/Task-Manager/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateDirectMessage(t *testing.T) {
	t.Run("stores message and notification", func(t *testing.T) {
		mockRepo := &database.MockTaskManagerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetAccountById", 2).Return(database.User{Id: 2, Username: "bob"}, nil).Once()
		mockRepo.On("CreateDirectMessage", mock.MatchedBy(func(msg database.DirectMessage) bool {
			return msg.FromUserId == 1 && msg.ToUserId == 2 && msg.Content == "hello"
		})).Return(database.DirectMessage{Id: 10, FromUserId: 1, ToUserId: 2, Content: "hello"}, nil).Once()
		mockRepo.On("GetAccountById", 1).Return(database.User{Id: 1, Username: "alice"}, nil).Once()
		mockRepo.On("CreateNotification", mock.MatchedBy(func(params database.CreateNotificationParams) bool {
			return params.UserId == 2 && params.Title == "New message from alice"
		})).Return(database.Notification{Id: 1}, nil).Once()

		app := newTestApp(t, mockRepo, nil)

		body, _ := json.Marshal(CreateDirectMessageRequest{ToUserId: 2, Content: "hello"})
		rr := httptest.NewRecorder()
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/messages/direct", bytes.NewBuffer(body)), 1)
		app.createDirectMessage(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp types.DirectMessage
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 10, resp.Id, "expected the persisted message to be returned")
	})

	t.Run("notification suppressed when recipient is viewing the sender", func(t *testing.T) {
		mockRepo := &database.MockTaskManagerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetAccountById", 2).Return(database.User{Id: 2, Username: "bob"}, nil).Once()
		mockRepo.On("CreateDirectMessage", mock.Anything).
			Return(database.DirectMessage{Id: 11, FromUserId: 1, ToUserId: 2, Content: "hi"}, nil).Once()

		app := newTestApp(t, mockRepo, nil)

		// recipient connected with the sender's conversation open
		recipient := relay.NewClient(types.User{Id: 2}, nil, app.rs, testutil.TestLogger(t))
		app.rs.Register(recipient)
		senderId := 1
		app.rs.SetActiveRoom(recipient, &senderId)

		body, _ := json.Marshal(CreateDirectMessageRequest{ToUserId: 2, Content: "hi"})
		rr := httptest.NewRecorder()
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/messages/direct", bytes.NewBuffer(body)), 1)
		app.createDirectMessage(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockRepo.AssertNotCalled(t, "CreateNotification", mock.Anything)
	})

	t.Run("rejects message to self", func(t *testing.T) {
		app := newTestApp(t, &database.MockTaskManagerRepository{}, nil)

		body, _ := json.Marshal(CreateDirectMessageRequest{ToUserId: 1, Content: "hi me"})
		rr := httptest.NewRecorder()
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/messages/direct", bytes.NewBuffer(body)), 1)
		app.createDirectMessage(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		mockRepo := &database.MockTaskManagerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetAccountById", 99).Return(database.User{}, sql.ErrNoRows).Once()

		app := newTestApp(t, mockRepo, nil)

		body, _ := json.Marshal(CreateDirectMessageRequest{ToUserId: 99, Content: "hi"})
		rr := httptest.NewRecorder()
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/messages/direct", bytes.NewBuffer(body)), 1)
		app.createDirectMessage(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestGetDirectMessages(t *testing.T) {
	mockRepo := &database.MockTaskManagerRepository{}
	defer mockRepo.AssertExpectations(t)

	mockRepo.On("GetDirectMessages", 1, 2, 0, defaultMessageLimit).
		Return([]database.DirectMessage{{Id: 3}, {Id: 2}}, nil).Once()

	app := newTestApp(t, mockRepo, nil)

	rr := httptest.NewRecorder()
	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/messages/direct?peer_id=2", nil), 1)
	app.getDirectMessages(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []types.DirectMessage
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestCreateTaskMessage(t *testing.T) {
	t.Run("non-member is forbidden", func(t *testing.T) {
		mockRepo := &database.MockTaskManagerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("IsTaskMember", 5, 1).Return(false).Once()

		app := newTestApp(t, mockRepo, nil)

		body, _ := json.Marshal(CreateTaskMessageRequest{TaskId: 5, Content: "hi team"})
		rr := httptest.NewRecorder()
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/messages/task", bytes.NewBuffer(body)), 1)
		app.createTaskMessage(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		mockRepo.AssertNotCalled(t, "CreateTaskMessage", mock.Anything)
	})

	t.Run("notifies other members", func(t *testing.T) {
		mockRepo := &database.MockTaskManagerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("IsTaskMember", 5, 1).Return(true).Once()
		mockRepo.On("CreateTaskMessage", mock.MatchedBy(func(msg database.TaskMessage) bool {
			return msg.TaskId == 5 && msg.UserId == 1 && msg.Content == "hi team"
		})).Return(database.TaskMessage{Id: 20, TaskId: 5, UserId: 1, Content: "hi team"}, nil).Once()
		mockRepo.On("GetTaskMembers", 5).Return([]database.User{{Id: 1}, {Id: 2}}, nil).Once()
		mockRepo.On("GetAccountById", 1).Return(database.User{Id: 1, Username: "alice"}, nil).Once()
		mockRepo.On("CreateNotification", mock.MatchedBy(func(params database.CreateNotificationParams) bool {
			return params.UserId == 2
		})).Return(database.Notification{Id: 1}, nil).Once()

		app := newTestApp(t, mockRepo, nil)

		body, _ := json.Marshal(CreateTaskMessageRequest{TaskId: 5, Content: "hi team"})
		rr := httptest.NewRecorder()
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/messages/task", bytes.NewBuffer(body)), 1)
		app.createTaskMessage(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("member viewing the task group gets no notification", func(t *testing.T) {
		mockRepo := &database.MockTaskManagerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("IsTaskMember", 5, 1).Return(true).Once()
		mockRepo.On("CreateTaskMessage", mock.Anything).
			Return(database.TaskMessage{Id: 21, TaskId: 5, UserId: 1}, nil).Once()
		mockRepo.On("GetTaskMembers", 5).Return([]database.User{{Id: 1}, {Id: 2}}, nil).Once()

		app := newTestApp(t, mockRepo, nil)

		member := relay.NewClient(types.User{Id: 2}, nil, app.rs, testutil.TestLogger(t))
		app.rs.Register(member)
		taskId := 5
		app.rs.SetActiveTaskGroup(member, &taskId)

		body, _ := json.Marshal(CreateTaskMessageRequest{TaskId: 5, Content: "ping"})
		rr := httptest.NewRecorder()
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/messages/task", bytes.NewBuffer(body)), 1)
		app.createTaskMessage(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockRepo.AssertNotCalled(t, "CreateNotification", mock.Anything)
	})
}

func TestGetTaskMessages(t *testing.T) {
	t.Run("non-member is forbidden", func(t *testing.T) {
		mockRepo := &database.MockTaskManagerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("IsTaskMember", 5, 1).Return(false).Once()

		app := newTestApp(t, mockRepo, nil)

		rr := httptest.NewRecorder()
		req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/messages/task?task_id=5", nil), 1)
		app.getTaskMessages(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("member reads history with paging", func(t *testing.T) {
		mockRepo := &database.MockTaskManagerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("IsTaskMember", 5, 1).Return(true).Once()
		mockRepo.On("GetTaskMessages", 5, 100, 10).
			Return([]database.TaskMessage{{Id: 99}}, nil).Once()

		app := newTestApp(t, mockRepo, nil)

		rr := httptest.NewRecorder()
		req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/messages/task?task_id=5&before=100&limit=10", nil), 1)
		app.getTaskMessages(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
