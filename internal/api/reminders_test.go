package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HiQain/Task-Manager/internal/database"
	"github.com/HiQain/Task-Manager/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateReminder(t *testing.T) {
	remindAt := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	t.Run("personal reminder", func(t *testing.T) {
		mockRepo := &database.MockTaskManagerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("CreateReminder", mock.MatchedBy(func(params database.CreateReminderParams) bool {
			return params.UserId == 1 && params.TaskId == nil && params.Note == "standup" &&
				params.RemindAt.Equal(remindAt)
		})).Return(database.Reminder{Id: 1, UserId: 1, Note: "standup", RemindAt: remindAt}, nil).Once()

		app := newTestApp(t, mockRepo, nil)

		body, _ := json.Marshal(CreateReminderRequest{Note: "standup", RemindAt: remindAt})
		rr := httptest.NewRecorder()
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/reminders", bytes.NewBuffer(body)), 1)
		app.createReminder(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("task reminder requires membership", func(t *testing.T) {
		mockRepo := &database.MockTaskManagerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("IsTaskMember", 5, 1).Return(false).Once()

		app := newTestApp(t, mockRepo, nil)

		taskId := 5
		body, _ := json.Marshal(CreateReminderRequest{TaskId: &taskId, Note: "review", RemindAt: remindAt})
		rr := httptest.NewRecorder()
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/reminders", bytes.NewBuffer(body)), 1)
		app.createReminder(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		mockRepo.AssertNotCalled(t, "CreateReminder", mock.Anything)
	})

	t.Run("missing note", func(t *testing.T) {
		app := newTestApp(t, &database.MockTaskManagerRepository{}, nil)

		body, _ := json.Marshal(CreateReminderRequest{RemindAt: remindAt})
		rr := httptest.NewRecorder()
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/reminders", bytes.NewBuffer(body)), 1)
		app.createReminder(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListReminders(t *testing.T) {
	mockRepo := &database.MockTaskManagerRepository{}
	defer mockRepo.AssertExpectations(t)

	mockRepo.On("ListReminders", 1).Return([]database.Reminder{{Id: 1, UserId: 1, Note: "standup"}}, nil).Once()

	app := newTestApp(t, mockRepo, nil)

	rr := httptest.NewRecorder()
	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/reminders", nil), 1)
	app.listReminders(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []types.Reminder
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
}

func TestDeleteReminder(t *testing.T) {
	t.Run("deletes own reminder", func(t *testing.T) {
		mockRepo := &database.MockTaskManagerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("DeleteReminder", 3, 1).Return(nil).Once()

		app := newTestApp(t, mockRepo, nil)

		rr := httptest.NewRecorder()
		req := authedRequest(httptest.NewRequest(http.MethodDelete, "/api/reminders?id=3", nil), 1)
		app.deleteReminder(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("another user's reminder is not found", func(t *testing.T) {
		mockRepo := &database.MockTaskManagerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("DeleteReminder", 3, 2).Return(sql.ErrNoRows).Once()

		app := newTestApp(t, mockRepo, nil)

		rr := httptest.NewRecorder()
		req := authedRequest(httptest.NewRequest(http.MethodDelete, "/api/reminders?id=3", nil), 2)
		app.deleteReminder(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
