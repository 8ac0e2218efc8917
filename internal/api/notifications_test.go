package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HiQain/Task-Manager/internal/database"
	"github.com/HiQain/Task-Manager/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestListNotifications(t *testing.T) {
	mockRepo := &database.MockTaskManagerRepository{}
	defer mockRepo.AssertExpectations(t)

	mockRepo.On("ListNotifications", 1).Return([]database.Notification{
		{Id: 2, UserId: 1, Title: "New message from bob"},
		{Id: 1, UserId: 1, Title: "Task updated", Read: true},
	}, nil).Once()

	app := newTestApp(t, mockRepo, nil)

	rr := httptest.NewRecorder()
	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/notifications", nil), 1)
	app.listNotifications(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []types.Notification
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
	assert.False(t, resp[0].Read)
	assert.True(t, resp[1].Read)
}

func TestMarkNotificationsRead(t *testing.T) {
	t.Run("mark one", func(t *testing.T) {
		mockRepo := &database.MockTaskManagerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("MarkNotificationRead", 7, 1).Return(nil).Once()

		app := newTestApp(t, mockRepo, nil)

		body, _ := json.Marshal(MarkNotificationsReadRequest{Id: 7})
		rr := httptest.NewRecorder()
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/notifications/read", bytes.NewBuffer(body)), 1)
		app.markNotificationsRead(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("mark all", func(t *testing.T) {
		mockRepo := &database.MockTaskManagerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("MarkAllNotificationsRead", 1).Return(nil).Once()

		app := newTestApp(t, mockRepo, nil)

		body, _ := json.Marshal(MarkNotificationsReadRequest{})
		rr := httptest.NewRecorder()
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/notifications/read", bytes.NewBuffer(body)), 1)
		app.markNotificationsRead(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := &database.MockTaskManagerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("MarkNotificationRead", 99, 1).Return(sql.ErrNoRows).Once()

		app := newTestApp(t, mockRepo, nil)

		body, _ := json.Marshal(MarkNotificationsReadRequest{Id: 99})
		rr := httptest.NewRecorder()
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/notifications/read", bytes.NewBuffer(body)), 1)
		app.markNotificationsRead(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
