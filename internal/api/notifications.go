package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HiQain/Task-Manager/internal/database"
	"github.com/HiQain/Task-Manager/internal/types"
)

type MarkNotificationsReadRequest struct {
	// Id of the notification to mark read. Zero means mark all.
	Id int `json:"id"`
}

func notificationResponse(n database.Notification) types.Notification {
	return types.Notification{
		Id:          n.Id,
		UserId:      n.UserId,
		Title:       n.Title,
		Description: n.Description,
		Variant:     n.Variant,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
}

func (s *TaskManagerApp) listNotifications(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	dbNotifs, err := s.db.ListNotifications(userId)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	notifs := make([]types.Notification, len(dbNotifs))
	for i, n := range dbNotifs {
		notifs[i] = notificationResponse(n)
	}

	s.writeJson(w, http.StatusOK, notifs)
}

func (s *TaskManagerApp) markNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req MarkNotificationsReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.Id == 0 {
		if err := s.db.MarkAllNotificationsRead(userId); err != nil {
			errResp := NewInternalServerError(err)
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := s.db.MarkNotificationRead(req.Id, userId); err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
