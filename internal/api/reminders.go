package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/HiQain/Task-Manager/internal/database"
	"github.com/HiQain/Task-Manager/internal/types"
)

type CreateReminderRequest struct {
	TaskId   *int      `json:"task_id"`
	Note     string    `json:"note"`
	RemindAt time.Time `json:"remind_at"`
}

func reminderResponse(rem database.Reminder) types.Reminder {
	return types.Reminder{
		Id:        rem.Id,
		UserId:    rem.UserId,
		TaskId:    rem.TaskId,
		Note:      rem.Note,
		RemindAt:  rem.RemindAt,
		CreatedAt: rem.CreatedAt,
	}
}

func (s *TaskManagerApp) createReminder(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.Note == "" || req.RemindAt.IsZero() {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.TaskId != nil && !s.db.IsTaskMember(*req.TaskId, userId) {
		errResp := NewForbiddenError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	rem, err := s.db.CreateReminder(database.CreateReminderParams{
		UserId:   userId,
		TaskId:   req.TaskId,
		Note:     req.Note,
		RemindAt: req.RemindAt,
	})
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusCreated, reminderResponse(rem))
}

func (s *TaskManagerApp) listReminders(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	dbRems, err := s.db.ListReminders(userId)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	rems := make([]types.Reminder, len(dbRems))
	for i, rem := range dbRems {
		rems[i] = reminderResponse(rem)
	}

	s.writeJson(w, http.StatusOK, rems)
}

func (s *TaskManagerApp) deleteReminder(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	reminderId, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || reminderId <= 0 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.db.DeleteReminder(reminderId, userId); err != nil {
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
