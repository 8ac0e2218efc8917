package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/HiQain/Task-Manager/internal/database"
	"github.com/HiQain/Task-Manager/internal/types"
)

const defaultMessageLimit = 50

type CreateDirectMessageRequest struct {
	ToUserId int    `json:"to_user_id"`
	Content  string `json:"content"`
}

type CreateTaskMessageRequest struct {
	TaskId  int    `json:"task_id"`
	Content string `json:"content"`
}

func directMessageResponse(m database.DirectMessage) types.DirectMessage {
	return types.DirectMessage{
		Id:         m.Id,
		FromUserId: m.FromUserId,
		ToUserId:   m.ToUserId,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
	}
}

func taskMessageResponse(m database.TaskMessage) types.TaskMessage {
	return types.TaskMessage{
		Id:        m.Id,
		TaskId:    m.TaskId,
		UserId:    m.UserId,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func pagingParams(r *http.Request) (before, limit int) {
	q := r.URL.Query()
	before, _ = strconv.Atoi(q.Get("before"))
	limit, _ = strconv.Atoi(q.Get("limit"))
	if limit <= 0 || limit > 200 {
		limit = defaultMessageLimit
	}
	return before, limit
}

func (s *TaskManagerApp) createDirectMessage(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateDirectMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.ToUserId <= 0 || req.ToUserId == userId || req.Content == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if _, err := s.db.GetAccountById(req.ToUserId); err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	msg, err := s.db.CreateDirectMessage(database.DirectMessage{
		FromUserId: userId,
		ToUserId:   req.ToUserId,
		Content:    req.Content,
	})
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	resp := directMessageResponse(msg)

	// best-effort live echo to the recipient's connection
	s.rs.PushDirectMessage(resp)

	// a toast and a persistent notification, unless the recipient is
	// already looking at this conversation
	if !s.rs.ViewingDirect(req.ToUserId, userId) {
		s.notifyUser(req.ToUserId, s.messageNotificationTitle(userId), truncate(req.Content, 120), "info")
	}

	s.writeJson(w, http.StatusCreated, resp)
}

func (s *TaskManagerApp) getDirectMessages(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	peerId, err := strconv.Atoi(r.URL.Query().Get("peer_id"))
	if err != nil || peerId <= 0 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	before, limit := pagingParams(r)

	dbMsgs, err := s.db.GetDirectMessages(userId, peerId, before, limit)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	msgs := make([]types.DirectMessage, len(dbMsgs))
	for i, m := range dbMsgs {
		msgs[i] = directMessageResponse(m)
	}

	s.writeJson(w, http.StatusOK, msgs)
}

func (s *TaskManagerApp) createTaskMessage(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateTaskMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.TaskId <= 0 || req.Content == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if !s.db.IsTaskMember(req.TaskId, userId) {
		errResp := NewForbiddenError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	msg, err := s.db.CreateTaskMessage(database.TaskMessage{
		TaskId:  req.TaskId,
		UserId:  userId,
		Content: req.Content,
	})
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	// group fan-out is an invalidation ping, not message delivery: the
	// members refetch the thread over REST
	members, err := s.db.GetTaskMembers(req.TaskId)
	if err != nil {
		s.log.Printf("GetTaskMembers: %v", err)
	}
	for _, m := range members {
		if m.Id == userId {
			continue
		}
		s.rs.PushTaskChanged(m.Id, req.TaskId)
		if !s.rs.ViewingTask(m.Id, req.TaskId) {
			s.notifyUser(m.Id, s.messageNotificationTitle(userId), truncate(req.Content, 120), "info")
		}
	}

	s.writeJson(w, http.StatusCreated, taskMessageResponse(msg))
}

func (s *TaskManagerApp) getTaskMessages(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	taskId, err := strconv.Atoi(r.URL.Query().Get("task_id"))
	if err != nil || taskId <= 0 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if !s.db.IsTaskMember(taskId, userId) {
		errResp := NewForbiddenError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	before, limit := pagingParams(r)

	dbMsgs, err := s.db.GetTaskMessages(taskId, before, limit)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	msgs := make([]types.TaskMessage, len(dbMsgs))
	for i, m := range dbMsgs {
		msgs[i] = taskMessageResponse(m)
	}

	s.writeJson(w, http.StatusOK, msgs)
}

// messageNotificationTitle builds a human-readable title from the
// sender's display name.
func (s *TaskManagerApp) messageNotificationTitle(fromUserId int) string {
	sender, err := s.db.GetAccountById(fromUserId)
	if err != nil {
		s.log.Printf("GetAccountById: %v", err)
		return "New message"
	}
	return fmt.Sprintf("New message from %s", sender.Username)
}

// notifyUser stores a notification and pushes it live when the user is
// connected. The push is best-effort; the stored row survives.
func (s *TaskManagerApp) notifyUser(userId int, title, description, variant string) {
	if _, err := s.db.CreateNotification(database.CreateNotificationParams{
		UserId:      userId,
		Title:       title,
		Description: description,
		Variant:     variant,
	}); err != nil {
		s.log.Printf("CreateNotification: %v", err)
	}

	s.rs.PushNotify(userId, title, description, variant)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
