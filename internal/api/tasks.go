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
	"github.com/teris-io/shortid"
)

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

type UpdateTaskRequest struct {
	Id          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

type TaskMemberRequest struct {
	TaskId int `json:"task_id"`
	UserId int `json:"user_id"`
}

func validTaskStatus(status string) bool {
	switch status {
	case types.TaskStatusTodo, types.TaskStatusInProgress, types.TaskStatusDone:
		return true
	}
	return false
}

func validTaskPriority(priority string) bool {
	switch priority {
	case types.TaskPriorityLow, types.TaskPriorityMedium, types.TaskPriorityHigh:
		return true
	}
	return false
}

func taskResponse(t database.Task) types.Task {
	members := make([]types.User, len(t.Members))
	for i, m := range t.Members {
		members[i] = types.User{
			Id:       m.Id,
			Username: m.Username,
			Role:     m.Role,
		}
	}

	return types.Task{
		Id:          t.Id,
		ExternalId:  t.ExternalId,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		CreatorId:   t.CreatorId,
		Members:     members,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// notifyTaskMembers pushes an invalidation ping to every connected
// member except the actor.
func (s *TaskManagerApp) notifyTaskMembers(task database.Task, actorId int) {
	for _, m := range task.Members {
		if m.Id == actorId {
			continue
		}
		s.rs.PushTaskChanged(m.Id, task.Id)
	}
}

func (s *TaskManagerApp) createTask(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.Title == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.Status == "" {
		req.Status = types.TaskStatusTodo
	}
	if req.Priority == "" {
		req.Priority = types.TaskPriorityMedium
	}
	if !validTaskStatus(req.Status) || !validTaskPriority(req.Priority) {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	externalId, err := shortid.Generate()
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	task, err := s.db.CreateTask(database.CreateTaskParams{
		ExternalId:  externalId,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CreatorId:   userId,
	})
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusCreated, taskResponse(task))
}

func (s *TaskManagerApp) getTasks(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if idParam := r.URL.Query().Get("id"); idParam != "" {
		taskId, err := strconv.Atoi(idParam)
		if err != nil {
			errResp := NewBadRequestError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}

		task, err := s.db.GetTaskById(taskId)
		if err != nil {
			var errResp *ApiError
			if errors.Is(err, sql.ErrNoRows) {
				errResp = NewNotFoundError()
			} else {
				errResp = NewInternalServerError(err)
			}
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}

		if !s.canAccessTask(userId, task) {
			errResp := NewForbiddenError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}

		s.writeJson(w, http.StatusOK, taskResponse(task))
		return
	}

	user, err := s.db.GetAccountById(userId)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var dbTasks []database.Task
	if user.Role == types.RoleAdmin {
		dbTasks, err = s.db.ListTasks()
	} else {
		dbTasks, err = s.db.ListTasksForUser(userId)
	}
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	tasks := make([]types.Task, len(dbTasks))
	for i, t := range dbTasks {
		tasks[i] = taskResponse(t)
	}

	s.writeJson(w, http.StatusOK, tasks)
}

// canAccessTask reports whether userId may view or modify task.
func (s *TaskManagerApp) canAccessTask(userId int, task database.Task) bool {
	if task.CreatorId == userId {
		return true
	}
	if s.db.IsTaskMember(task.Id, userId) {
		return true
	}

	user, err := s.db.GetAccountById(userId)
	return err == nil && user.Role == types.RoleAdmin
}

func (s *TaskManagerApp) updateTask(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.Id <= 0 || req.Title == "" || !validTaskStatus(req.Status) || !validTaskPriority(req.Priority) {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	task, err := s.db.GetTaskById(req.Id)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if !s.canAccessTask(userId, task) {
		errResp := NewForbiddenError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	updated, err := s.db.UpdateTask(database.UpdateTaskParams{
		TaskId:      req.Id,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.notifyTaskMembers(updated, userId)
	s.writeJson(w, http.StatusOK, taskResponse(updated))
}

func (s *TaskManagerApp) deleteTask(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	taskId, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || taskId <= 0 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	task, err := s.db.GetTaskById(taskId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	// only the creator or an admin may delete a task
	if task.CreatorId != userId {
		user, err := s.db.GetAccountById(userId)
		if err != nil || user.Role != types.RoleAdmin {
			errResp := NewForbiddenError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}
	}

	if err := s.db.DeleteTask(taskId); err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.notifyTaskMembers(task, userId)
	w.WriteHeader(http.StatusNoContent)
}

func (s *TaskManagerApp) addTaskMember(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req TaskMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	task, err := s.db.GetTaskById(req.TaskId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if !s.canAccessTask(userId, task) {
		errResp := NewForbiddenError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if _, err := s.db.GetAccountById(req.UserId); err != nil {
		errResp := NewNotFoundError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.db.AddTaskMember(req.TaskId, req.UserId); err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	task, err = s.db.GetTaskById(req.TaskId)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.notifyTaskMembers(task, userId)
	s.writeJson(w, http.StatusOK, taskResponse(task))
}

func (s *TaskManagerApp) removeTaskMember(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	q := r.URL.Query()
	taskId, err := strconv.Atoi(q.Get("task_id"))
	if err != nil || taskId <= 0 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}
	memberId, err := strconv.Atoi(q.Get("user_id"))
	if err != nil || memberId <= 0 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	task, err := s.db.GetTaskById(taskId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if !s.canAccessTask(userId, task) {
		errResp := NewForbiddenError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if memberId == task.CreatorId {
		// the creator cannot be removed from their own task
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.db.RemoveTaskMember(taskId, memberId); err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.notifyTaskMembers(task, userId)
	w.WriteHeader(http.StatusNoContent)
}
