package api

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/HiQain/Task-Manager/internal/database"
	"github.com/HiQain/Task-Manager/internal/types"
	"github.com/google/uuid"
)

// maxUploadSize bounds a single multipart upload.
const maxUploadSize = 32 << 20

func fileResponse(f database.File) types.File {
	return types.File{
		Id:          f.Id,
		TaskId:      f.TaskId,
		UploaderId:  f.UploaderId,
		Name:        f.Name,
		Size:        f.Size,
		ContentType: f.ContentType,
		CreatedAt:   f.CreatedAt,
	}
}

func (s *TaskManagerApp) uploadFile(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	taskId, err := strconv.Atoi(r.FormValue("task_id"))
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

	src, header, err := r.FormFile("file")
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}
	defer src.Close()

	// stored under an opaque name so uploads can never collide or
	// traverse outside the upload directory
	objectName := uuid.NewString() + filepath.Ext(header.Filename)

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	dst, err := os.Create(filepath.Join(s.uploadDir, objectName))
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(dst.Name())
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	file, err := s.db.CreateFile(database.CreateFileParams{
		TaskId:      taskId,
		UploaderId:  userId,
		Name:        header.Filename,
		ObjectName:  objectName,
		Size:        size,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		os.Remove(dst.Name())
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if task, err := s.db.GetTaskById(taskId); err == nil {
		s.notifyTaskMembers(task, userId)
	}

	s.writeJson(w, http.StatusCreated, fileResponse(file))
}

func (s *TaskManagerApp) listFiles(w http.ResponseWriter, r *http.Request) {
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

	dbFiles, err := s.db.ListFilesByTask(taskId)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	files := make([]types.File, len(dbFiles))
	for i, f := range dbFiles {
		files[i] = fileResponse(f)
	}

	s.writeJson(w, http.StatusOK, files)
}

func (s *TaskManagerApp) downloadFile(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	fileId, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || fileId <= 0 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	file, err := s.db.GetFileById(fileId)
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

	if !s.db.IsTaskMember(file.TaskId, userId) {
		errResp := NewForbiddenError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if file.ContentType != "" {
		w.Header().Set("Content-Type", file.ContentType)
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	http.ServeFile(w, r, filepath.Join(s.uploadDir, file.ObjectName))
}

func (s *TaskManagerApp) deleteFile(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	fileId, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || fileId <= 0 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	file, err := s.db.GetFileById(fileId)
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

	if !s.canDeleteFile(userId, file) {
		errResp := NewForbiddenError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.db.DeleteFile(fileId); err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := os.Remove(filepath.Join(s.uploadDir, file.ObjectName)); err != nil && !os.IsNotExist(err) {
		s.log.Printf("remove %s: %v", file.ObjectName, err)
	}

	w.WriteHeader(http.StatusNoContent)
}

// canDeleteFile allows the uploader, the task creator, or an admin.
func (s *TaskManagerApp) canDeleteFile(userId int, file database.File) bool {
	if file.UploaderId == userId {
		return true
	}

	if task, err := s.db.GetTaskById(file.TaskId); err == nil && task.CreatorId == userId {
		return true
	}

	user, err := s.db.GetAccountById(userId)
	return err == nil && user.Role == types.RoleAdmin
}
