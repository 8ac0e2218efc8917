package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/HiQain/Task-Manager/internal/config"
	"github.com/HiQain/Task-Manager/internal/database"
	"github.com/HiQain/Task-Manager/internal/relay"
	"github.com/HiQain/Task-Manager/internal/stats"
	"github.com/gorilla/handlers"
)

type TaskManagerApp struct {
	log            *log.Logger
	db             database.TaskManagerRepository
	mux            *http.Server
	rs             *relay.Server
	stats          stats.StatsProvider
	signingKey     []byte
	allowedOrigins []string
	uploadDir      string
}

func NewTaskManagerApp(mux *http.ServeMux, logger *log.Logger, rs *relay.Server, db database.TaskManagerRepository, statsUpdater stats.StatsProvider, cfg *config.Config) *TaskManagerApp {
	s := &TaskManagerApp{
		log:            logger,
		db:             db,
		rs:             rs,
		stats:          statsUpdater,
		signingKey:     cfg.SigningKey,
		allowedOrigins: cfg.AllowedOrigins,
		uploadDir:      cfg.UploadDir,
	}

	mux.HandleFunc("GET /healthz", s.healthCheck)
	mux.HandleFunc("POST /api/auth/register", s.createAccount)
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("GET /api/auth/session", s.authMiddleware(s.session))
	mux.Handle("GET /api/auth/logout", s.authMiddleware(s.logout))
	mux.Handle("/api/account", s.authMiddleware(s.account))
	mux.Handle("GET /api/users", s.authMiddleware(s.listUsers))
	mux.Handle("PUT /api/users/role", s.authMiddleware(s.adminOnly(s.updateUserRole)))
	mux.Handle("DELETE /api/users", s.authMiddleware(s.adminOnly(s.deleteUser)))
	mux.Handle("POST /api/tasks", s.authMiddleware(s.createTask))
	mux.Handle("GET /api/tasks", s.authMiddleware(s.getTasks))
	mux.Handle("PUT /api/tasks", s.authMiddleware(s.updateTask))
	mux.Handle("DELETE /api/tasks", s.authMiddleware(s.deleteTask))
	mux.Handle("POST /api/tasks/members", s.authMiddleware(s.addTaskMember))
	mux.Handle("DELETE /api/tasks/members", s.authMiddleware(s.removeTaskMember))
	mux.Handle("GET /api/messages/direct", s.authMiddleware(s.getDirectMessages))
	mux.Handle("POST /api/messages/direct", s.authMiddleware(s.createDirectMessage))
	mux.Handle("GET /api/messages/task", s.authMiddleware(s.getTaskMessages))
	mux.Handle("POST /api/messages/task", s.authMiddleware(s.createTaskMessage))
	mux.Handle("POST /api/files", s.authMiddleware(s.uploadFile))
	mux.Handle("GET /api/files", s.authMiddleware(s.listFiles))
	mux.Handle("GET /api/files/download", s.authMiddleware(s.downloadFile))
	mux.Handle("DELETE /api/files", s.authMiddleware(s.deleteFile))
	mux.Handle("GET /api/notifications", s.authMiddleware(s.listNotifications))
	mux.Handle("POST /api/notifications/read", s.authMiddleware(s.markNotificationsRead))
	mux.Handle("GET /api/reminders", s.authMiddleware(s.listReminders))
	mux.Handle("POST /api/reminders", s.authMiddleware(s.createReminder))
	mux.Handle("DELETE /api/reminders", s.authMiddleware(s.deleteReminder))
	mux.Handle("GET /ws", s.authMiddleware(s.serveWs))

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
		handlers.AllowCredentials(),
	)(mux)

	h = s.errorHandler(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.mux = srv
	return s
}

func (s *TaskManagerApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *TaskManagerApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
