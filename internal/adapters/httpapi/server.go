// Package httpapi exposes the primary ports as a JSON REST API over net/http.
// Handlers translate requests into service calls and map results and apperr
// kinds onto the response envelope; they hold no business rules.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/taskapi/internal/ports/primary"
	"github.com/example/taskapi/internal/version"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services bundles the primary ports served over HTTP.
type Services struct {
	Auth      primary.AuthService
	Users     primary.UserService
	TaskTypes primary.TaskTypeService
	Tasks     primary.TaskService
	Audit     primary.AuditService
}

// Options tunes the HTTP surface.
type Options struct {
	MaxBodyBytes int64
	Health       Pinger // optional
}

// Server routes HTTP requests to the services.
type Server struct {
	svc    Services
	opts   Options
	logger *slog.Logger
}

// NewServer creates a Server.
func NewServer(svc Services, opts Options, logger *slog.Logger) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	return &Server{
		svc:    svc,
		opts:   opts,
		logger: logger.With("component", "http"),
	}
}

// Handler returns the fully wrapped root handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	auth := s.requireAuth

	mux.HandleFunc("GET /healthz", s.health)

	mux.HandleFunc("POST /auth/register", s.register)
	mux.HandleFunc("POST /auth/login", s.login)
	mux.Handle("POST /auth/logout", auth(http.HandlerFunc(s.logout)))

	mux.Handle("GET /users/match", auth(http.HandlerFunc(s.findUserMatches)))
	mux.Handle("GET /users", auth(http.HandlerFunc(s.findUsers)))
	mux.Handle("GET /users/{id}", auth(http.HandlerFunc(s.findUser)))
	mux.Handle("POST /users", auth(http.HandlerFunc(s.createUser)))
	mux.Handle("PUT /users/{id}", auth(http.HandlerFunc(s.updateUser)))
	mux.Handle("DELETE /users/{id}", auth(http.HandlerFunc(s.deleteUser)))

	mux.Handle("GET /task_types/match", auth(http.HandlerFunc(s.findTaskTypeMatches)))
	mux.Handle("GET /task_types", auth(http.HandlerFunc(s.findTaskTypes)))
	mux.Handle("GET /task_types/{id}", auth(http.HandlerFunc(s.findTaskType)))
	mux.Handle("POST /task_types", auth(http.HandlerFunc(s.createTaskType)))
	mux.Handle("PUT /task_types/{id}", auth(http.HandlerFunc(s.updateTaskType)))
	mux.Handle("DELETE /task_types/{id}", auth(http.HandlerFunc(s.deleteTaskType)))

	mux.Handle("GET /tasks/match", auth(http.HandlerFunc(s.findTaskMatches)))
	mux.Handle("GET /tasks", auth(http.HandlerFunc(s.findTasks)))
	mux.Handle("GET /tasks/{id}", auth(http.HandlerFunc(s.findTask)))
	mux.Handle("POST /tasks", auth(http.HandlerFunc(s.createTask)))
	mux.Handle("PUT /tasks/{id}", auth(http.HandlerFunc(s.updateTask)))
	mux.Handle("DELETE /tasks/{id}", auth(http.HandlerFunc(s.deleteTask)))

	mux.Handle("GET /audit_logs", auth(http.HandlerFunc(s.listAuditEntries)))

	return Chain(
		s.requestID,
		s.accessLog,
		s.recoverer,
		s.limitBody,
	).Handler(mux)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.opts.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.opts.Health.PingContext(ctx); err != nil {
			s.logger.ErrorContext(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, healthBody{Status: "unavailable", Build: version.Get()})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthBody{Status: "ok", Build: version.Get()})
}

type healthBody struct {
	Status string       `json:"status"`
	Build  version.Info `json:"build"`
}
