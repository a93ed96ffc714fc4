// Package wire provides dependency injection for the taskapi application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"

	cliadapter "github.com/example/taskapi/internal/adapters/cli"
	"github.com/example/taskapi/internal/adapters/httpapi"
	"github.com/example/taskapi/internal/adapters/security"
	"github.com/example/taskapi/internal/adapters/sqlite"
	"github.com/example/taskapi/internal/app"
	"github.com/example/taskapi/internal/config"
	"github.com/example/taskapi/internal/core/authz"
	"github.com/example/taskapi/internal/db"
	"github.com/example/taskapi/internal/ports/primary"
	"github.com/example/taskapi/internal/ports/secondary"
)

// operator is the administrator principal CLI commands act as.
var operator = primary.Principal{ID: "cli", Name: "taskapi CLI", Role: authz.RoleAdministrator}

var (
	cfg      *config.Config
	logger   *slog.Logger
	database *sql.DB
	hasher   secondary.PasswordHasher

	authService     primary.AuthService
	userService     primary.UserService
	taskTypeService primary.TaskTypeService
	taskService     primary.TaskService
	auditService    primary.AuditService

	once    sync.Once
	initErr error
)

// Init opens the configured database and builds every service.
// Only the first call has any effect; later calls return its result.
func Init(c *config.Config, l *slog.Logger) error {
	once.Do(func() {
		initErr = initServices(c, l)
	})
	return initErr
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices(c *config.Config, l *slog.Logger) error {
	cfg, logger = c, l

	var err error
	database, err = db.Open(c.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	transactor := sqlite.NewTransactor(database)
	userRepo := sqlite.NewUserRepository(database)
	taskTypeRepo := sqlite.NewTaskTypeRepository(database)
	taskRepo := sqlite.NewTaskRepository(database)
	tokenRepo := sqlite.NewTokenRepository(database)
	auditRepo := sqlite.NewAuditLogRepository(database)
	auditWriter := sqlite.NewAuditWriterAdapter(auditRepo)
	hasher = security.NewBcryptHasher(c.Security.BcryptCost)

	// Create services (primary ports implementation)
	authService = app.NewAuthService(userRepo, tokenRepo, hasher, security.NewTokenGenerator(), transactor, auditWriter, logger)
	userService = app.NewUserService(userRepo, hasher, transactor, auditWriter, logger)
	taskTypeService = app.NewTaskTypeService(taskTypeRepo, transactor, auditWriter, logger)
	taskService = app.NewTaskService(taskRepo, taskTypeRepo, transactor, auditWriter, logger)
	auditService = app.NewAuditService(auditRepo, logger)

	logger.Debug("services initialized", "db_path", c.Database.Path)
	return nil
}

// DB returns the shared database handle.
func DB() *sql.DB {
	return database
}

// PasswordHasher returns the configured password hasher.
func PasswordHasher() secondary.PasswordHasher {
	return hasher
}

// Close closes the database.
func Close() error {
	if database == nil {
		return nil
	}
	return database.Close()
}

// HTTPHandler returns the root handler serving the REST API.
func HTTPHandler() http.Handler {
	server := httpapi.NewServer(httpapi.Services{
		Auth:      authService,
		Users:     userService,
		TaskTypes: taskTypeService,
		Tasks:     taskService,
		Audit:     auditService,
	}, httpapi.Options{
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Health:       database,
	}, logger)
	return server.Handler()
}

// UserAdapter returns a new UserAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func UserAdapter() *cliadapter.UserAdapter {
	return UserAdapterWithOutput(os.Stdout)
}

// UserAdapterWithOutput returns a new UserAdapter writing to the given output.
func UserAdapterWithOutput(out io.Writer) *cliadapter.UserAdapter {
	return cliadapter.NewUserAdapter(userService, operator, out)
}

// TaskTypeAdapter returns a new TaskTypeAdapter writing to stdout.
func TaskTypeAdapter() *cliadapter.TaskTypeAdapter {
	return cliadapter.NewTaskTypeAdapter(taskTypeService, operator, os.Stdout)
}

// AuditAdapter returns a new AuditAdapter writing to stdout.
func AuditAdapter() *cliadapter.AuditAdapter {
	return cliadapter.NewAuditAdapter(auditService, operator, os.Stdout)
}
