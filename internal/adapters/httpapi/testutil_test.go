package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/taskapi/internal/adapters/security"
	"github.com/example/taskapi/internal/adapters/sqlite"
	"github.com/example/taskapi/internal/app"
	"github.com/example/taskapi/internal/db"
)

const fixturePassword = "password1"

// setupServer builds the full stack over a fresh in-memory database with fixtures loaded.
func setupServer(t *testing.T) http.Handler {
	t.Helper()

	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash(fixturePassword)
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	if err := db.SeedFixtures(database, hash); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	logger := discard()
	transactor := sqlite.NewTransactor(database)
	userRepo := sqlite.NewUserRepository(database)
	taskTypeRepo := sqlite.NewTaskTypeRepository(database)
	taskRepo := sqlite.NewTaskRepository(database)
	tokenRepo := sqlite.NewTokenRepository(database)
	auditRepo := sqlite.NewAuditLogRepository(database)
	audit := sqlite.NewAuditWriterAdapter(auditRepo)

	server := NewServer(Services{
		Auth:      app.NewAuthService(userRepo, tokenRepo, hasher, security.NewTokenGenerator(), transactor, audit, logger),
		Users:     app.NewUserService(userRepo, hasher, transactor, audit, logger),
		TaskTypes: app.NewTaskTypeService(taskTypeRepo, transactor, audit, logger),
		Tasks:     app.NewTaskService(taskRepo, taskTypeRepo, transactor, audit, logger),
		Audit:     app.NewAuditService(auditRepo, logger),
	}, Options{Health: database}, logger)

	return server.Handler()
}

type response struct {
	Code int
	Body map[string]any
	Raw  string
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any) response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("failed to marshal body: %v", err)
			}
			reader = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	res := response{Code: rec.Code, Raw: rec.Body.String()}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &res.Body); err != nil {
			t.Fatalf("response is not a JSON object: %q", res.Raw)
		}
	}
	return res
}

// login returns a bearer token for a fixture account.
func login(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	res := doRequest(t, h, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": fixturePassword})
	if res.Code != http.StatusOK {
		t.Fatalf("login %s: status %d: %s", email, res.Code, res.Raw)
	}
	return dataMap(t, res)["token"].(string)
}

func dataMap(t *testing.T, res response) map[string]any {
	t.Helper()
	data, ok := res.Body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %s", res.Raw)
	}
	return data
}

func dataList(t *testing.T, res response) []any {
	t.Helper()
	data, ok := res.Body["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %s", res.Raw)
	}
	return data
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
