package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/taskapi/internal/apperr"
	"github.com/example/taskapi/internal/core/authz"
	"github.com/example/taskapi/internal/ports/primary"
	"github.com/example/taskapi/internal/ports/secondary"
)

var errStorage = errors.New("disk I/O error")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

var (
	adminPrincipal = primary.Principal{ID: "admin-1", Name: "Admin", Role: authz.RoleAdministrator}
	alice          = primary.Principal{ID: "user-a", Name: "Alice", Role: authz.RoleUser}
	bob            = primary.Principal{ID: "user-b", Name: "Bob", Role: authz.RoleUser}
)

// ============================================================================
// Transactor
// ============================================================================

// Ensure mockTransactor implements the interface
var _ secondary.Transactor = (*mockTransactor)(nil)

// mockTransactor runs fn directly and counts calls.
type mockTransactor struct {
	calls int
}

func (m *mockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// ============================================================================
// AuditWriter
// ============================================================================

// Ensure mockAuditWriter implements the interface
var _ secondary.AuditWriter = (*mockAuditWriter)(nil)

type auditCall struct {
	actorID, entityType, entityID, action, field, old, new string
}

type mockAuditWriter struct {
	mu      sync.Mutex
	entries []auditCall
	err     error
}

func (m *mockAuditWriter) record(c auditCall) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, c)
	return nil
}

func (m *mockAuditWriter) LogCreate(ctx context.Context, actorID, entityType, entityID string) error {
	return m.record(auditCall{actorID: actorID, entityType: entityType, entityID: entityID, action: "create"})
}

func (m *mockAuditWriter) LogUpdate(ctx context.Context, actorID, entityType, entityID, fieldName, oldValue, newValue string) error {
	return m.record(auditCall{actorID: actorID, entityType: entityType, entityID: entityID, action: "update", field: fieldName, old: oldValue, new: newValue})
}

func (m *mockAuditWriter) LogDelete(ctx context.Context, actorID, entityType, entityID string) error {
	return m.record(auditCall{actorID: actorID, entityType: entityType, entityID: entityID, action: "delete"})
}

// ============================================================================
// TaskRepository
// ============================================================================

// Ensure mockTaskRepository implements the interface
var _ secondary.TaskRepository = (*mockTaskRepository)(nil)

type mockTaskRepository struct {
	mu        sync.Mutex
	tasks     map[string]*secondary.TaskRecord
	createErr error
	listErr   error
	lastList  secondary.TaskFilters
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{tasks: make(map[string]*secondary.TaskRecord)}
}

func (m *mockTaskRepository) put(r *secondary.TaskRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.tasks[r.ID] = &cp
}

func (m *mockTaskRepository) Create(ctx context.Context, task *secondary.TaskRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	m.put(task)
	return nil
}

func (m *mockTaskRepository) GetByID(ctx context.Context, id string) (*secondary.TaskRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.tasks[id]
	if !ok {
		return nil, apperr.NotFound("task %s not found", id)
	}
	cp := *r
	return &cp, nil
}

func (m *mockTaskRepository) filter(filters secondary.TaskFilters) []*secondary.TaskRecord {
	var out []*secondary.TaskRecord
	for _, r := range m.tasks {
		if filters.OwnerID != "" && r.OwnerID != filters.OwnerID {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(r.Title+" "+r.Status), strings.ToLower(filters.Search)) {
			continue
		}
		if filters.StartFrom != "" && r.StartDate < filters.StartFrom {
			continue
		}
		if filters.DeadlineTo != "" && (r.Deadline == "" || r.Deadline > filters.DeadlineTo) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	return out
}

func (m *mockTaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastList = filters
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := m.filter(filters)
	if filters.Limit > 0 {
		if filters.Offset >= len(out) {
			return nil, nil
		}
		end := filters.Offset + filters.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[filters.Offset:end]
	}
	return out, nil
}

func (m *mockTaskRepository) Count(ctx context.Context, filters secondary.TaskFilters) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return 0, m.listErr
	}
	return len(m.filter(filters)), nil
}

func (m *mockTaskRepository) Update(ctx context.Context, task *secondary.TaskRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[task.ID]; !ok {
		return apperr.NotFound("task %s not found", task.ID)
	}
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

func (m *mockTaskRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return apperr.NotFound("task %s not found", id)
	}
	delete(m.tasks, id)
	return nil
}

func (m *mockTaskRepository) ListWindowsByOwner(ctx context.Context, ownerID string) ([]*secondary.TaskWindowRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.TaskWindowRecord
	for _, r := range m.tasks {
		if r.OwnerID == ownerID {
			out = append(out, &secondary.TaskWindowRecord{ID: r.ID, OwnerID: r.OwnerID, StartDate: r.StartDate, Deadline: r.Deadline})
		}
	}
	return out, nil
}

// ============================================================================
// TaskTypeRepository
// ============================================================================

// Ensure mockTaskTypeRepository implements the interface
var _ secondary.TaskTypeRepository = (*mockTaskTypeRepository)(nil)

type mockTaskTypeRepository struct {
	types      map[string]*secondary.TaskTypeRecord
	taskCounts map[string]int
	existsErr  error
}

func newMockTaskTypeRepository() *mockTaskTypeRepository {
	return &mockTaskTypeRepository{
		types:      make(map[string]*secondary.TaskTypeRecord),
		taskCounts: make(map[string]int),
	}
}

func (m *mockTaskTypeRepository) Create(ctx context.Context, taskType *secondary.TaskTypeRecord) error {
	cp := *taskType
	m.types[taskType.ID] = &cp
	return nil
}

func (m *mockTaskTypeRepository) GetByID(ctx context.Context, id string) (*secondary.TaskTypeRecord, error) {
	r, ok := m.types[id]
	if !ok {
		return nil, apperr.NotFound("task type %s not found", id)
	}
	cp := *r
	return &cp, nil
}

func (m *mockTaskTypeRepository) Exists(ctx context.Context, id string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.types[id]
	return ok, nil
}

func (m *mockTaskTypeRepository) List(ctx context.Context, filters secondary.TaskTypeFilters) ([]*secondary.TaskTypeRecord, error) {
	var out []*secondary.TaskTypeRecord
	for _, r := range m.types {
		if filters.Search != "" && !strings.Contains(strings.ToLower(r.Name+" "+r.Status), strings.ToLower(filters.Search)) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockTaskTypeRepository) Count(ctx context.Context, filters secondary.TaskTypeFilters) (int, error) {
	out, _ := m.List(ctx, filters)
	return len(out), nil
}

func (m *mockTaskTypeRepository) Update(ctx context.Context, taskType *secondary.TaskTypeRecord) error {
	if _, ok := m.types[taskType.ID]; !ok {
		return apperr.NotFound("task type %s not found", taskType.ID)
	}
	cp := *taskType
	m.types[taskType.ID] = &cp
	return nil
}

func (m *mockTaskTypeRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.types[id]; !ok {
		return apperr.NotFound("task type %s not found", id)
	}
	delete(m.types, id)
	return nil
}

func (m *mockTaskTypeRepository) CountTasks(ctx context.Context, id string) (int, error) {
	return m.taskCounts[id], nil
}

// ============================================================================
// UserRepository
// ============================================================================

// Ensure mockUserRepository implements the interface
var _ secondary.UserRepository = (*mockUserRepository)(nil)

type mockUserRepository struct {
	users     map[string]*secondary.UserRecord
	createErr error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*secondary.UserRecord)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *secondary.UserRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*secondary.UserRecord, error) {
	r, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user %s not found", id)
	}
	cp := *r
	return &cp, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*secondary.UserRecord, error) {
	for _, r := range m.users {
		if r.Email == email {
			cp := *r
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user with email %s not found", email)
}

func (m *mockUserRepository) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	for _, r := range m.users {
		if r.Email == email && r.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) List(ctx context.Context, filters secondary.UserFilters) ([]*secondary.UserRecord, error) {
	var out []*secondary.UserRecord
	for _, r := range m.users {
		if filters.Search != "" && !strings.Contains(strings.ToLower(r.Name+" "+r.Email), strings.ToLower(filters.Search)) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockUserRepository) Count(ctx context.Context, filters secondary.UserFilters) (int, error) {
	out, _ := m.List(ctx, filters)
	return len(out), nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *secondary.UserRecord) error {
	if _, ok := m.users[user.ID]; !ok {
		return apperr.NotFound("user %s not found", user.ID)
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return apperr.NotFound("user %s not found", id)
	}
	delete(m.users, id)
	return nil
}

// ============================================================================
// TokenRepository, PasswordHasher, TokenGenerator
// ============================================================================

// Ensure mockTokenRepository implements the interface
var _ secondary.TokenRepository = (*mockTokenRepository)(nil)

type mockTokenRepository struct {
	tokens  map[string]*secondary.TokenRecord // by hash
	touched []string
}

func newMockTokenRepository() *mockTokenRepository {
	return &mockTokenRepository{tokens: make(map[string]*secondary.TokenRecord)}
}

func (m *mockTokenRepository) Create(ctx context.Context, token *secondary.TokenRecord) error {
	cp := *token
	m.tokens[token.TokenHash] = &cp
	return nil
}

func (m *mockTokenRepository) GetByHash(ctx context.Context, hash string) (*secondary.TokenRecord, error) {
	r, ok := m.tokens[hash]
	if !ok {
		return nil, apperr.NotFound("token not found")
	}
	cp := *r
	return &cp, nil
}

func (m *mockTokenRepository) Touch(ctx context.Context, id string, at time.Time) error {
	m.touched = append(m.touched, id)
	return nil
}

func (m *mockTokenRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	n := 0
	for h, r := range m.tokens {
		if r.UserID == userID {
			delete(m.tokens, h)
			n++
		}
	}
	return n, nil
}

// fakeHasher "hashes" by prefixing, so tests stay fast.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokens mints sequential secrets.
type fakeTokens struct {
	n int
}

func (f *fakeTokens) Generate() (string, string, error) {
	f.n++
	plain := "secret-" + string(rune('a'+f.n-1))
	return plain, f.Hash(plain), nil
}

func (f *fakeTokens) Hash(plain string) string { return "sha:" + plain }
