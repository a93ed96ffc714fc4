package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/example/taskapi/internal/core/authz"
	"github.com/example/taskapi/internal/core/query"
	"github.com/example/taskapi/internal/core/user"
	"github.com/example/taskapi/internal/ports/primary"
	"github.com/example/taskapi/internal/ports/secondary"
)

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userRepo    secondary.UserRepository
	hasher      secondary.PasswordHasher
	transactor  secondary.Transactor
	auditWriter secondary.AuditWriter
	logger      *slog.Logger
}

// NewUserService creates a new UserService with injected dependencies.
func NewUserService(
	userRepo secondary.UserRepository,
	hasher secondary.PasswordHasher,
	transactor secondary.Transactor,
	auditWriter secondary.AuditWriter,
	logger *slog.Logger,
) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo:    userRepo,
		hasher:      hasher,
		transactor:  transactor,
		auditWriter: auditWriter,
		logger:      logger.With("service", "user"),
	}
}

// FindAllMatches lists a page of users matching name or email.
func (s *UserServiceImpl) FindAllMatches(ctx context.Context, principal primary.Principal, q primary.MatchQuery) (*primary.Page[*primary.User], error) {
	if err := authorize(principal, authz.ResourceUser, authz.ActionFindAllMatches); err != nil {
		return nil, err
	}

	filters := secondary.UserFilters{Search: strings.TrimSpace(q.Search)}
	if sort, ok := query.ParseOrderBy(q.OrderBy, user.Columns); ok {
		filters.Sort = &sort
	}

	total, err := s.userRepo.Count(ctx, filters)
	if err != nil {
		return nil, surface(ctx, s.logger, "count users", err)
	}

	page := query.NormalizePage(q.Page, q.PerPage, query.DefaultPerPage, query.MaxPerPage)
	filters.Limit = page.PerPage
	filters.Offset = page.Offset()

	records, err := s.userRepo.List(ctx, filters)
	if err != nil {
		return nil, surface(ctx, s.logger, "list users", err)
	}

	items := make([]*primary.User, len(records))
	for i, r := range records {
		items[i] = recordToUser(r)
	}
	return &primary.Page[*primary.User]{Items: items, Meta: query.Paginate(total, page)}, nil
}

// FindAll lists every user.
func (s *UserServiceImpl) FindAll(ctx context.Context, principal primary.Principal) ([]*primary.User, error) {
	if err := authorize(principal, authz.ResourceUser, authz.ActionFindAll); err != nil {
		return nil, err
	}

	records, err := s.userRepo.List(ctx, secondary.UserFilters{})
	if err != nil {
		return nil, surface(ctx, s.logger, "list users", err)
	}

	users := make([]*primary.User, len(records))
	for i, r := range records {
		users[i] = recordToUser(r)
	}
	return users, nil
}

// FindOne retrieves a user by ID.
func (s *UserServiceImpl) FindOne(ctx context.Context, principal primary.Principal, userID string) (*primary.User, error) {
	if err := authorize(principal, authz.ResourceUser, authz.ActionFindOne); err != nil {
		return nil, err
	}

	record, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, surface(ctx, s.logger, "get user", err)
	}
	return recordToUser(record), nil
}

// Create creates a user with an explicit role.
func (s *UserServiceImpl) Create(ctx context.Context, principal primary.Principal, req primary.CreateUserRequest) (*primary.User, error) {
	if err := authorize(principal, authz.ResourceUser, authz.ActionCreate); err != nil {
		return nil, err
	}

	fields := user.Fields{Name: req.Name, Email: normalizeEmail(req.Email), Password: req.Password, Role: req.Role}
	taken, err := s.emailTaken(ctx, fields.Email, "")
	if err != nil {
		return nil, err
	}
	if err := user.ValidateCreate(user.CreateUserContext{Fields: fields, EmailTaken: taken, RequireRole: true}); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(*fields.Password)
	if err != nil {
		return nil, surface(ctx, s.logger, "hash password", err)
	}

	record := &secondary.UserRecord{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(*fields.Name),
		Email:        *fields.Email,
		PasswordHash: hash,
		Role:         *fields.Role,
	}

	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, record); err != nil {
			return err
		}
		return s.auditWriter.LogCreate(ctx, principal.ID, string(authz.ResourceUser), record.ID)
	})
	if err != nil {
		return nil, surface(ctx, s.logger, "create user", err)
	}

	s.logger.InfoContext(ctx, "user created", "user_id", record.ID, "role", record.Role, "actor_id", principal.ID)
	return recordToUser(record), nil
}

// Update applies the supplied fields. Email uniqueness ignores the user itself.
func (s *UserServiceImpl) Update(ctx context.Context, principal primary.Principal, req primary.UpdateUserRequest) (*primary.User, error) {
	if err := authorize(principal, authz.ResourceUser, authz.ActionUpdate); err != nil {
		return nil, err
	}

	record, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, surface(ctx, s.logger, "get user", err)
	}

	fields := user.Fields{Name: req.Name, Email: normalizeEmail(req.Email), Password: req.Password, Role: req.Role}
	taken, err := s.emailTaken(ctx, fields.Email, record.ID)
	if err != nil {
		return nil, err
	}
	if err := user.ValidateUpdate(user.UpdateUserContext{Fields: fields, EmailTaken: taken}); err != nil {
		return nil, err
	}

	var changes []fieldChange
	set := func(field string, dst *string, value string) {
		if *dst != value {
			changes = append(changes, fieldChange{field: field, old: *dst, new: value})
			*dst = value
		}
	}
	if fields.Name != nil {
		set("name", &record.Name, strings.TrimSpace(*fields.Name))
	}
	if fields.Email != nil {
		set("email", &record.Email, *fields.Email)
	}
	if fields.Role != nil && *fields.Role != "" {
		set("role", &record.Role, *fields.Role)
	}
	if fields.Password != nil && *fields.Password != "" {
		hash, err := s.hasher.Hash(*fields.Password)
		if err != nil {
			return nil, surface(ctx, s.logger, "hash password", err)
		}
		record.PasswordHash = hash
		// never record password material in the audit trail
		changes = append(changes, fieldChange{field: "password"})
	}

	if len(changes) == 0 {
		return recordToUser(record), nil
	}

	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Update(ctx, record); err != nil {
			return err
		}
		for _, c := range changes {
			if err := s.auditWriter.LogUpdate(ctx, principal.ID, string(authz.ResourceUser), record.ID, c.field, c.old, c.new); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, surface(ctx, s.logger, "update user", err)
	}

	s.logger.InfoContext(ctx, "user updated", "user_id", record.ID, "actor_id", principal.ID)
	return recordToUser(record), nil
}

// Delete deletes a user. Their tasks and tokens go with them.
func (s *UserServiceImpl) Delete(ctx context.Context, principal primary.Principal, userID string) error {
	if err := authorize(principal, authz.ResourceUser, authz.ActionDelete); err != nil {
		return err
	}

	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Delete(ctx, userID); err != nil {
			return err
		}
		return s.auditWriter.LogDelete(ctx, principal.ID, string(authz.ResourceUser), userID)
	})
	if err != nil {
		return surface(ctx, s.logger, "delete user", err)
	}

	s.logger.InfoContext(ctx, "user deleted", "user_id", userID, "actor_id", principal.ID)
	return nil
}

func (s *UserServiceImpl) emailTaken(ctx context.Context, email *string, excludeID string) (bool, error) {
	if email == nil || *email == "" {
		return false, nil
	}
	taken, err := s.userRepo.EmailExists(ctx, *email, excludeID)
	if err != nil {
		return false, surface(ctx, s.logger, "check email", err)
	}
	return taken, nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	n := user.NormalizeEmail(*email)
	return &n
}

func recordToUser(r *secondary.UserRecord) *primary.User {
	return &primary.User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Role:      r.Role,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Ensure UserServiceImpl implements the interface
var _ primary.UserService = (*UserServiceImpl)(nil)
