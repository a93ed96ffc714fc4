package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/taskapi/internal/apperr"
	"github.com/example/taskapi/internal/core/authz"
	"github.com/example/taskapi/internal/core/user"
	"github.com/example/taskapi/internal/ports/primary"
	"github.com/example/taskapi/internal/ports/secondary"
)

// tokenName labels tokens issued by register and login.
const tokenName = "api"

const badCredentials = "The provided credentials are incorrect."

// AuthServiceImpl implements the AuthService interface.
type AuthServiceImpl struct {
	userRepo    secondary.UserRepository
	tokenRepo   secondary.TokenRepository
	hasher      secondary.PasswordHasher
	tokens      secondary.TokenGenerator
	transactor  secondary.Transactor
	auditWriter secondary.AuditWriter
	logger      *slog.Logger
	now         func() time.Time
}

// NewAuthService creates a new AuthService with injected dependencies.
func NewAuthService(
	userRepo secondary.UserRepository,
	tokenRepo secondary.TokenRepository,
	hasher secondary.PasswordHasher,
	tokens secondary.TokenGenerator,
	transactor secondary.Transactor,
	auditWriter secondary.AuditWriter,
	logger *slog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		hasher:      hasher,
		tokens:      tokens,
		transactor:  transactor,
		auditWriter: auditWriter,
		logger:      logger.With("service", "auth"),
		now:         time.Now,
	}
}

// Register creates a user-role account and issues its first token.
func (s *AuthServiceImpl) Register(ctx context.Context, req primary.RegisterRequest) (*primary.AuthResult, error) {
	fields := user.Fields{Name: req.Name, Email: normalizeEmail(req.Email), Password: req.Password}

	taken := false
	if fields.Email != nil && *fields.Email != "" {
		var err error
		if taken, err = s.userRepo.EmailExists(ctx, *fields.Email, ""); err != nil {
			return nil, surface(ctx, s.logger, "check email", err)
		}
	}
	if err := user.ValidateCreate(user.CreateUserContext{Fields: fields, EmailTaken: taken}); err != nil {
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
		Role:         string(authz.RoleUser),
	}

	var plain string
	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, record); err != nil {
			return err
		}
		if err := s.auditWriter.LogCreate(ctx, record.ID, string(authz.ResourceUser), record.ID); err != nil {
			return err
		}
		var err error
		plain, err = s.issueToken(ctx, record.ID)
		return err
	})
	if err != nil {
		return nil, surface(ctx, s.logger, "register", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", record.ID)
	return &primary.AuthResult{User: recordToUser(record), Token: plain}, nil
}

// Login verifies credentials and issues a new token.
func (s *AuthServiceImpl) Login(ctx context.Context, req primary.LoginRequest) (*primary.AuthResult, error) {
	record, err := s.userRepo.GetByEmail(ctx, user.NormalizeEmail(req.Email))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Unauthorized(badCredentials)
	}
	if err != nil {
		return nil, surface(ctx, s.logger, "get user by email", err)
	}

	if err := s.hasher.Compare(record.PasswordHash, req.Password); err != nil {
		s.logger.InfoContext(ctx, "login rejected", "user_id", record.ID)
		return nil, apperr.Unauthorized(badCredentials)
	}

	plain, err := s.issueToken(ctx, record.ID)
	if err != nil {
		return nil, surface(ctx, s.logger, "issue token", err)
	}

	return &primary.AuthResult{User: recordToUser(record), Token: plain}, nil
}

// Logout revokes every token held by the principal.
func (s *AuthServiceImpl) Logout(ctx context.Context, principal primary.Principal) error {
	if !principal.Authenticated() {
		return apperr.Unauthorized("Unauthenticated.")
	}

	n, err := s.tokenRepo.DeleteByUser(ctx, principal.ID)
	if err != nil {
		return surface(ctx, s.logger, "revoke tokens", err)
	}

	s.logger.InfoContext(ctx, "tokens revoked", "user_id", principal.ID, "count", n)
	return nil
}

// Authenticate resolves a bearer secret to its principal.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, bearer string) (*primary.Principal, error) {
	if bearer == "" {
		return nil, apperr.Unauthorized("Unauthenticated.")
	}

	token, err := s.tokenRepo.GetByHash(ctx, s.tokens.Hash(bearer))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Unauthorized("Unauthenticated.")
	}
	if err != nil {
		return nil, surface(ctx, s.logger, "get token", err)
	}

	record, err := s.userRepo.GetByID(ctx, token.UserID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Unauthorized("Unauthenticated.")
	}
	if err != nil {
		return nil, surface(ctx, s.logger, "get user", err)
	}

	if err := s.tokenRepo.Touch(ctx, token.ID, s.now()); err != nil {
		s.logger.WarnContext(ctx, "failed to record token use", "token_id", token.ID, "error", err)
	}

	return &primary.Principal{
		ID:   record.ID,
		Name: record.Name,
		Role: authz.Role(record.Role),
	}, nil
}

func (s *AuthServiceImpl) issueToken(ctx context.Context, userID string) (string, error) {
	plain, hash, err := s.tokens.Generate()
	if err != nil {
		return "", err
	}
	err = s.tokenRepo.Create(ctx, &secondary.TokenRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      tokenName,
		TokenHash: hash,
	})
	if err != nil {
		return "", err
	}
	return plain, nil
}

// Ensure AuthServiceImpl implements the interface
var _ primary.AuthService = (*AuthServiceImpl)(nil)
