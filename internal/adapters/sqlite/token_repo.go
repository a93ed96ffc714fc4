package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/taskapi/internal/apperr"
	"github.com/example/taskapi/internal/ports/secondary"
)

// TokenRepository implements secondary.TokenRepository with SQLite.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new SQLite token repository.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create persists a new token.
func (r *TokenRepository) Create(ctx context.Context, token *secondary.TokenRecord) error {
	now := time.Now().UTC()
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO access_tokens (id, user_id, name, token_hash, created_at) VALUES (?, ?, ?, ?, ?)",
		token.ID, token.UserID, token.Name, token.TokenHash, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}
	token.CreatedAt = now
	return nil
}

// GetByHash retrieves a token by the hash of its secret.
func (r *TokenRepository) GetByHash(ctx context.Context, hash string) (*secondary.TokenRecord, error) {
	var lastUsedAt sql.NullTime

	record := &secondary.TokenRecord{}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT id, user_id, name, token_hash, created_at, last_used_at FROM access_tokens WHERE token_hash = ?",
		hash,
	).Scan(&record.ID, &record.UserID, &record.Name, &record.TokenHash, &record.CreatedAt, &lastUsedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("token not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	if lastUsedAt.Valid {
		t := lastUsedAt.Time
		record.LastUsedAt = &t
	}
	return record, nil
}

// Touch records that a token was used.
func (r *TokenRepository) Touch(ctx context.Context, id string, at time.Time) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE access_tokens SET last_used_at = ? WHERE id = ?", at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to touch token: %w", err)
	}
	return nil
}

// DeleteByUser revokes every token of a user.
func (r *TokenRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	result, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM access_tokens WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tokens: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rowsAffected), nil
}

// Ensure TokenRepository implements the interface
var _ secondary.TokenRepository = (*TokenRepository)(nil)
