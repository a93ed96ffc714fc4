package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/taskapi/internal/apperr"
	coreuser "github.com/example/taskapi/internal/core/user"
	"github.com/example/taskapi/internal/ports/secondary"
)

// UserRepository implements secondary.UserRepository with SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userSelectCols = "id, name, email, password, role, created_at, updated_at"

var userSortColumns = map[string]string{
	"name":  "name",
	"email": "email",
	"role":  "role",
}

// scanUser scans a user row into a UserRecord.
func scanUser(scanner interface {
	Scan(dest ...any) error
}) (*secondary.UserRecord, error) {
	record := &secondary.UserRecord{}
	err := scanner.Scan(
		&record.ID, &record.Name, &record.Email, &record.PasswordHash, &record.Role,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func emailTaken() error {
	return apperr.Validation(map[string]string{"email": coreuser.MsgEmailTaken})
}

// Create persists a new user. A duplicate email is a validation error.
func (r *UserRepository) Create(ctx context.Context, user *secondary.UserRecord) error {
	now := time.Now().UTC()
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO users (id, name, email, password, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, now, now,
	)
	if isUniqueViolation(err) {
		return emailTaken()
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetByID retrieves a user by its ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*secondary.UserRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT "+userSelectCols+" FROM users WHERE id = ?",
		id,
	)

	record, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("user %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return record, nil
}

// GetByEmail retrieves a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*secondary.UserRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT "+userSelectCols+" FROM users WHERE email = ?",
		email,
	)

	record, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("user with email %s not found", email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return record, nil
}

// EmailExists reports whether a user other than excludeID holds email.
func (r *UserRepository) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	var count int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE email = ? AND id != ?",
		email, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func userWhere(filters secondary.UserFilters) (string, []any) {
	where := " WHERE 1=1"
	args := []any{}
	if filters.Search != "" {
		where += ` AND (name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\')`
		p := likePattern(filters.Search)
		args = append(args, p, p)
	}
	return where, args
}

// List retrieves users matching the given filters.
func (r *UserRepository) List(ctx context.Context, filters secondary.UserFilters) ([]*secondary.UserRecord, error) {
	where, args := userWhere(filters)
	q := "SELECT " + userSelectCols + " FROM users" + where + orderClause(filters.Sort, userSortColumns, "created_at ASC, id ASC")
	limit, limitArgs := limitClause(filters.Limit, filters.Offset)
	q += limit
	args = append(args, limitArgs...)

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*secondary.UserRecord
	for rows.Next() {
		record, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, record)
	}

	return users, rows.Err()
}

// Count counts users matching the given filters.
func (r *UserRepository) Count(ctx context.Context, filters secondary.UserFilters) (int, error) {
	where, args := userWhere(filters)
	var count int
	if err := conn(ctx, r.db).QueryRowContext(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// Update writes every column of an existing user. A duplicate email is a validation error.
func (r *UserRepository) Update(ctx context.Context, user *secondary.UserRecord) error {
	now := time.Now().UTC()
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE users SET name = ?, email = ?, password = ?, role = ?, updated_at = ? WHERE id = ?",
		user.Name, user.Email, user.PasswordHash, user.Role, now, user.ID,
	)
	if isUniqueViolation(err) {
		return emailTaken()
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("user %s not found", user.ID)
	}

	user.UpdatedAt = now
	return nil
}

// Delete removes a user. Tasks and tokens are removed by ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("user %s not found", id)
	}

	return nil
}

// Ensure UserRepository implements the interface
var _ secondary.UserRepository = (*UserRepository)(nil)
