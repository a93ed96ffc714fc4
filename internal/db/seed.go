package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Fixture IDs are fixed so repeated seeding is detectable and docs can refer to them.
const (
	FixtureAdminID     = "00000000-0000-4000-8000-000000000001"
	FixtureUserID      = "00000000-0000-4000-8000-000000000002"
	FixtureTypeWorkID  = "00000000-0000-4000-8000-000000000101"
	FixtureTypeHomeID  = "00000000-0000-4000-8000-000000000102"
	FixtureTypeOldID   = "00000000-0000-4000-8000-000000000103"
	FixtureAdminEmail  = "admin@example.com"
	FixtureUserEmail   = "user@example.com"
	fixtureTaskFirstID = "00000000-0000-4000-8000-000000000201"
	fixtureTaskNextID  = "00000000-0000-4000-8000-000000000202"
)

// SeedFixtures populates the database with development fixtures: an
// administrator, a regular user, three task types and two non-overlapping
// weekday tasks. passwordHash is stored for both accounts.
func SeedFixtures(database *sql.DB, passwordHash string) error {
	var existing int
	if err := database.QueryRow("SELECT COUNT(*) FROM users WHERE id = ?", FixtureAdminID).Scan(&existing); err != nil {
		return fmt.Errorf("check fixtures: %w", err)
	}
	if existing > 0 {
		return fmt.Errorf("fixtures already loaded")
	}

	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	// Users
	users := []struct{ id, name, email, role string }{
		{FixtureAdminID, "Administrator", FixtureAdminEmail, "administrator"},
		{FixtureUserID, "Regular User", FixtureUserEmail, "user"},
	}
	for _, u := range users {
		if _, err := tx.Exec(
			"INSERT INTO users (id, name, email, password, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			u.id, u.name, u.email, passwordHash, u.role, now, now,
		); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	// Task types
	types := []struct{ id, name, status string }{
		{FixtureTypeWorkID, "Work", "visible"},
		{FixtureTypeHomeID, "Home", "visible"},
		{FixtureTypeOldID, "Archived", "hidden"},
	}
	for _, tt := range types {
		if _, err := tx.Exec(
			"INSERT INTO task_types (id, name, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			tt.id, tt.name, tt.status, now, now,
		); err != nil {
			return fmt.Errorf("seed task types: %w", err)
		}
	}

	// Tasks (weekdays, disjoint windows)
	tasks := []struct{ id, title, start, deadline, typeID string }{
		{fixtureTaskFirstID, "Prepare quarterly report", "2023-10-31", "2023-11-03", FixtureTypeWorkID},
		{fixtureTaskNextID, "Fix the kitchen sink", "2023-11-06", "2023-11-07", FixtureTypeHomeID},
	}
	for _, t := range tasks {
		if _, err := tx.Exec(
			"INSERT INTO tasks (id, title, start_date, deadline, status, user_id, task_type_id, created_at, updated_at) VALUES (?, ?, ?, ?, 'pending', ?, ?, ?, ?)",
			t.id, t.title, t.start, t.deadline, FixtureUserID, t.typeID, now, now,
		); err != nil {
			return fmt.Errorf("seed tasks: %w", err)
		}
	}

	return tx.Commit()
}
