// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/taskapi/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// The pool is pinned to one connection because each :memory: connection is a
// separate database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", db.DSN(":memory:"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedUser inserts a test user and returns its ID.
func seedUser(t *testing.T, db *sql.DB, id, name, email, role string) string {
	t.Helper()
	if role == "" {
		role = "user"
	}
	_, err := db.Exec("INSERT INTO users (id, name, email, password, role) VALUES (?, ?, ?, 'hash', ?)", id, name, email, role)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return id
}

// seedTaskType inserts a visible task type and returns its ID.
func seedTaskType(t *testing.T, db *sql.DB, id, name string) string {
	t.Helper()
	_, err := db.Exec("INSERT INTO task_types (id, name, status) VALUES (?, ?, 'visible')", id, name)
	if err != nil {
		t.Fatalf("failed to seed task type: %v", err)
	}
	return id
}

// seedTask inserts a pending task and returns its ID.
func seedTask(t *testing.T, db *sql.DB, id, ownerID, typeID, title, start, deadline string) string {
	t.Helper()
	var dl any
	if deadline != "" {
		dl = deadline
	}
	_, err := db.Exec(
		"INSERT INTO tasks (id, title, start_date, deadline, status, user_id, task_type_id) VALUES (?, ?, ?, ?, 'pending', ?, ?)",
		id, title, start, dl, ownerID, typeID,
	)
	if err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return id
}

// countRows counts rows of a table matching a where clause.
func countRows(t *testing.T, db *sql.DB, table, where string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE "+where, args...).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}
