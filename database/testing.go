package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testDB *DB

// GetTestDB returns the database prepared by TestMain, or nil in -short runs.
func GetTestDB() *DB {
	return testDB
}

// SetupTestDB connects to dbURL and applies the embedded migrations.
func SetupTestDB(dbURL string) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Connect(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}
	if err := Migrate(ctx, db.Pool, nil); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// CleanupTestDB empties every table. Integration tests call it first.
func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()
	_, err := db.Pool.Exec(context.Background(), "TRUNCATE TABLE logs, projects CASCADE")
	require.NoError(t, err)
}

func TeardownTestDB(db *DB) {
	if db != nil {
		db.Close()
	}
}
