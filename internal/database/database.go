// Package database provides the document-store abstraction for the Kull API.
//
// The Database interface abstracts SurrealDB operations so the repository
// layer stays independent of the driver:
//   - Query: returns multiple results (SELECT queries returning lists)
//   - QueryOne: returns a single result (SELECT by id)
//   - Execute: no return value (CREATE/UPDATE/DELETE mutations)
//
// Transactions are BATCH-BASED, not connection-level: statements accumulate
// and are wrapped in BEGIN TRANSACTION / COMMIT TRANSACTION at execute time,
// so they succeed or fail together. See transaction.go.
//
// Standard errors are defined for common failure cases and should be
// checked with errors.Is:
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // record missing
//	}
package database

import (
	"context"
	"errors"
)

// Standard errors for database operations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique constraint violation (e.g. duplicate
	// community name).
	ErrDuplicate = errors.New("duplicate record")

	// ErrConnection indicates a failure to connect to or communicate with
	// the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure.
	ErrQuery = errors.New("query error")
)

// Database defines the interface for document-store operations
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns all result sets
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns the first record of the first
	// result set, or ErrNotFound
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds database connection settings
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}
