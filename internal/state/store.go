// Package state persists analysis runs in a SQLite symbol index.
// It tracks runs, analyzed modules, discovered classes, and their base
// edges so listings can be served without re-analyzing the project.
package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// RunStatus is the lifecycle state of an indexing run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one indexing pass over a project.
type Run struct {
	ID              string
	ProjectRoot     string
	Status          RunStatus
	StartedAt       time.Time
	CompletedAt     *time.Time
	ModuleCount     int
	ClassCount      int
	DiagnosticCount int
	Error           string
}

// Module is one analyzed source file within a run.
type Module struct {
	ID    string
	RunID string
	Path  string
}

// Class is one indexed class row. Module carries the joined source path
// and Bases the ordered base names from class_bases.
type Class struct {
	ID          string
	RunID       string
	ModuleID    string
	Module      string
	QualName    string
	Name        string
	Line        int
	Col         int
	Decorated   bool
	Metaclasses string
	TypeVars    string
	Signature   string
	Bases       []string
}

// BaseEdge is one base declaration of an indexed class.
type BaseEdge struct {
	Sub      string
	Base     string
	Position int
}

const memoryPath = ":memory:"

// Store is the SQLite-backed symbol index.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates an unopened store.
func NewStore() *Store {
	return &Store{}
}

// Open opens the SQLite database at path. Use ":memory:" for an
// in-memory database.
func (s *Store) Open(path string) error {
	dsn := path
	if path != memoryPath {
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if path == memoryPath {
		// A second pooled connection would see its own empty database.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the location the store was opened at.
func (s *Store) Path() string {
	return s.path
}

func generateID() string {
	return uuid.New().String()
}
