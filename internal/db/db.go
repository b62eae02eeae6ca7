package db

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/inctrack/internal/tracker"
)

// Store keeps incidents and sessions in a SQLite file instead of a workbook.
// Writes are serialized by one mutex, same as the workbook backend.
type Store struct {
	db   *gorm.DB
	path string
	mu   sync.Mutex
}

// Open sets up the database connection at path
func Open(path string) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return nil, classify(abs, err)
	}

	db, err := gorm.Open(sqlite.Open(abs), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Store{db: db, path: abs}, nil
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.path
}

// Tickets returns the incidents table
func (s *Store) Tickets() *Tickets {
	return &Tickets{store: s}
}

// Activities returns the sessions table
func (s *Store) Activities() *Activities {
	return &Activities{store: s}
}

// Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// migrate creates/updates one table
func (s *Store) migrate(model any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.AutoMigrate(model); err != nil {
		return classify(s.path, err)
	}
	return nil
}

// classify maps write failures onto the storage error types
func classify(path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrPermission) || strings.Contains(strings.ToLower(err.Error()), "readonly") {
		return &tracker.PermissionError{Path: path, Err: err}
	}
	return &tracker.StorageWriteError{Path: path, Err: err}
}

var (
	_ tracker.TicketStore   = (*Tickets)(nil)
	_ tracker.ActivityStore = (*Activities)(nil)
	_ tracker.Exporter      = (*Store)(nil)
)
