// Package store persists tasks in a single JSON file.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/task-cli/internal/task"
	"github.com/nibzard/task-cli/internal/taskdir"
)

var (
	// ErrNotFound is returned when no task has the requested ID.
	ErrNotFound = errors.New("task not found")

	// ErrStorageUnavailable is matched by every StorageError.
	ErrStorageUnavailable = errors.New("task storage unavailable")

	// ErrEmptyDescription is returned when a description is blank.
	ErrEmptyDescription = errors.New("task description is empty")
)

// StorageError describes a failed read or write of the task file.
type StorageError struct {
	Op   string // "read", "mkdir" or "write"
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap matches both ErrStorageUnavailable and the underlying cause.
func (e *StorageError) Unwrap() []error {
	return []error{ErrStorageUnavailable, e.Err}
}

// Options configures a Store.
type Options struct {
	// Dir is the directory holding tasks.json. It is created on first write.
	Dir string
	// Logger receives diagnostics. Nil discards them.
	Logger *log.Logger
	// Now returns the current time. Nil uses time.Now.
	Now func() time.Time
	// TolerateReadErrors treats unreadable or undecodable files as empty
	// instead of returning a StorageError.
	TolerateReadErrors bool
}

// Store reads and writes the task collection. Every call loads the whole
// file and, for mutations, rewrites it; nothing is cached between calls.
// A Store is not safe for use by several processes on the same directory.
type Store struct {
	dir      string
	path     string
	logger   *log.Logger
	now      func() time.Time
	tolerant bool
}

// New creates a Store for opts.Dir.
func New(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	return &Store{
		dir:      dir,
		path:     taskdir.TasksPath(dir),
		logger:   logger,
		now:      now,
		tolerant: opts.TolerateReadErrors,
	}
}

// Path returns the path of the task file.
func (s *Store) Path() string {
	return s.path
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.dir
}

// Create appends a new task with the next free ID and persists the collection.
func (s *Store) Create(description string) (Record, error) {
	if strings.TrimSpace(description) == "" {
		return Record{}, ErrEmptyDescription
	}

	records, err := s.load()
	if err != nil {
		return Record{}, err
	}

	now := s.now()
	rec := FromDomain(task.Task{
		ID:          nextID(records),
		Description: description,
		Status:      task.StatusNotStarted,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	records = append(records, rec)

	if err := s.save(records); err != nil {
		return Record{}, err
	}
	s.logger.Debug("created task", "id", rec.Key())
	return rec, nil
}

// GetAll returns every stored record that has an ID.
func (s *Store) GetAll() ([]Record, error) {
	records, err := s.load()
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// GetByID returns the record with id, or ErrNotFound.
func (s *Store) GetByID(id int64) (Record, error) {
	records, err := s.load()
	if err != nil {
		return Record{}, err
	}
	for _, rec := range records {
		if rec.Key() == id {
			return rec, nil
		}
	}
	return Record{}, fmt.Errorf("%w: %d", ErrNotFound, id)
}

// UpdateDescription replaces the description of the task with id.
func (s *Store) UpdateDescription(id int64, description string) (Record, error) {
	if strings.TrimSpace(description) == "" {
		return Record{}, ErrEmptyDescription
	}
	return s.update(id, func(rec Record) Record {
		rec.Description = description
		return rec
	})
}

// UpdateStatus sets the status of the task with id. Any status may
// replace any other.
func (s *Store) UpdateStatus(id int64, status task.Status) (Record, error) {
	if !status.Valid() {
		return Record{}, &task.InvalidStatusError{Code: status.Code()}
	}
	return s.update(id, func(rec Record) Record {
		rec.StatusCode = status.Code()
		return rec
	})
}

// Delete removes the task with id. It reports whether a task was removed;
// deleting a missing ID is not an error and leaves the file untouched.
func (s *Store) Delete(id int64) (bool, error) {
	records, err := s.load()
	if err != nil {
		return false, err
	}

	kept := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.Key() != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		s.logger.Debug("delete matched no task", "id", id)
		return false, nil
	}

	if err := s.save(kept); err != nil {
		return false, err
	}
	s.logger.Debug("deleted task", "id", id)
	return true, nil
}

// update applies fn to the record with id, refreshes its updatedAt and
// persists. Nothing is written when no record matches.
func (s *Store) update(id int64, fn func(Record) Record) (Record, error) {
	records, err := s.load()
	if err != nil {
		return Record{}, err
	}

	for i := range records {
		if records[i].Key() != id {
			continue
		}
		updated := fn(records[i])
		updated.UpdatedAt = NewTimestamp(s.touchTime(updated))
		records[i] = updated

		if err := s.save(records); err != nil {
			return Record{}, err
		}
		s.logger.Debug("updated task", "id", id)
		return updated, nil
	}
	return Record{}, fmt.Errorf("%w: %d", ErrNotFound, id)
}

// touchTime returns the current time, never earlier than rec's createdAt.
func (s *Store) touchTime(rec Record) time.Time {
	now := s.now()
	if created := timeOf(rec.CreatedAt); now.Before(created) {
		return created
	}
	return now
}

// load reads the task file. A missing or empty file is an empty collection.
// Records without an ID are dropped.
func (s *Store) load() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return s.readFailure(err)
	}

	content := bytes.TrimSpace(data)
	if len(content) == 0 {
		return nil, nil
	}

	var records []Record
	if err := json.Unmarshal(content, &records); err != nil {
		return s.readFailure(fmt.Errorf("parse task file: %w", err))
	}

	kept := records[:0]
	for _, rec := range records {
		if !rec.HasID() {
			continue
		}
		kept = append(kept, rec)
	}
	if dropped := len(records) - len(kept); dropped > 0 {
		s.logger.Debug("ignored records without id", "count", dropped, "path", s.path)
	}
	return kept, nil
}

func (s *Store) readFailure(err error) ([]Record, error) {
	if s.tolerant {
		s.logger.Error("failed to read task file, treating as empty", "path", s.path, "err", err)
		return nil, nil
	}
	return nil, &StorageError{Op: "read", Path: s.path, Err: err}
}

// save writes records to the task file with 2-space indentation,
// creating the storage directory if needed.
func (s *Store) save(records []Record) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		s.logger.Error("failed to create storage directory", "dir", s.dir, "err", err)
		return &StorageError{Op: "mkdir", Path: s.dir, Err: err}
	}

	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: fmt.Errorf("marshal task file: %w", err)}
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.logger.Error("failed to write task file", "path", s.path, "err", err)
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	s.logger.Debug("saved task file", "path", filepath.Clean(s.path), "tasks", len(records))
	return nil
}

func nextID(records []Record) int64 {
	var highest int64
	for _, rec := range records {
		if rec.Key() > highest {
			highest = rec.Key()
		}
	}
	return highest + 1
}

// isNotExist reports whether err means the file, or one of its parent
// directories, is absent.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
