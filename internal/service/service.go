// Package service exposes task operations to front-ends.
//
// Results follow one convention: a nil error is success, an error matching
// ErrNotFound means no task has the ID, a *task.InvalidStatusError means
// the stored data holds an unknown status, and anything else is a storage
// failure.
package service

import (
	"github.com/nibzard/task-cli/internal/store"
	"github.com/nibzard/task-cli/internal/task"
)

// ErrNotFound is returned when no task has the requested ID.
var ErrNotFound = store.ErrNotFound

// Repository is the record-level storage used by Service.
// *store.Store implements it.
type Repository interface {
	Create(description string) (store.Record, error)
	GetAll() ([]store.Record, error)
	GetByID(id int64) (store.Record, error)
	UpdateDescription(id int64, description string) (store.Record, error)
	UpdateStatus(id int64, status task.Status) (store.Record, error)
	Delete(id int64) (bool, error)
}

// Service maps between domain tasks and stored records. It holds no state.
type Service struct {
	repo Repository
}

// New creates a Service backed by repo.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a task with status todo.
func (s *Service) Create(description string) (task.Task, error) {
	rec, err := s.repo.Create(description)
	if err != nil {
		return task.Task{}, err
	}
	return store.ToDomain(rec)
}

// Delete removes a task. removed is false when no task had the ID.
func (s *Service) Delete(id int64) (removed bool, err error) {
	return s.repo.Delete(id)
}

// Get returns a single task.
func (s *Service) Get(id int64) (task.Task, error) {
	rec, err := s.repo.GetByID(id)
	if err != nil {
		return task.Task{}, err
	}
	return store.ToDomain(rec)
}

// List returns every task in storage order.
func (s *Service) List() ([]task.Task, error) {
	recs, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	return store.ToDomainAll(recs)
}

// ListByStatus returns the tasks with the given status.
func (s *Service) ListByStatus(status task.Status) ([]task.Task, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	filtered := make([]task.Task, 0, len(all))
	for _, t := range all {
		if t.Status == status {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// UpdateDescription replaces a task's description.
func (s *Service) UpdateDescription(id int64, description string) (task.Task, error) {
	rec, err := s.repo.UpdateDescription(id, description)
	if err != nil {
		return task.Task{}, err
	}
	return store.ToDomain(rec)
}

// UpdateStatus sets a task's status. Transitions are not restricted.
func (s *Service) UpdateStatus(id int64, status task.Status) (task.Task, error) {
	rec, err := s.repo.UpdateStatus(id, status)
	if err != nil {
		return task.Task{}, err
	}
	return store.ToDomain(rec)
}
