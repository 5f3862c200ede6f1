package store

import (
	"fmt"

	"github.com/nibzard/task-cli/internal/task"
)

// ToDomain converts a stored record to a task. It fails only when the
// status code is unknown.
func ToDomain(rec Record) (task.Task, error) {
	status, err := task.StatusFromCode(rec.StatusCode)
	if err != nil {
		return task.Task{}, fmt.Errorf("task %d: %w", rec.Key(), err)
	}
	return task.Task{
		ID:          rec.Key(),
		Description: rec.Description,
		Status:      status,
		CreatedAt:   timeOf(rec.CreatedAt),
		UpdatedAt:   timeOf(rec.UpdatedAt),
	}, nil
}

// ToDomainAll converts records in order, stopping at the first failure.
func ToDomainAll(recs []Record) ([]task.Task, error) {
	tasks := make([]task.Task, 0, len(recs))
	for _, rec := range recs {
		t, err := ToDomain(rec)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// FromDomain converts a task to its stored shape. A zero ID or zero
// timestamp is stored as null.
func FromDomain(t task.Task) Record {
	rec := Record{
		Description: t.Description,
		StatusCode:  t.Status.Code(),
	}
	if t.ID != 0 {
		rec.ID = int64Ptr(t.ID)
	}
	if !t.CreatedAt.IsZero() {
		rec.CreatedAt = NewTimestamp(t.CreatedAt)
	}
	if !t.UpdatedAt.IsZero() {
		rec.UpdatedAt = NewTimestamp(t.UpdatedAt)
	}
	return rec
}
