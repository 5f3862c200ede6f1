// Package task defines the task domain model.
package task

import (
	"fmt"
	"strings"
	"time"
)

// Status represents a task status.
type Status int

const (
	StatusNotStarted Status = iota + 1
	StatusInProgress
	StatusDone
)

// Statuses lists every known status in code order.
var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusDone}

var statusLabels = map[Status]string{
	StatusNotStarted: "todo",
	StatusInProgress: "in-progress",
	StatusDone:       "done",
}

// Code returns the integer code stored on disk.
func (s Status) Code() int {
	return int(s)
}

// Label returns the user-facing label ("todo", "in-progress", "done").
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return s.Label()
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// InvalidStatusError is returned when a status code or label is unknown.
type InvalidStatusError struct {
	Code  int
	Label string
}

func (e *InvalidStatusError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("no status found for label %q", e.Label)
	}
	return fmt.Sprintf("no status found for code %d", e.Code)
}

// StatusFromCode returns the status stored under code.
func StatusFromCode(code int) (Status, error) {
	s := Status(code)
	if !s.Valid() {
		return 0, &InvalidStatusError{Code: code}
	}
	return s, nil
}

// ParseStatus returns the status for a label, ignoring case and
// surrounding whitespace.
func ParseStatus(label string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	for _, s := range Statuses {
		if statusLabels[s] == normalized {
			return s, nil
		}
	}
	return 0, &InvalidStatusError{Label: label}
}

// Task is a single tracked task.
type Task struct {
	ID          int64
	Description string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsZero returns true if the task has not been assigned an ID.
func (t *Task) IsZero() bool {
	return t.ID == 0
}
