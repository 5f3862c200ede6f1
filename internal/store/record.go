package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the on-disk timestamp format: an ISO-8601 local
// date-time without zone, with optional fractional seconds.
const TimestampLayout = "2006-01-02T15:04:05.999999999"

// Extra layouts accepted on read.
var timestampFallbackLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04",
}

// Timestamp is a point in time stored as a local date-time.
type Timestamp struct {
	time.Time
}

// NewTimestamp returns a Timestamp pointer for t.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

// MarshalJSON writes the timestamp in the local zone using TimestampLayout.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.In(time.Local).Format(TimestampLayout))
}

// UnmarshalJSON parses a local date-time, falling back to RFC 3339 and
// minute precision.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	t, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err == nil {
		ts.Time = t
		return nil
	}
	for _, layout := range timestampFallbackLayouts {
		if t, ferr := time.ParseInLocation(layout, s, time.Local); ferr == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("parse timestamp %q: %w", s, err)
}

// timeOf returns the wrapped time, or the zero time for nil.
func timeOf(ts *Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.Time
}

// Record is the stored shape of a task.
//
// ID is a pointer so that entries without an ID can be told apart from
// real ones and dropped on read.
type Record struct {
	ID          *int64     `json:"idTaskEntity"`
	Description string     `json:"descriptionTaskEntity"`
	StatusCode  int        `json:"statusCode"`
	CreatedAt   *Timestamp `json:"createdAt"`
	UpdatedAt   *Timestamp `json:"updatedAt"`
}

// Key returns the record ID, or 0 when the ID is missing.
func (r Record) Key() int64 {
	if r.ID == nil {
		return 0
	}
	return *r.ID
}

// HasID reports whether the record carries an ID.
func (r Record) HasID() bool {
	return r.ID != nil
}

func int64Ptr(v int64) *int64 {
	return &v
}
