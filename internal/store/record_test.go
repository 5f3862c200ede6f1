package store

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "local seconds",
			input: `"2025-01-15T10:30:45"`,
			want:  time.Date(2025, 1, 15, 10, 30, 45, 0, time.Local),
		},
		{
			name:  "local nanoseconds",
			input: `"2025-01-15T10:30:45.123456789"`,
			want:  time.Date(2025, 1, 15, 10, 30, 45, 123456789, time.Local),
		},
		{
			name:  "local millis",
			input: `"2025-01-15T10:30:45.5"`,
			want:  time.Date(2025, 1, 15, 10, 30, 45, 500000000, time.Local),
		},
		{
			name:  "minute precision",
			input: `"2025-01-15T10:30"`,
			want:  time.Date(2025, 1, 15, 10, 30, 0, 0, time.Local),
		},
		{
			name:  "rfc3339 with zone",
			input: `"2025-01-15T10:30:45Z"`,
			want:  time.Date(2025, 1, 15, 10, 30, 45, 0, time.UTC),
		},
		{name: "garbage", input: `"yesterday"`, wantErr: true},
		{name: "number", input: `1736937045`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !ts.Equal(tt.want) {
				t.Errorf("Unmarshal(%s): got %v, want %v", tt.input, ts.Time, tt.want)
			}
		})
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	for _, in := range []time.Time{
		time.Date(2025, 6, 1, 8, 0, 0, 0, time.Local),
		time.Date(2025, 6, 1, 8, 0, 0, 120000000, time.Local),
		time.Date(2025, 6, 1, 8, 0, 0, 1, time.UTC),
	} {
		data, err := json.Marshal(NewTimestamp(in))
		if err != nil {
			t.Fatalf("Marshal(%v) error = %v", in, err)
		}
		var out Timestamp
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", data, err)
		}
		if !out.Equal(in) {
			t.Errorf("round trip %v: got %v via %s", in, out.Time, data)
		}
	}
}

func TestTimestampMarshalOmitsZeroFraction(t *testing.T) {
	data, err := json.Marshal(NewTimestamp(time.Date(2025, 1, 15, 10, 30, 45, 0, time.Local)))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got := string(data); got != `"2025-01-15T10:30:45"` {
		t.Errorf("Marshal(): got %s, want \"2025-01-15T10:30:45\"", got)
	}
}

func TestRecordDecodeIgnoresUnknownFields(t *testing.T) {
	var rec Record
	input := `{"idTaskEntity": 3, "descriptionTaskEntity": "x", "statusCode": 2, "priority": 5, "tags": ["a"]}`
	if err := json.Unmarshal([]byte(input), &rec); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if rec.Key() != 3 || rec.Description != "x" || rec.StatusCode != 2 {
		t.Errorf("Unmarshal(): got %+v", rec)
	}
	if rec.CreatedAt != nil || rec.UpdatedAt != nil {
		t.Error("missing timestamps should stay nil")
	}
}
