package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Match represents an upcoming fixture returned by the matches endpoint
type Match struct {
	Sport     Sport   `json:"sport"`
	EventID   EventID `json:"event_id"`
	League    string  `json:"league"`
	Home      string  `json:"home"`
	Away      string  `json:"away"`
	StartTime string  `json:"start_time"` // ISO 8601 with offset
}

// Label returns the "Home vs Away" display label
func (m Match) Label() string {
	return fmt.Sprintf("%s vs %s", m.Home, m.Away)
}

// StartsAt parses StartTime. A match without a start time cannot be placed
// on a calendar date, so an empty value is an error.
func (m Match) StartsAt() (time.Time, error) {
	if m.StartTime == "" {
		return time.Time{}, fmt.Errorf("match %s has no start_time", m.EventID)
	}
	return ParseTimestamp(m.StartTime)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses an ISO 8601 timestamp. Values without an offset are
// taken as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start_time %q", value)
}

// EventID is an upstream event identifier. The API is not consistent about
// sending it as a string or a number, so both are accepted.
type EventID string

// UnmarshalJSON implements json.Unmarshaler
func (id *EventID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = EventID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("event_id must be a string or number: %w", err)
	}
	*id = EventID(n.String())
	return nil
}

// String implements fmt.Stringer
func (id EventID) String() string {
	return string(id)
}
