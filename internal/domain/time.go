package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for event dates and timeline buckets.
const DateLayout = "2006-01-02"

// eventTimeLayout matches the ISO-8601 timestamps produced by the upstream
// services (no zone designator).
const eventTimeLayout = "2006-01-02T15:04:05"

// timeParseLayouts are the accepted decode formats, in order. Upstream
// producers emit plain isoformat, sometimes with fractional seconds; RFC 3339
// is accepted for producers that attach an offset.
var timeParseLayouts = []string{
	eventTimeLayout,
	"2006-01-02T15:04:05.999999999",
	time.RFC3339,
}

// Time is an event timestamp carried on the wire as an ISO-8601 string.
type Time struct {
	time.Time
}

// NewTime truncates t to second precision, the resolution of the wire format.
func NewTime(t time.Time) Time {
	return Time{t.Truncate(time.Second)}
}

// MarshalJSON encodes the timestamp as a quoted ISO-8601 string.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(eventTimeLayout) + `"`), nil
}

// UnmarshalJSON decodes a quoted ISO-8601 string.
func (t *Time) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("event timestamp is not a JSON string: %s", data)
	}
	raw := string(data[1 : len(data)-1])

	var lastErr error
	for _, layout := range timeParseLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to parse event timestamp %q: %w", raw, lastErr)
}

// EventDate returns the calendar date of the timestamp. It partitions the
// analytical tables and bounds date-range scans, so it is written on every
// row.
func (t Time) EventDate() time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
