package core

import (
	"fmt"
	"time"
)

// Timestamp represents a point in time with timezone awareness
type Timestamp time.Time

// NewTimestamp creates a new timestamp from time.Time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// Before returns true if t is before u
func (t Timestamp) Before(u Timestamp) bool {
	return time.Time(t).Before(time.Time(u))
}

// After returns true if t is after u
func (t Timestamp) After(u Timestamp) bool {
	return time.Time(t).After(time.Time(u))
}

// JSON marshaling for Timestamp
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var tm time.Time
	if err := tm.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Timestamp(tm)
	return nil
}

// Period is an opaque reporting-period label as issued by the upstream data
// service, e.g. "2024-03". Periods are compared for exact equality when
// joining series and sorted lexicographically for presentation; they are
// never parsed into calendar time.
type Period string

// String returns the string representation
func (p Period) String() string { return string(p) }

// IsEmpty checks if the period is empty
func (p Period) IsEmpty() bool { return p == "" }

// PeriodFromTime formats a time as an upstream-style monthly period label.
// Used to pick the ingestion period and by the synthetic data generator;
// stored periods arrive pre-formatted from the data service.
func PeriodFromTime(t time.Time) Period {
	return Period(fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month())))
}
