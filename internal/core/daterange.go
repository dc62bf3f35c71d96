package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidRange is matched by every *InvalidRangeError via errors.Is.
var ErrInvalidRange = errors.New("invalid date range")

// InvalidRangeError reports a range whose start is after its end.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: start %s is after end %s",
		e.Start.Format(DateLayout), e.End.Format(DateLayout))
}

func (e *InvalidRangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// DateLayout is the calendar-date wire format.
const DateLayout = "2006-01-02"

// DateRange is an inclusive [Start, End] window. A zero bound is open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalizes start to the first instant of its day and end to the
// last instant of its day, so the whole end day is included.
func NewDateRange(start, end time.Time) (DateRange, error) {
	var r DateRange
	if !start.IsZero() {
		r.Start = StartOfDay(start)
	}
	if !end.IsZero() {
		r.End = EndOfDay(end)
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.Start.After(r.End) {
		return DateRange{}, &InvalidRangeError{Start: start, End: end}
	}
	return r, nil
}

// MonthRange covers the calendar month containing t.
func MonthRange(t time.Time) DateRange {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return DateRange{Start: first, End: EndOfDay(last)}
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// IsZero reports whether both bounds are open.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// IsBounded reports whether both bounds are set.
func (r DateRange) IsBounded() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// Days returns the number of calendar days the bounded range covers, at least 1.
// Open ranges report 0.
func (r DateRange) Days() int {
	if !r.IsBounded() {
		return 0
	}
	return CalendarDaysBetween(r.Start, r.End)
}

// CalendarDaysBetween counts calendar days from a to b inclusive, at least 1.
func CalendarDaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(db.Sub(da).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// Params returns the canonical cache-key parameters for the range.
func (r DateRange) Params() map[string]string {
	p := map[string]string{}
	if !r.Start.IsZero() {
		p["start"] = r.Start.UTC().Format(time.RFC3339Nano)
	}
	if !r.End.IsZero() {
		p["end"] = r.End.UTC().Format(time.RFC3339Nano)
	}
	return p
}

// ParseDate accepts YYYY-MM-DD, RFC3339 or a timestamp without zone.
// An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}
