package core

import (
	"errors"
	"testing"
	"time"
)

func TestNewDateRange(t *testing.T) {
	start := time.Date(2025, 1, 1, 15, 30, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	r, err := NewDateRange(start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Start.Equal(NewDate(2025, 1, 1)) {
		t.Errorf("Start = %v, want midnight Jan 1", r.Start)
	}
	if !r.Contains(time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("range should include the whole end day")
	}
	if r.Contains(NewDate(2025, 2, 1)) {
		t.Errorf("range should not include Feb 1")
	}
	if r.Days() != 31 {
		t.Errorf("Days() = %d, want 31", r.Days())
	}
}

func TestNewDateRangeInvalid(t *testing.T) {
	_, err := NewDateRange(NewDate(2025, 2, 1), NewDate(2025, 1, 1))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	var rangeErr *InvalidRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected *InvalidRangeError, got %T", err)
	}
}

func TestNewDateRangeSameDay(t *testing.T) {
	day := NewDate(2025, 3, 10)
	r, err := NewDateRange(day, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Days() != 1 {
		t.Fatalf("Days() = %d, want 1", r.Days())
	}
}

func TestOpenRange(t *testing.T) {
	r, err := NewDateRange(time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.IsZero() || r.Days() != 0 || len(r.Params()) != 0 {
		t.Fatalf("expected open range, got %+v", r)
	}
	if !r.Contains(NewDate(1999, 1, 1)) {
		t.Fatalf("open range should contain everything")
	}
}

func TestMonthRange(t *testing.T) {
	r := MonthRange(time.Date(2024, 2, 17, 10, 0, 0, 0, time.UTC))
	if !r.Start.Equal(NewDate(2024, 2, 1)) {
		t.Errorf("Start = %v", r.Start)
	}
	if r.Days() != 29 {
		t.Errorf("Days() = %d, want 29 (leap year)", r.Days())
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2025-01-15", NewDate(2025, 1, 15), true},
		{"2025-01-15T10:00:00Z", time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC), true},
		{"2025-01-15T10:00:00", time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, true},
		{"15/01/2025", time.Time{}, false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(tc.want) {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.want, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMonthKey(t *testing.T) {
	k := MonthOf(NewDate(2025, 3, 9))
	if k.String() != "2025-03" || k.Name() != "March" {
		t.Fatalf("unexpected key %s %s", k, k.Name())
	}
	if !(MonthKey{2024, 12}).Before(k) || k.Before(MonthKey{2025, 3}) {
		t.Fatalf("unexpected ordering")
	}
}
