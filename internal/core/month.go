package core

import "time"

// MonthKey identifies a calendar month bucket.
type MonthKey struct {
	Year  int
	Month int // 1-12
}

// MonthOf returns the bucket containing t.
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: int(t.Month())}
}

// String formats the key as YYYY-MM.
func (k MonthKey) String() string {
	return time.Date(k.Year, time.Month(k.Month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// Name returns the English month name.
func (k MonthKey) Name() string {
	return time.Month(k.Month).String()
}

// Before orders keys chronologically.
func (k MonthKey) Before(o MonthKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Month < o.Month
}
