package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fintrack/internal/core"
)

// UserIDHeader identifies the caller. The userId query parameter is the fallback.
const UserIDHeader = "X-User-ID"

var ErrInvalidDate = errors.New("invalid date parameter")

// RangeParams holds the optional startDate/endDate query parameters.
// A zero bound is open.
type RangeParams struct {
	Start time.Time
	End   time.Time
}

// ParseUserID returns the caller's user id from the header or query string.
func ParseUserID(r *http.Request) (string, error) {
	userID := sanitizeInput(r.Header.Get(UserIDHeader))
	if userID == "" {
		userID = sanitizeInput(r.URL.Query().Get("userId"))
	}
	if userID == "" {
		return "", core.ErrEmptyUser
	}
	return userID, nil
}

// ParseRangeParams reads startDate and endDate. Range ordering is checked
// by the engine, not here.
func ParseRangeParams(query url.Values) (RangeParams, error) {
	var params RangeParams
	var err error
	if params.Start, err = parseDateParam(query, "startDate"); err != nil {
		return RangeParams{}, err
	}
	if params.End, err = parseDateParam(query, "endDate"); err != nil {
		return RangeParams{}, err
	}
	return params, nil
}

func parseDateParam(query url.Values, name string) (time.Time, error) {
	v := strings.TrimSpace(query.Get(name))
	if v == "" {
		return time.Time{}, nil
	}
	t, err := core.ParseDate(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s=%q", ErrInvalidDate, name, v)
	}
	return t, nil
}
