package cache

import (
	"net/url"
	"strings"
)

// Key composes a cache key from the view name, the user and the request
// parameters. Parameters are serialized with sorted keys so the result does
// not depend on map iteration or literal field order.
//
// The user id is query-escaped and comes first, which makes UserPrefix an
// exact match for every key of that user.
func Key(view, userID string, params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}

	var b strings.Builder
	b.WriteString(UserPrefix(userID))
	b.WriteString(url.QueryEscape(view))
	b.WriteByte(':')
	b.WriteString(values.Encode())
	return b.String()
}

// UserPrefix is the prefix shared by all keys composed for userID.
func UserPrefix(userID string) string {
	return url.QueryEscape(userID) + ":"
}
