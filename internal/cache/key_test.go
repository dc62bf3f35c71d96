package cache

import (
	"strings"
	"testing"
)

func TestKeyIsOrderIndependent(t *testing.T) {
	a := Key("spending_trends", "u1", map[string]string{"start": "2025-01-01", "end": "2025-01-31"})
	b := Key("spending_trends", "u1", map[string]string{"end": "2025-01-31", "start": "2025-01-01"})
	if a != b {
		t.Fatalf("keys differ: %q vs %q", a, b)
	}
}

func TestKeyDistinguishesInputs(t *testing.T) {
	base := Key("dashboard", "u1", map[string]string{"start": "2025-01-01"})
	others := []string{
		Key("income_trends", "u1", map[string]string{"start": "2025-01-01"}),
		Key("dashboard", "u2", map[string]string{"start": "2025-01-01"}),
		Key("dashboard", "u1", map[string]string{"start": "2025-01-02"}),
		Key("dashboard", "u1", nil),
	}
	for i, k := range others {
		if k == base {
			t.Fatalf("case %d collided with base key %q", i, base)
		}
	}
}

func TestUserPrefixEscapesSeparator(t *testing.T) {
	// A user id containing the separator must not swallow another user's keys
	k := Key("dashboard", "a:b", nil)
	if strings.HasPrefix(k, UserPrefix("a")) {
		t.Fatalf("key %q should not match prefix of user a", k)
	}
	if !strings.HasPrefix(k, UserPrefix("a:b")) {
		t.Fatalf("key %q should match its own user prefix", k)
	}
}
