package worker

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"fintrack/internal/amqp"
	"fintrack/internal/log"
)

type recordingInvalidator struct {
	users []string
}

func (r *recordingInvalidator) InvalidateUser(_ context.Context, userID string) int {
	r.users = append(r.users, userID)
	return 4
}

func TestHandleRecordsChanged(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Output: &buf})
	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 15, 10, 0, 2, 0, time.UTC))
	inv := &recordingInvalidator{}
	w := NewInvalidationWorker(inv, clock, logger)

	msg := &amqp.RecordsChangedMessage{
		UserID:    "u1",
		Kind:      amqp.KindTransaction,
		Timestamp: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
	}
	if err := w.HandleRecordsChanged(context.Background(), msg); err != nil {
		t.Fatalf("HandleRecordsChanged() error = %v", err)
	}

	if len(inv.users) != 1 || inv.users[0] != "u1" {
		t.Fatalf("invalidated = %v, want [u1]", inv.users)
	}
	out := buf.String()
	for _, want := range []string{"user_id=u1", "removed=4", "lag_ms=2000", "kind=transaction"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestHandleRecordsChangedWithoutKind(t *testing.T) {
	inv := &recordingInvalidator{}
	w := NewInvalidationWorker(inv, nil, log.Discard())

	err := w.HandleRecordsChanged(context.Background(), &amqp.RecordsChangedMessage{UserID: "u2"})
	if err != nil {
		t.Fatalf("HandleRecordsChanged() error = %v", err)
	}
	if len(inv.users) != 1 || inv.users[0] != "u2" {
		t.Fatalf("invalidated = %v, want [u2]", inv.users)
	}
}
