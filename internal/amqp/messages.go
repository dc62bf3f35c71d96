package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Record kinds carried by RecordsChangedMessage.
const (
	KindTransaction = "transaction"
	KindGoal        = "goal"
	KindBudget      = "budget"
)

var ErrInvalidMessage = errors.New("invalid records changed message")

// RecordsChangedMessage announces that a user's records were written.
// Consumers drop every cached view of that user.
type RecordsChangedMessage struct {
	UserID    string    `json:"userId"`
	Kind      string    `json:"kind,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordsChangedMessage creates a message stamped with the current time
func NewRecordsChangedMessage(userID, kind string) *RecordsChangedMessage {
	return &RecordsChangedMessage{
		UserID:    userID,
		Kind:      kind,
		Timestamp: time.Now(),
	}
}

// Validate requires a user id. An empty kind means any record kind.
func (m *RecordsChangedMessage) Validate() error {
	if strings.TrimSpace(m.UserID) == "" {
		return fmt.Errorf("%w: missing userId", ErrInvalidMessage)
	}
	switch m.Kind {
	case "", KindTransaction, KindGoal, KindBudget:
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidMessage, m.Kind)
	}
}

// ToJSON converts the message to JSON bytes
func (m *RecordsChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordsChangedMessageFromJSON decodes and validates a message
func RecordsChangedMessageFromJSON(data []byte) (*RecordsChangedMessage, error) {
	var msg RecordsChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
