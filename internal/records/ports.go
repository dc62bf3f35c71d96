// Package records defines the read-only query port the analytics engine
// consumes, plus an in-memory implementation used for development and tests.
package records

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

// ErrMalformedRecord is returned when a stored record cannot be decoded into
// the domain model (unknown transaction type, unparsable amount or date).
var ErrMalformedRecord = errors.New("malformed record")

// Ports for outbound adapters.
type (
	// Source answers the three queries the engine needs. Implementations must
	// scope every result to userID and never mutate what they return afterwards.
	Source interface {
		// Transactions returns the user's transactions dated inside r,
		// ordered by date ascending. An open range bound is unrestricted.
		Transactions(ctx context.Context, userID string, r core.DateRange) ([]core.Transaction, error)

		// Goals returns all of the user's goals.
		Goals(ctx context.Context, userID string) ([]core.Goal, error)

		// Budgets returns the user's active budgets.
		Budgets(ctx context.Context, userID string) ([]core.Budget, error)
	}

	// Writer is implemented by sources that can be seeded.
	Writer interface {
		AddTransaction(ctx context.Context, t core.Transaction) (string, error)
		AddGoal(ctx context.Context, g core.Goal) (string, error)
		AddBudget(ctx context.Context, b core.Budget, active bool) (string, error)
	}
)
