package records

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Fixture is the JSON document accepted by the seed tool and the memory
// backend. Amounts may be JSON numbers or strings; dates use YYYY-MM-DD or RFC3339.
type Fixture struct {
	Transactions []FixtureTransaction `json:"transactions"`
	Goals        []FixtureGoal        `json:"goals"`
	Budgets      []FixtureBudget      `json:"budgets"`
}

type FixtureTransaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

type FixtureGoal struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	SavedAmount  decimal.Decimal `json:"savedAmount"`
	TargetDate   string          `json:"targetDate"`
}

type FixtureBudget struct {
	ID       string          `json:"id"`
	UserID   string          `json:"userId"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	IsActive *bool           `json:"isActive"`
}

// Records is a decoded fixture. Inactive budgets are kept apart so writers
// that persist the active flag can still store them.
type Records struct {
	Transactions []core.Transaction
	Goals        []core.Goal
	Budgets      []core.Budget
	Inactive     []core.Budget
}

// ReadFixture decodes a fixture document.
func ReadFixture(r io.Reader) (Fixture, error) {
	var f Fixture
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	return f, nil
}

// ReadFixtureFile opens and decodes the fixture at path.
func ReadFixtureFile(path string) (Fixture, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("open fixture: %w", err)
	}
	defer fh.Close()
	return ReadFixture(fh)
}

// Records converts the fixture into domain records.
func (f Fixture) Records() (Records, error) {
	out := Records{
		Transactions: make([]core.Transaction, 0, len(f.Transactions)),
		Goals:        make([]core.Goal, 0, len(f.Goals)),
		Budgets:      make([]core.Budget, 0, len(f.Budgets)),
	}

	for i, ft := range f.Transactions {
		typ, err := core.ParseTxType(ft.Type)
		if err != nil {
			return Records{}, fmt.Errorf("transaction %d: %w: %v", i, ErrMalformedRecord, err)
		}
		date, err := core.ParseDate(ft.Date)
		if err != nil || date.IsZero() {
			return Records{}, fmt.Errorf("transaction %d: %w: bad date %q", i, ErrMalformedRecord, ft.Date)
		}
		out.Transactions = append(out.Transactions, core.Transaction{
			ID:          ft.ID,
			UserID:      ft.UserID,
			Amount:      ft.Amount,
			Type:        typ,
			Category:    ft.Category,
			Date:        date,
			Description: ft.Description,
		})
	}

	for i, fg := range f.Goals {
		g := core.Goal{
			ID:           fg.ID,
			UserID:       fg.UserID,
			Name:         fg.Name,
			Category:     fg.Category,
			TargetAmount: fg.TargetAmount,
			SavedAmount:  fg.SavedAmount,
		}
		if fg.TargetDate != "" {
			d, err := core.ParseDate(fg.TargetDate)
			if err != nil {
				return Records{}, fmt.Errorf("goal %d: %w: bad target date %q", i, ErrMalformedRecord, fg.TargetDate)
			}
			g.Deadline = &d
		}
		out.Goals = append(out.Goals, g)
	}

	for _, fb := range f.Budgets {
		b := core.Budget{ID: fb.ID, UserID: fb.UserID, Category: fb.Category, Amount: fb.Amount}
		if fb.IsActive != nil && !*fb.IsActive {
			out.Inactive = append(out.Inactive, b)
			continue
		}
		out.Budgets = append(out.Budgets, b)
	}
	return out, nil
}

// Load writes every record in recs through w, stopping at the first failure.
func Load(ctx context.Context, w Writer, recs Records) error {
	for _, t := range recs.Transactions {
		if _, err := w.AddTransaction(ctx, t); err != nil {
			return fmt.Errorf("add transaction %q: %w", t.ID, err)
		}
	}
	for _, g := range recs.Goals {
		if _, err := w.AddGoal(ctx, g); err != nil {
			return fmt.Errorf("add goal %q: %w", g.Name, err)
		}
	}
	for _, b := range recs.Budgets {
		if _, err := w.AddBudget(ctx, b, true); err != nil {
			return fmt.Errorf("add budget %q: %w", b.Category, err)
		}
	}
	for _, b := range recs.Inactive {
		if _, err := w.AddBudget(ctx, b, false); err != nil {
			return fmt.Errorf("add budget %q: %w", b.Category, err)
		}
	}
	return nil
}

// UserIDs returns the distinct owners of recs in sorted order.
func (r Records) UserIDs() []string {
	seen := map[string]struct{}{}
	for _, t := range r.Transactions {
		seen[t.UserID] = struct{}{}
	}
	for _, g := range r.Goals {
		seen[g.UserID] = struct{}{}
	}
	for _, b := range r.Budgets {
		seen[b.UserID] = struct{}{}
	}
	for _, b := range r.Inactive {
		seen[b.UserID] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
