package records

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// MemorySource keeps records in process. Safe for concurrent use.
type MemorySource struct {
	mu      sync.RWMutex
	txs     []core.Transaction
	goals   []core.Goal
	budgets []core.Budget
}

func NewMemorySource() *MemorySource {
	return &MemorySource{}
}

// NewMemorySourceFrom seeds a source with already-decoded records.
func NewMemorySourceFrom(ctx context.Context, recs Records) (*MemorySource, error) {
	s := NewMemorySource()
	if err := Load(ctx, s, recs); err != nil {
		return nil, err
	}
	return s, nil
}

// AddTransaction validates and stores t, assigning an id when empty.
func (s *MemorySource) AddTransaction(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, t)
	return t.ID, nil
}

func (s *MemorySource) AddGoal(_ context.Context, g core.Goal) (string, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append(s.goals, g)
	return g.ID, nil
}

// AddBudget stores b. Inactive budgets are accepted but never returned.
func (s *MemorySource) AddBudget(_ context.Context, b core.Budget, active bool) (string, error) {
	if err := b.Validate(); err != nil {
		return "", err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if !active {
		return b.ID, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets = append(s.budgets, b)
	return b.ID, nil
}

func (s *MemorySource) Transactions(ctx context.Context, userID string, r core.DateRange) ([]core.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]core.Transaction, 0)
	for _, t := range s.txs {
		if t.UserID == userID && r.Contains(t.Date) {
			out = append(out, t)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (s *MemorySource) Goals(ctx context.Context, userID string) ([]core.Goal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Goal, 0)
	for _, g := range s.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *MemorySource) Budgets(ctx context.Context, userID string) ([]core.Budget, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Budget, 0)
	for _, b := range s.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}
