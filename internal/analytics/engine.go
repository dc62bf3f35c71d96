package analytics

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/records"
)

// Engine serves the analytics views. Each view result is cached per
// (view, user, parameters) and concurrent misses on one key share a single
// computation.
type Engine struct {
	source records.Source
	cache  cache.Cache[any]
	clock  clockwork.Clock
	logger *log.Logger
	events *log.StructuredLogger
	flight singleflight.Group

	// genMu guards gens and orders cache writes against invalidations.
	genMu sync.Mutex
	gens  map[string]uint64
}

// NewEngine wires an engine. A nil clock means the wall clock.
func NewEngine(source records.Source, store cache.Cache[any], clock clockwork.Clock, logger *log.Logger) *Engine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentAnalytics)
	return &Engine{
		source: source,
		cache:  store,
		clock:  clock,
		logger: logger,
		events: log.NewStructuredLogger(logger),
		gens:   make(map[string]uint64),
	}
}

func (e *Engine) DashboardSummary(ctx context.Context, userID string, start, end time.Time) (DashboardSummary, error) {
	return rangedView(ctx, e, ViewDashboard, userID, start, end, func(ctx context.Context, r core.DateRange) (DashboardSummary, error) {
		txs, err := e.transactions(ctx, ViewDashboard, userID, r)
		if err != nil {
			return DashboardSummary{}, err
		}
		return ComputeDashboard(txs), nil
	})
}

func (e *Engine) SpendingTrends(ctx context.Context, userID string, start, end time.Time) (SpendingTrends, error) {
	return rangedView(ctx, e, ViewSpendingTrends, userID, start, end, func(ctx context.Context, r core.DateRange) (SpendingTrends, error) {
		txs, err := e.transactions(ctx, ViewSpendingTrends, userID, r)
		if err != nil {
			return SpendingTrends{}, err
		}
		return ComputeSpendingTrends(txs), nil
	})
}

func (e *Engine) CategoryAnalysis(ctx context.Context, userID string, start, end time.Time) (CategoryAnalysis, error) {
	return rangedView(ctx, e, ViewCategories, userID, start, end, func(ctx context.Context, r core.DateRange) (CategoryAnalysis, error) {
		txs, err := e.transactions(ctx, ViewCategories, userID, r)
		if err != nil {
			return CategoryAnalysis{}, err
		}
		return ComputeCategories(txs), nil
	})
}

// GoalsProgress covers all of the user's goals regardless of date.
func (e *Engine) GoalsProgress(ctx context.Context, userID string) (GoalsProgress, error) {
	if err := validateUser(userID); err != nil {
		return GoalsProgress{}, err
	}
	return cached(ctx, e, ViewGoals, userID, nil, func(ctx context.Context) (GoalsProgress, error) {
		goals, err := e.source.Goals(ctx, userID)
		if err != nil {
			return GoalsProgress{}, &UpstreamQueryError{View: ViewGoals, Err: err}
		}
		return ComputeGoals(goals, e.clock.Now()), nil
	})
}

func (e *Engine) IncomeTrends(ctx context.Context, userID string, start, end time.Time) (IncomeTrends, error) {
	return rangedView(ctx, e, ViewIncomeTrends, userID, start, end, func(ctx context.Context, r core.DateRange) (IncomeTrends, error) {
		txs, err := e.transactions(ctx, ViewIncomeTrends, userID, r)
		if err != nil {
			return IncomeTrends{}, err
		}
		return ComputeIncomeTrends(txs), nil
	})
}

func (e *Engine) SavingsTrends(ctx context.Context, userID string, start, end time.Time) (SavingsTrends, error) {
	return rangedView(ctx, e, ViewSavingsTrends, userID, start, end, func(ctx context.Context, r core.DateRange) (SavingsTrends, error) {
		txs, err := e.transactions(ctx, ViewSavingsTrends, userID, r)
		if err != nil {
			return SavingsTrends{}, err
		}
		return ComputeSavingsTrends(txs), nil
	})
}

func (e *Engine) TransactionInsights(ctx context.Context, userID string, start, end time.Time) (TransactionInsights, error) {
	return rangedView(ctx, e, ViewInsights, userID, start, end, func(ctx context.Context, r core.DateRange) (TransactionInsights, error) {
		txs, err := e.transactions(ctx, ViewInsights, userID, r)
		if err != nil {
			return TransactionInsights{}, err
		}
		return ComputeInsights(txs, r), nil
	})
}

func (e *Engine) BudgetPerformance(ctx context.Context, userID string, start, end time.Time) (BudgetPerformance, error) {
	return rangedView(ctx, e, ViewBudgets, userID, start, end, func(ctx context.Context, r core.DateRange) (BudgetPerformance, error) {
		budgets, err := e.source.Budgets(ctx, userID)
		if err != nil {
			return BudgetPerformance{}, &UpstreamQueryError{View: ViewBudgets, Err: err}
		}
		txs, err := e.transactions(ctx, ViewBudgets, userID, r)
		if err != nil {
			return BudgetPerformance{}, err
		}
		return ComputeBudgets(budgets, txs), nil
	})
}

// CurrentMonthSnapshot ignores any caller range and always covers the
// calendar month of the engine clock. The month is part of the cache key so a
// rollover never serves the previous month.
func (e *Engine) CurrentMonthSnapshot(ctx context.Context, userID string) (MonthSnapshot, error) {
	if err := validateUser(userID); err != nil {
		return MonthSnapshot{}, err
	}
	now := e.clock.Now()
	r := core.MonthRange(now)
	params := r.Params()
	params["month"] = core.MonthOf(now).String()

	return cached(ctx, e, ViewCurrentMonth, userID, params, func(ctx context.Context) (MonthSnapshot, error) {
		txs, err := e.transactions(ctx, ViewCurrentMonth, userID, r)
		if err != nil {
			return MonthSnapshot{}, err
		}
		return ComputeMonthSnapshot(txs, now), nil
	})
}

// InvalidateUser drops every cached view of userID and reports how many
// entries were removed. Call it after the user's records change.
func (e *Engine) InvalidateUser(ctx context.Context, userID string) int {
	e.genMu.Lock()
	e.gens[userID]++
	removed := e.cache.DeletePrefix(cache.UserPrefix(userID))
	e.genMu.Unlock()
	e.logger.InfoContext(ctx, "User cache invalidated",
		log.FieldUserID, userID,
		log.FieldOperation, log.OpInvalidate,
		log.FieldRemoved, removed)
	return removed
}

func (e *Engine) transactions(ctx context.Context, view, userID string, r core.DateRange) ([]core.Transaction, error) {
	txs, err := e.source.Transactions(ctx, userID, r)
	if err != nil {
		return nil, &UpstreamQueryError{View: view, Err: err}
	}
	return txs, nil
}

func validateUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return core.ErrEmptyUser
	}
	return nil
}

// rangedView normalizes the range, then serves the view from cache or compute.
func rangedView[T any](ctx context.Context, e *Engine, view, userID string, start, end time.Time,
	compute func(context.Context, core.DateRange) (T, error)) (T, error) {
	var zero T
	if err := validateUser(userID); err != nil {
		return zero, err
	}
	r, err := core.NewDateRange(start, end)
	if err != nil {
		return zero, err
	}
	return cached(ctx, e, view, userID, r.Params(), func(ctx context.Context) (T, error) {
		return compute(ctx, r)
	})
}

// generation reports how many times userID has been invalidated.
func (e *Engine) generation(userID string) uint64 {
	e.genMu.Lock()
	defer e.genMu.Unlock()
	return e.gens[userID]
}

// storeIfCurrent writes v unless userID was invalidated after gen was read.
func (e *Engine) storeIfCurrent(userID string, gen uint64, key string, v any) bool {
	e.genMu.Lock()
	defer e.genMu.Unlock()
	if e.gens[userID] != gen {
		return false
	}
	e.cache.Set(key, v)
	return true
}

// cached returns the stored value for the key or runs compute once for all
// concurrent callers of that key. compute runs detached from the caller's
// cancellation so an abandoned request still populates the cache; the caller
// itself stops waiting when ctx is done. Failures are returned, never stored.
// Flights are keyed by the user's invalidation generation: callers arriving
// after InvalidateUser start a new flight, and a flight overtaken by an
// invalidation hands its result to its own callers without storing it.
func cached[T any](ctx context.Context, e *Engine, view, userID string, params map[string]string,
	compute func(context.Context) (T, error)) (T, error) {
	var zero T
	key := cache.Key(view, userID, params)
	gen := e.generation(userID)

	if v, ok := lookup[T](e.cache, key); ok {
		e.logger.DebugContext(ctx, "Cache hit", log.FieldView, view, log.FieldUserID, userID, log.FieldCacheHit, true)
		return v, nil
	}

	detached := context.WithoutCancel(ctx)
	flightKey := key + "#" + strconv.FormatUint(gen, 10)
	ch := e.flight.DoChan(flightKey, func() (any, error) {
		// A flight that finished just before this one started may have stored it.
		if v, ok := lookup[T](e.cache, key); ok {
			return v, nil
		}
		started := e.clock.Now()
		v, err := compute(detached)
		if err != nil {
			e.events.LogError(detached, "View computation failed", err, log.OpCompute,
				log.NewFields().WithView(view, userID))
			return nil, err
		}
		if !e.storeIfCurrent(userID, gen, key, v) {
			e.logger.DebugContext(detached, "Discarding result of invalidated computation",
				log.FieldView, view, log.FieldUserID, userID)
			return v, nil
		}
		e.events.LogViewComputed(detached, view, userID, e.clock.Since(started))
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func lookup[T any](store cache.Cache[any], key string) (T, bool) {
	var zero T
	v, ok := store.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
