package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/records"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is a records.Source backed by a local SQLite file.
type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := RunMigrations(dbPath, logger.WithComponent(log.ComponentStorage)); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Transactions implements records.Source
func (r *SQLiteRepository) Transactions(ctx context.Context, userID string, dr core.DateRange) ([]core.Transaction, error) {
	var start, end string
	if !dr.Start.IsZero() {
		start = formatTimestamp(dr.Start)
	}
	if !dr.End.IsZero() {
		end = formatTimestamp(dr.End)
	}

	rows, err := r.db.QueryContext(ctx, listTransactions, userID, start, start, end, end)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		var (
			t                    core.Transaction
			amount, typ, occurred string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &amount, &typ, &t.Category, &occurred, &t.Description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("transaction %s amount %q: %w", t.ID, amount, records.ErrMalformedRecord)
		}
		if t.Type, err = core.ParseTxType(typ); err != nil {
			return nil, fmt.Errorf("transaction %s: %w: %v", t.ID, records.ErrMalformedRecord, err)
		}
		if t.Date, err = parseTimestamp(occurred); err != nil {
			return nil, fmt.Errorf("transaction %s date %q: %w", t.ID, occurred, records.ErrMalformedRecord)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	r.logger.DebugContext(ctx, "Transactions loaded", log.FieldUserID, userID, log.FieldRecords, len(out))
	return out, nil
}

// Goals implements records.Source
func (r *SQLiteRepository) Goals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, listGoals, userID)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	out := make([]core.Goal, 0)
	for rows.Next() {
		var (
			g             core.Goal
			target, saved string
			deadline      sql.NullString
		)
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Category, &target, &saved, &deadline); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if g.TargetAmount, err = decimal.NewFromString(target); err != nil {
			return nil, fmt.Errorf("goal %s target %q: %w", g.ID, target, records.ErrMalformedRecord)
		}
		if g.SavedAmount, err = decimal.NewFromString(saved); err != nil {
			return nil, fmt.Errorf("goal %s saved %q: %w", g.ID, saved, records.ErrMalformedRecord)
		}
		if deadline.Valid && deadline.String != "" {
			d, err := parseTimestamp(deadline.String)
			if err != nil {
				return nil, fmt.Errorf("goal %s deadline %q: %w", g.ID, deadline.String, records.ErrMalformedRecord)
			}
			g.Deadline = &d
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return out, nil
}

// Budgets implements records.Source. Only active budgets are returned.
func (r *SQLiteRepository) Budgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, listActiveBudgets, userID)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	out := make([]core.Budget, 0)
	for rows.Next() {
		var (
			b      core.Budget
			amount string
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &amount); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		if b.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("budget %s amount %q: %w", b.ID, amount, records.ErrMalformedRecord)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return out, nil
}

// AddTransaction implements records.Writer
func (r *SQLiteRepository) AddTransaction(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, insertTransaction,
		t.ID, t.UserID, t.Amount.String(), t.Type.String(), t.Category, formatTimestamp(t.Date), t.Description)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	r.logger.DebugContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		log.FieldUserID, t.UserID,
		"type", t.Type,
		"amount", t.Amount.String())
	return t.ID, nil
}

// AddGoal implements records.Writer
func (r *SQLiteRepository) AddGoal(ctx context.Context, g core.Goal) (string, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	var deadline sql.NullString
	if g.Deadline != nil {
		deadline = sql.NullString{String: formatTimestamp(*g.Deadline), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, insertGoal,
		g.ID, g.UserID, g.Name, g.Category, g.TargetAmount.String(), g.SavedAmount.String(), deadline)
	if err != nil {
		return "", fmt.Errorf("insert goal: %w", err)
	}
	return g.ID, nil
}

// AddBudget implements records.Writer
func (r *SQLiteRepository) AddBudget(ctx context.Context, b core.Budget, active bool) (string, error) {
	if err := b.Validate(); err != nil {
		return "", err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	isActive := 0
	if active {
		isActive = 1
	}
	_, err := r.db.ExecContext(ctx, insertBudget, b.ID, b.UserID, b.Category, b.Amount.String(), isActive)
	if err != nil {
		return "", fmt.Errorf("insert budget: %w", err)
	}
	return b.ID, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(timestampLayout, s); err == nil {
		return t, nil
	}
	t, err := core.ParseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	return t, nil
}
