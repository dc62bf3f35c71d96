package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TxType = "Income"
	Expense TxType = "Expense"
)

// UncategorizedLabel is used for expenses stored without a category.
const UncategorizedLabel = "Uncategorized"

type (
	// TxType discriminates income from expense records.
	TxType string

	Transaction struct {
		ID          string
		UserID      string
		Amount      decimal.Decimal
		Type        TxType
		Category    string
		Date        time.Time
		Description string
	}

	Goal struct {
		ID           string
		UserID       string
		Name         string
		Category     string
		TargetAmount decimal.Decimal
		SavedAmount  decimal.Decimal
		Deadline     *time.Time // nil when the goal has no target date
	}

	Budget struct {
		ID       string
		UserID   string
		Category string
		Amount   decimal.Decimal
	}
)

var (
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyUser        = errors.New("empty user id")
	ErrEmptyName        = errors.New("empty goal name")
	ErrEmptyCategory    = errors.New("empty budget category")
	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrMissingTransDate = errors.New("transaction date cannot be zero")
)

// ParseTxType accepts any casing of "income" or "expense".
func ParseTxType(s string) (TxType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

func (t TxType) String() string {
	return string(t)
}

// IsValid reports whether t is one of the two known variants.
func (t TxType) IsValid() bool {
	return t == Income || t == Expense
}

// IncomeContribution is the non-negative share the record adds to income totals.
// Non-income records contribute zero.
func (t Transaction) IncomeContribution() decimal.Decimal {
	if t.Type != Income || !t.Amount.IsPositive() {
		return decimal.Zero
	}
	return t.Amount
}

// ExpenseContribution is the absolute value of an expense, zero for income.
func (t Transaction) ExpenseContribution() decimal.Decimal {
	if t.Type != Expense {
		return decimal.Zero
	}
	return t.Amount.Abs()
}

// Magnitude returns |Amount|.
func (t Transaction) Magnitude() decimal.Decimal {
	return t.Amount.Abs()
}

// CategoryOrDefault returns the trimmed category or UncategorizedLabel.
func (t Transaction) CategoryOrDefault() string {
	c := strings.TrimSpace(t.Category)
	if c == "" {
		return UncategorizedLabel
	}
	return c
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrEmptyUser
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
	if t.Date.IsZero() {
		return ErrMissingTransDate
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.UserID) == "" {
		return ErrEmptyUser
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.TargetAmount.IsNegative() || g.SavedAmount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.UserID) == "" {
		return ErrEmptyUser
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// NewDate creates a UTC midnight time from year, month, day
func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
