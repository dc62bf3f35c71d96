package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseTxType(t *testing.T) {
	cases := []struct {
		in   string
		want TxType
		ok   bool
	}{
		{"Income", Income, true},
		{"income", Income, true},
		{" EXPENSE ", Expense, true},
		{"expense", Expense, true},
		{"transfer", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseTxType(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.want, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidType) {
			t.Fatalf("%q expected ErrInvalidType, got %v", tc.in, err)
		}
	}
}

func TestContributions(t *testing.T) {
	cases := []struct {
		name        string
		tx          Transaction
		wantIncome  string
		wantExpense string
	}{
		{"positive income", Transaction{Type: Income, Amount: decimal.NewFromInt(1000)}, "1000", "0"},
		{"negative income ignored", Transaction{Type: Income, Amount: decimal.NewFromInt(-50)}, "0", "0"},
		{"positive expense", Transaction{Type: Expense, Amount: decimal.NewFromInt(400)}, "0", "400"},
		{"negative expense is absolute", Transaction{Type: Expense, Amount: decimal.RequireFromString("-12.5")}, "0", "12.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.tx.IncomeContribution().String(); got != tc.wantIncome {
				t.Errorf("IncomeContribution() = %s, want %s", got, tc.wantIncome)
			}
			if got := tc.tx.ExpenseContribution().String(); got != tc.wantExpense {
				t.Errorf("ExpenseContribution() = %s, want %s", got, tc.wantExpense)
			}
		})
	}
}

func TestCategoryOrDefault(t *testing.T) {
	if got := (Transaction{Category: "  "}).CategoryOrDefault(); got != UncategorizedLabel {
		t.Fatalf("expected %s, got %s", UncategorizedLabel, got)
	}
	if got := (Transaction{Category: "Food"}).CategoryOrDefault(); got != "Food" {
		t.Fatalf("expected Food, got %s", got)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{UserID: "u1", Type: Expense, Amount: decimal.NewFromInt(1), Date: NewDate(2025, 1, 1)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{UserID: "", Type: Expense, Date: NewDate(2025, 1, 1)},
		{UserID: "u1", Type: "Transfer", Date: NewDate(2025, 1, 1)},
		{UserID: "u1", Type: Income, Date: time.Time{}},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestGoalAndBudgetValidate(t *testing.T) {
	if err := (Goal{UserID: "u1", Name: "Car", TargetAmount: decimal.NewFromInt(10)}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Goal{UserID: "u1", Name: "Car", SavedAmount: decimal.NewFromInt(-1)}).Validate(); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
	if err := (Budget{UserID: "u1", Category: "Food", Amount: decimal.NewFromInt(100)}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Budget{UserID: "u1"}).Validate(); !errors.Is(err, ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}
}
