package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// totals accumulates the income/expense contributions of a record set.
type totals struct {
	income   decimal.Decimal
	expenses decimal.Decimal
	count    int
}

func (t *totals) add(tx core.Transaction) {
	t.income = t.income.Add(tx.IncomeContribution())
	t.expenses = t.expenses.Add(tx.ExpenseContribution())
	t.count++
}

func (t totals) net() decimal.Decimal {
	return t.income.Sub(t.expenses)
}

func (t totals) savingsRate() float64 {
	return core.Percent(t.net(), t.income)
}

// ComputeDashboard summarizes income, expenses and savings over txs and lists
// the most recent transactions.
func ComputeDashboard(txs []core.Transaction) DashboardSummary {
	var sum totals
	for _, tx := range txs {
		sum.add(tx)
	}

	return DashboardSummary{
		TotalIncome:        core.Money(sum.income),
		TotalExpenses:      core.Money(sum.expenses),
		NetSavings:         core.Money(sum.net()),
		SavingsRate:        sum.savingsRate(),
		TransactionCount:   sum.count,
		RecentTransactions: recentTransactions(txs, recentTransactionsN),
	}
}

// recentTransactions returns up to n transactions, newest first. Same-day
// records are ordered by id so the result does not depend on input order.
func recentTransactions(txs []core.Transaction, n int) []TransactionView {
	sorted := make([]core.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].ID < sorted[j].ID
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]TransactionView, 0, len(sorted))
	for _, tx := range sorted {
		out = append(out, viewOf(tx))
	}
	return out
}

func viewOf(tx core.Transaction) TransactionView {
	return TransactionView{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      core.Money(tx.Amount),
		Type:        tx.Type.String(),
		Category:    tx.CategoryOrDefault(),
		Date:        tx.Date.Format(core.DateLayout),
	}
}

// byDate returns a copy of txs sorted by date, preserving input order on ties.
func byDate(txs []core.Transaction) []core.Transaction {
	sorted := make([]core.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
