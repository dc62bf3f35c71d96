package analytics

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var (
	warningThreshold = decimal.NewFromInt(80)
	overThreshold    = decimal.NewFromInt(100)
)

// ComputeBudgets measures each budget against the expenses in txs whose
// category matches case-insensitively.
func ComputeBudgets(budgets []core.Budget, txs []core.Transaction) BudgetPerformance {
	out := BudgetPerformance{
		Budgets:            make([]BudgetUsage, 0, len(budgets)),
		OverallPerformance: PerformanceGood,
		Recommendations:    make([]string, 0),
	}

	var totalBudget, totalSpent decimal.Decimal
	for _, b := range budgets {
		spent := spentIn(b.Category, txs)
		remaining := b.Amount.Sub(spent)
		// Status is decided on the exact share so a cent over is Over Budget.
		raw := core.PercentDecimal(spent, b.Amount)

		usage := BudgetUsage{
			ID:             b.ID,
			Category:       b.Category,
			BudgetAmount:   core.Money(b.Amount),
			Spent:          core.Money(spent),
			Remaining:      core.Money(remaining),
			PercentageUsed: core.Round2(raw).InexactFloat64(),
			Status:         budgetStatus(raw),
		}
		if usage.Status == BudgetOver {
			out.OverallPerformance = PerformanceNeedsAttention
		}
		if rec := recommendation(usage, remaining); rec != "" {
			out.Recommendations = append(out.Recommendations, rec)
		}

		totalBudget = totalBudget.Add(b.Amount)
		totalSpent = totalSpent.Add(spent)
		out.Budgets = append(out.Budgets, usage)
	}

	out.TotalBudgeted = core.Money(totalBudget)
	out.TotalSpent = core.Money(totalSpent)
	return out
}

func spentIn(category string, txs []core.Transaction) decimal.Decimal {
	category = strings.TrimSpace(category)
	spent := decimal.Zero
	for _, tx := range txs {
		if tx.Type == core.Expense && strings.EqualFold(strings.TrimSpace(tx.Category), category) {
			spent = spent.Add(tx.ExpenseContribution())
		}
	}
	return spent
}

func budgetStatus(pct decimal.Decimal) string {
	switch {
	case pct.GreaterThan(overThreshold):
		return BudgetOver
	case pct.GreaterThan(warningThreshold):
		return BudgetWarning
	default:
		return BudgetWithin
	}
}

func recommendation(u BudgetUsage, remaining decimal.Decimal) string {
	switch u.Status {
	case BudgetOver:
		return fmt.Sprintf("%s is over budget by %s (%.2f%% used). Cut back on %s spending or raise the budget.",
			u.Category, core.Round2(remaining.Neg()).StringFixed(2), u.PercentageUsed, u.Category)
	case BudgetWarning:
		return fmt.Sprintf("%s has used %.2f%% of its budget with %s left. Watch %s spending for the rest of the period.",
			u.Category, u.PercentageUsed, core.Round2(remaining).StringFixed(2), u.Category)
	default:
		return ""
	}
}
