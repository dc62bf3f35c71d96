package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

type monthBucket struct {
	key core.MonthKey
	totals
}

// groupByMonth buckets txs by calendar month, ascending. keep filters which
// records are counted; nil keeps everything.
func groupByMonth(txs []core.Transaction, keep func(core.Transaction) bool) []*monthBucket {
	index := make(map[core.MonthKey]*monthBucket)
	for _, tx := range txs {
		if keep != nil && !keep(tx) {
			continue
		}
		k := core.MonthOf(tx.Date)
		b, ok := index[k]
		if !ok {
			b = &monthBucket{key: k}
			index[k] = b
		}
		b.add(tx)
	}

	out := make([]*monthBucket, 0, len(index))
	for _, b := range index {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key.Before(out[j].key) })
	return out
}

func average(total decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n)))
}

// ComputeSpendingTrends buckets txs per month with income, expenses and
// savings, plus the month-over-month change in expenses.
func ComputeSpendingTrends(txs []core.Transaction) SpendingTrends {
	buckets := groupByMonth(txs, nil)

	months := make([]MonthlyTrend, 0, len(buckets))
	totalSpending := decimal.Zero
	var prev decimal.Decimal
	for i, b := range buckets {
		m := MonthlyTrend{
			Month:            b.key.String(),
			Year:             b.key.Year,
			MonthName:        b.key.Name(),
			TotalIncome:      core.Money(b.income),
			TotalExpenses:    core.Money(b.expenses),
			NetSavings:       core.Money(b.net()),
			SavingsRate:      b.savingsRate(),
			TransactionCount: b.count,
		}
		if i > 0 {
			m.MonthOverMonthChange = core.Percent(b.expenses.Sub(prev), prev)
		}
		prev = b.expenses
		totalSpending = totalSpending.Add(b.expenses)
		months = append(months, m)
	}

	return SpendingTrends{
		Months:                 months,
		AverageMonthlySpending: core.Money(average(totalSpending, len(buckets))),
		TotalSpending:          core.Money(totalSpending),
	}
}

// ComputeIncomeTrends buckets income records per month.
func ComputeIncomeTrends(txs []core.Transaction) IncomeTrends {
	buckets := groupByMonth(txs, func(tx core.Transaction) bool { return tx.Type == core.Income })

	months := make([]IncomeMonth, 0, len(buckets))
	total := decimal.Zero
	for _, b := range buckets {
		total = total.Add(b.income)
		months = append(months, IncomeMonth{
			Month:            b.key.String(),
			Year:             b.key.Year,
			MonthName:        b.key.Name(),
			TotalIncome:      core.Money(b.income),
			TransactionCount: b.count,
		})
	}

	return IncomeTrends{
		Months:               months,
		AverageMonthlyIncome: core.Money(average(total, len(buckets))),
		TotalIncome:          core.Money(total),
	}
}

// ComputeSavingsTrends reports per-month savings and the best month. Among
// months with equal savings the earliest wins.
func ComputeSavingsTrends(txs []core.Transaction) SavingsTrends {
	buckets := groupByMonth(txs, nil)

	months := make([]SavingsMonth, 0, len(buckets))
	total := decimal.Zero
	var (
		best        SavingsMonth
		bestSavings decimal.Decimal
	)
	for i, b := range buckets {
		savings := b.net()
		m := SavingsMonth{
			Month:       b.key.String(),
			Year:        b.key.Year,
			MonthName:   b.key.Name(),
			Income:      core.Money(b.income),
			Expenses:    core.Money(b.expenses),
			Savings:     core.Money(savings),
			SavingsRate: b.savingsRate(),
		}
		if i == 0 || savings.GreaterThan(bestSavings) {
			best, bestSavings = m, savings
		}
		total = total.Add(savings)
		months = append(months, m)
	}

	return SavingsTrends{
		Months:                months,
		TotalSavings:          core.Money(total),
		AverageMonthlySavings: core.Money(average(total, len(buckets))),
		BestMonth:             best,
	}
}
