package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// ComputeCategories breaks expenses down by category, largest first.
// Equal amounts are ordered by category name.
func ComputeCategories(txs []core.Transaction) CategoryAnalysis {
	type bucket struct {
		name   string
		amount decimal.Decimal
		count  int
	}

	index := make(map[string]*bucket)
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Type != core.Expense {
			continue
		}
		name := tx.CategoryOrDefault()
		b, ok := index[name]
		if !ok {
			b = &bucket{name: name}
			index[name] = b
		}
		amount := tx.ExpenseContribution()
		b.amount = b.amount.Add(amount)
		b.count++
		total = total.Add(amount)
	}

	buckets := make([]*bucket, 0, len(index))
	for _, b := range index {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if c := buckets[i].amount.Cmp(buckets[j].amount); c != 0 {
			return c > 0
		}
		return buckets[i].name < buckets[j].name
	})

	out := make([]CategoryBreakdown, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, CategoryBreakdown{
			Category:         b.name,
			Amount:           core.Money(b.amount),
			Percentage:       core.Percent(b.amount, total),
			TransactionCount: b.count,
		})
	}

	return CategoryAnalysis{
		Categories:  out,
		TotalAmount: core.Money(total),
	}
}
