package analytics

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// ComputeInsights reports volume statistics over txs. Amounts are compared and
// summed by magnitude. The largest and smallest transaction and the top
// category each resolve ties in favour of the earliest record.
//
// The day count is the calendar length of r; an open bound is replaced by the
// first or last transaction date.
func ComputeInsights(txs []core.Transaction, r core.DateRange) TransactionInsights {
	if len(txs) == 0 {
		return TransactionInsights{DaysInRange: r.Days()}
	}

	sorted := byDate(txs)
	days := daysCovered(sorted, r)

	var (
		sum               decimal.Decimal
		largest, smallest = sorted[0], sorted[0]
		counts            = make(map[string]int)
		order             []string
	)
	for _, tx := range sorted {
		m := tx.Magnitude()
		sum = sum.Add(m)
		if m.GreaterThan(largest.Magnitude()) {
			largest = tx
		}
		if m.LessThan(smallest.Magnitude()) {
			smallest = tx
		}
		cat := tx.CategoryOrDefault()
		if _, seen := counts[cat]; !seen {
			order = append(order, cat)
		}
		counts[cat]++
	}

	var top string
	for _, cat := range order {
		if top == "" || counts[cat] > counts[top] {
			top = cat
		}
	}

	n := decimal.NewFromInt(int64(len(sorted)))
	d := decimal.NewFromInt(int64(days))
	return TransactionInsights{
		TotalTransactions:        len(sorted),
		DaysInRange:              days,
		DailyAverage:             core.Money(core.Ratio(n, d)),
		AveragePerDay:            core.Money(core.Ratio(sum, d)),
		AverageTransactionAmount: core.Money(core.Ratio(sum, n)),
		LargestTransaction:       viewOf(largest),
		SmallestTransaction:      viewOf(smallest),
		TopCategory:              top,
		TopCategoryCount:         counts[top],
	}
}

// daysCovered expects sorted to be non-empty and ordered by date.
func daysCovered(sorted []core.Transaction, r core.DateRange) int {
	start, end := r.Start, r.End
	if start.IsZero() {
		start = sorted[0].Date
	}
	if end.IsZero() {
		end = sorted[len(sorted)-1].Date
	}
	return core.CalendarDaysBetween(start, end)
}
