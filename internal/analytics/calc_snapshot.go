package analytics

import (
	"time"

	"fintrack/internal/core"
)

// ComputeMonthSnapshot combines the dashboard and category views over txs,
// which the caller has already scoped to the month containing now.
func ComputeMonthSnapshot(txs []core.Transaction, now time.Time) MonthSnapshot {
	return MonthSnapshot{
		Month:            core.MonthOf(now).String(),
		DashboardSummary: ComputeDashboard(txs),
		CategoryAnalysis: ComputeCategories(txs),
	}
}
