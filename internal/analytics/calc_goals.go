package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var hundredPercent = decimal.NewFromInt(100)

// ComputeGoals derives progress and status for every goal as of now.
// A goal at or above 100% is Completed even when its deadline has passed.
func ComputeGoals(goals []core.Goal, now time.Time) GoalsProgress {
	out := make([]GoalProgress, 0, len(goals))
	var (
		summary       GoalsSummary
		progressSum   decimal.Decimal
		target, saved decimal.Decimal
	)

	for _, g := range goals {
		raw := core.PercentDecimal(g.SavedAmount, g.TargetAmount)
		progress := core.Round2(raw)
		overdue := g.Deadline != nil && g.Deadline.Before(now)

		gp := GoalProgress{
			ID:              g.ID,
			Name:            g.Name,
			Category:        g.Category,
			TargetAmount:    core.Money(g.TargetAmount),
			SavedAmount:     core.Money(g.SavedAmount),
			RemainingAmount: core.Money(decimal.Max(decimal.Zero, g.TargetAmount.Sub(g.SavedAmount))),
			Progress:        progress.InexactFloat64(),
			IsOverdue:       overdue,
		}
		if g.Deadline != nil {
			gp.Deadline = g.Deadline.Format(core.DateLayout)
			if g.Deadline.After(now) {
				gp.DaysRemaining = core.CalendarDaysBetween(now, *g.Deadline) - 1
			}
		}

		completed := raw.GreaterThanOrEqual(hundredPercent)
		switch {
		case completed:
			gp.Status = GoalCompleted
			summary.OnTrackGoals++
		case overdue:
			gp.Status = GoalOverdue
			summary.OverdueGoals++
		default:
			gp.Status = GoalOnTrack
			summary.InProgressGoals++
		}

		progressSum = progressSum.Add(progress)
		target = target.Add(g.TargetAmount)
		saved = saved.Add(g.SavedAmount)
		out = append(out, gp)
	}

	summary.TotalGoals = len(goals)
	summary.AverageProgress = core.Money(average(progressSum, len(goals)))
	summary.TotalTargetAmount = core.Money(target)
	summary.TotalSavedAmount = core.Money(saved)

	return GoalsProgress{Goals: out, Summary: summary}
}
