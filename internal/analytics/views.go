// Package analytics turns a user's raw financial records into the derived
// views served to clients, and memoizes each view per user and parameters.
package analytics

// View names. They are part of every cache key.
const (
	ViewDashboard       = "dashboard"
	ViewSpendingTrends  = "spending_trends"
	ViewCategories      = "category_analysis"
	ViewGoals           = "goals_progress"
	ViewIncomeTrends    = "income_trends"
	ViewSavingsTrends   = "savings_trends"
	ViewInsights        = "transaction_insights"
	ViewBudgets         = "budget_performance"
	ViewCurrentMonth    = "current_month"
	recentTransactionsN = 10
)

// Goal statuses.
const (
	GoalCompleted = "Completed"
	GoalOverdue   = "Overdue"
	GoalOnTrack   = "On Track"
)

// Budget statuses and overall verdicts.
const (
	BudgetWithin  = "Within Budget"
	BudgetWarning = "Warning"
	BudgetOver    = "Over Budget"

	PerformanceGood           = "Good"
	PerformanceNeedsAttention = "Needs Attention"
)

// Result shapes. Every slice is non-nil so JSON never carries null.
type (
	// TransactionView is the flat display shape of a single transaction.
	TransactionView struct {
		ID          string  `json:"id"`
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Type        string  `json:"type"`
		Category    string  `json:"category"`
		Date        string  `json:"date"`
	}

	DashboardSummary struct {
		TotalIncome        float64           `json:"totalIncome"`
		TotalExpenses      float64           `json:"totalExpenses"`
		NetSavings         float64           `json:"netSavings"`
		SavingsRate        float64           `json:"savingsRate"`
		TransactionCount   int               `json:"transactionCount"`
		RecentTransactions []TransactionView `json:"recentTransactions"`
	}

	MonthlyTrend struct {
		Month                string  `json:"month"`
		Year                 int     `json:"year"`
		MonthName            string  `json:"monthName"`
		TotalIncome          float64 `json:"totalIncome"`
		TotalExpenses        float64 `json:"totalExpenses"`
		NetSavings           float64 `json:"netSavings"`
		SavingsRate          float64 `json:"savingsRate"`
		TransactionCount     int     `json:"transactionCount"`
		MonthOverMonthChange float64 `json:"monthOverMonthChange"`
	}

	SpendingTrends struct {
		Months                 []MonthlyTrend `json:"months"`
		AverageMonthlySpending float64        `json:"averageMonthlySpending"`
		TotalSpending          float64        `json:"totalSpending"`
	}

	CategoryBreakdown struct {
		Category         string  `json:"category"`
		Amount           float64 `json:"amount"`
		Percentage       float64 `json:"percentage"`
		TransactionCount int     `json:"transactionCount"`
	}

	CategoryAnalysis struct {
		Categories  []CategoryBreakdown `json:"categories"`
		TotalAmount float64             `json:"totalAmount"`
	}

	GoalProgress struct {
		ID              string  `json:"id"`
		Name            string  `json:"name"`
		Category        string  `json:"category"`
		TargetAmount    float64 `json:"targetAmount"`
		SavedAmount     float64 `json:"savedAmount"`
		RemainingAmount float64 `json:"remainingAmount"`
		Progress        float64 `json:"progress"`
		Deadline        string  `json:"deadline"` // empty when the goal has none
		DaysRemaining   int     `json:"daysRemaining"`
		IsOverdue       bool    `json:"isOverdue"`
		Status          string  `json:"status"`
	}

	GoalsSummary struct {
		TotalGoals        int     `json:"totalGoals"`
		OnTrackGoals      int     `json:"onTrackGoals"`
		InProgressGoals   int     `json:"inProgressGoals"`
		OverdueGoals      int     `json:"overdueGoals"`
		AverageProgress   float64 `json:"averageProgress"`
		TotalTargetAmount float64 `json:"totalTargetAmount"`
		TotalSavedAmount  float64 `json:"totalSavedAmount"`
	}

	GoalsProgress struct {
		Goals   []GoalProgress `json:"goals"`
		Summary GoalsSummary   `json:"summary"`
	}

	IncomeMonth struct {
		Month            string  `json:"month"`
		Year             int     `json:"year"`
		MonthName        string  `json:"monthName"`
		TotalIncome      float64 `json:"totalIncome"`
		TransactionCount int     `json:"transactionCount"`
	}

	IncomeTrends struct {
		Months               []IncomeMonth `json:"months"`
		AverageMonthlyIncome float64       `json:"averageMonthlyIncome"`
		TotalIncome          float64       `json:"totalIncome"`
	}

	SavingsMonth struct {
		Month       string  `json:"month"`
		Year        int     `json:"year"`
		MonthName   string  `json:"monthName"`
		Income      float64 `json:"income"`
		Expenses    float64 `json:"expenses"`
		Savings     float64 `json:"savings"`
		SavingsRate float64 `json:"savingsRate"`
	}

	SavingsTrends struct {
		Months                []SavingsMonth `json:"months"`
		TotalSavings          float64        `json:"totalSavings"`
		AverageMonthlySavings float64        `json:"averageMonthlySavings"`
		BestMonth             SavingsMonth   `json:"bestMonth"`
	}

	TransactionInsights struct {
		TotalTransactions        int             `json:"totalTransactions"`
		DaysInRange              int             `json:"daysInRange"`
		DailyAverage             float64         `json:"dailyAverage"`
		AveragePerDay            float64         `json:"averagePerDay"`
		AverageTransactionAmount float64         `json:"averageTransactionAmount"`
		LargestTransaction       TransactionView `json:"largestTransaction"`
		SmallestTransaction      TransactionView `json:"smallestTransaction"`
		TopCategory              string          `json:"topCategory"`
		TopCategoryCount         int             `json:"topCategoryCount"`
	}

	BudgetUsage struct {
		ID             string  `json:"id"`
		Category       string  `json:"category"`
		BudgetAmount   float64 `json:"budgetAmount"`
		Spent          float64 `json:"spent"`
		Remaining      float64 `json:"remaining"`
		PercentageUsed float64 `json:"percentageUsed"`
		Status         string  `json:"status"`
	}

	BudgetPerformance struct {
		Budgets            []BudgetUsage `json:"budgets"`
		TotalBudgeted      float64       `json:"totalBudgeted"`
		TotalSpent         float64       `json:"totalSpent"`
		OverallPerformance string        `json:"overallPerformance"`
		Recommendations    []string      `json:"recommendations"`
	}

	// MonthSnapshot combines the dashboard and category views for one month.
	MonthSnapshot struct {
		Month string `json:"month"`
		DashboardSummary
		CategoryAnalysis
	}
)
