package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate rows returned by the ledger store. Amounts stay decimal until the
// serialization boundary.

// CategorySum is a per-category total from a grouped ledger query. Name is the
// category name or UncategorizedLabel.
type CategorySum struct {
	Name  string
	Total decimal.Decimal
}

// MonthSum is a per-calendar-month total from a grouped ledger query.
type MonthSum struct {
	Year  int
	Month time.Month
	Total decimal.Decimal
}

// Derived read models computed by the aggregation engine. All monetary fields
// are decimal-accurate floats produced from decimal sums.

// MonthlyTotal is one sparse month bucket of the analytics summary.
type MonthlyTotal struct {
	Month string  `json:"month"` // YYYY-MM
	Total float64 `json:"total"`
}

// AnalyticsSummary is the headline metric set for a user.
type AnalyticsSummary struct {
	TotalSpent       float64            `json:"totalSpent"`
	MonthlyTotals    []MonthlyTotal     `json:"monthlyTotals"`
	ByCategory       map[string]float64 `json:"byCategory"`
	AvgDailySpend30d float64            `json:"avgDailySpend30d"`
	ImpulseRate30d   float64            `json:"impulseRate30d"`
}

// DashboardMetrics are the heuristic-driven dashboard numbers.
type DashboardMetrics struct {
	TotalSavedFromAbandoned   float64            `json:"totalSavedFromAbandoned"`
	ImpulsesResistedThisMonth int64              `json:"impulsesResistedThisMonth"`
	SpendingByCategory        map[string]float64 `json:"spendingByCategory"`
	StreakDaysWithoutImpulse  int                `json:"streakDaysWithoutImpulse"`
}

// CategoryAmount is one slice of a category breakdown.
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// DailyAmount is one day of a dense daily series.
type DailyAmount struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Amount float64 `json:"amount"`
}

// ImpulseAnalysis splits month-to-date spending into impulse and planned.
type ImpulseAnalysis struct {
	ImpulseSpending   float64 `json:"impulse_spending"`
	PlannedSpending   float64 `json:"planned_spending"`
	TotalSpending     float64 `json:"total_spending"`
	ImpulsePercentage float64 `json:"impulse_percentage"`
	ImpulseCount      int64   `json:"impulse_count"`
}

// MonthlySummary bundles the key month-to-date metrics for the dashboard.
type MonthlySummary struct {
	MonthlySpending float64 `json:"monthly_spending"`
	TotalBudget     float64 `json:"total_budget"`
	BudgetRemaining float64 `json:"budget_remaining"`
	ImpulseSpending float64 `json:"impulse_spending"`
	ActiveGoals     int64   `json:"active_goals"`
	IsOverBudget    bool    `json:"is_over_budget"`
}

// WeeklySpending is one 7-day window, tagged with its ISO week.
type WeeklySpending struct {
	WeekStart string  `json:"week_start"` // YYYY-MM-DD
	WeekEnd   string  `json:"week_end"`
	Week      int     `json:"week"`
	Year      int     `json:"year"`
	Total     float64 `json:"total"`
}

// MonthlyComparison is one month of the month-over-month comparison.
type MonthlyComparison struct {
	Month            string  `json:"month"` // YYYY-MM
	Label            string  `json:"label"` // e.g. "January 2026"
	Total            float64 `json:"total"`
	ImpulseTotal     float64 `json:"impulse_total"`
	PlannedTotal     float64 `json:"planned_total"`
	TransactionCount int64   `json:"transaction_count"`
}

// MonthBreakdown is one month inside a yearly breakdown.
type MonthBreakdown struct {
	Month string  `json:"month"` // YYYY-MM
	Total float64 `json:"total"`
}

// YearlyBreakdown is one year of totals with its monthly slices. The monthly
// array stops at the current month for the current year, and AverageMonthly
// divides by the number of months actually present.
type YearlyBreakdown struct {
	Year           int              `json:"year"`
	Total          float64          `json:"total"`
	Monthly        []MonthBreakdown `json:"monthly"`
	AverageMonthly float64          `json:"average_monthly"`
}

// TrendSeries is one category's zero-filled month series for charting.
type TrendSeries struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}

// CategoryTrends is the category x month matrix reshaped into named series.
type CategoryTrends struct {
	Months []string      `json:"months"` // YYYY-MM, oldest first
	Series []TrendSeries `json:"series"`
}

// BudgetVsActualRow joins one allocation against actual spend in the budget's
// date range. Categories with spend but no allocation appear with Allocated=0
// and OverBudget=true.
type BudgetVsActualRow struct {
	CategoryID   uuid.UUID `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Allocated    float64   `json:"allocated"`
	Actual       float64   `json:"actual"`
	Remaining    float64   `json:"remaining"`
	PercentUsed  float64   `json:"percent_used"`
	OverBudget   bool      `json:"over_budget"`
}

// BudgetVsActual is the full budget-vs-actual comparison for one budget.
type BudgetVsActual struct {
	BudgetID   uuid.UUID           `json:"budget_id"`
	BudgetName string              `json:"budget_name"`
	StartDate  string              `json:"start_date"`
	EndDate    string              `json:"end_date"`
	Rows       []BudgetVsActualRow `json:"rows"`
}

// HeatmapStats are window statistics over the per-day heatmap values.
type HeatmapStats struct {
	Max  float64 `json:"max"`
	Min  float64 `json:"min"`
	Mean float64 `json:"mean"`
	Sum  float64 `json:"sum"`
}

// Heatmap is a dense per-day total series with window statistics.
type Heatmap struct {
	Days  []DailyAmount `json:"days"`
	Stats HeatmapStats  `json:"stats"`
}

// TimeRangeBucket is one bucket of a flexible time-range query.
type TimeRangeBucket struct {
	Start string  `json:"start"` // YYYY-MM-DD
	End   string  `json:"end"`
	Total float64 `json:"total"`
}

// CategoryStat is the per-category statistics row.
type CategoryStat struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	TransactionCount int64     `json:"transaction_count"`
	TotalSpent       float64   `json:"total_spent"`
}

// ActiveBudgetInfo identifies the active budget inside a budget summary.
type ActiveBudgetInfo struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
}

// BudgetSummaryCategory is one category with month-to-date spend.
type BudgetSummaryCategory struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Spent            float64   `json:"spent"`
	TransactionCount int64     `json:"transaction_count"`
}

// BudgetSummary is the overall budget state for the dashboard.
type BudgetSummary struct {
	ActiveBudget *ActiveBudgetInfo       `json:"active_budget"`
	TotalIncome  float64                 `json:"total_income"`
	TotalSpent   float64                 `json:"total_spent"`
	Remaining    float64                 `json:"remaining"`
	Categories   []BudgetSummaryCategory `json:"categories"`
}

// GoalsSummary aggregates all savings goals for a user.
type GoalsSummary struct {
	TotalGoals         int64   `json:"total_goals"`
	ActiveGoals        int64   `json:"active_goals"`
	CompletedGoals     int64   `json:"completed_goals"`
	TotalTarget        float64 `json:"total_target"`
	TotalSaved         float64 `json:"total_saved"`
	PercentageComplete float64 `json:"percentage_complete"`
}
