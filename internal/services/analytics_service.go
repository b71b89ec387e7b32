package services

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/allknee486/Impulse/internal/models"
	"github.com/allknee486/Impulse/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidDateRange = errors.New("start date must not be after end date")
	ErrInvalidGroupBy   = errors.New("group_by must be one of: day, week, month")
)

const (
	// DefaultTrendDays is the window of the dense daily spending trend.
	DefaultTrendDays = 30
	// DefaultWeeklyWindows is the number of 7-day windows in weekly spending.
	DefaultWeeklyWindows = 12
	// DefaultComparisonMonths is the window of the month-over-month comparison.
	DefaultComparisonMonths = 6
	// DefaultBreakdownYears is the window of the yearly breakdown.
	DefaultBreakdownYears = 3
	// DefaultTrendMonths is the window of the category trends matrix.
	DefaultTrendMonths = 6
	// DefaultHeatmapDays is the window of the spending heatmap.
	DefaultHeatmapDays = 365

	// streakWalkCap bounds the backward day walk on sparse or ancient data.
	streakWalkCap = 3650
)

// analyticsService implements AnalyticsServiceInterface. It holds no mutable
// state; every call is an independent set of read queries.
type analyticsService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	budgetRepo      repositories.BudgetRepositoryInterface
	goalRepo        repositories.SavingsGoalRepositoryInterface
	logger          *slog.Logger

	// now is swappable in tests so window boundaries are deterministic.
	now func() time.Time
}

// NewAnalyticsService creates the aggregation engine over the ledger store
func NewAnalyticsService(
	transactionRepo repositories.TransactionRepositoryInterface,
	budgetRepo repositories.BudgetRepositoryInterface,
	goalRepo repositories.SavingsGoalRepositoryInterface,
	logger *slog.Logger,
) AnalyticsServiceInterface {
	return &analyticsService{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		goalRepo:        goalRepo,
		logger:          logger,
		now:             time.Now,
	}
}

// GetSummary computes the headline metrics: all-time total, sparse monthly
// totals for the last 12 months, all-time per-category totals, average daily
// spend over the trailing 30 days (fixed divisor) and the trailing-30-day
// impulse rate.
func (s *analyticsService) GetSummary(userID uuid.UUID) (*models.AnalyticsSummary, error) {
	totalSpent, err := s.transactionRepo.Sum(models.TransactionFilters{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to compute total spent: %w", err)
	}

	now := s.now()
	monthSums, err := s.transactionRepo.SumByMonth(userID, monthsAgo(now, 11), now)
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly totals: %w", err)
	}
	monthlyTotals := make([]models.MonthlyTotal, 0, len(monthSums))
	for _, m := range monthSums {
		total, _ := m.Total.Float64()
		monthlyTotals = append(monthlyTotals, models.MonthlyTotal{
			Month: monthKey(m.Year, m.Month),
			Total: total,
		})
	}

	categorySums, err := s.transactionRepo.SumByCategory(models.TransactionFilters{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to compute category totals: %w", err)
	}
	byCategory := make(map[string]float64, len(categorySums))
	for _, c := range categorySums {
		byCategory[c.Name], _ = c.Total.Float64()
	}

	windowStart := now.AddDate(0, 0, -30)
	windowSum, err := s.transactionRepo.Sum(models.TransactionFilters{
		UserID:    userID,
		StartDate: &windowStart,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute 30-day spend: %w", err)
	}
	// Fixed divisor of 30, not the number of active days.
	avgDaily, _ := windowSum.Div(decimal.NewFromInt(30)).Float64()

	impulseRate, err := s.impulseRate(userID, windowStart)
	if err != nil {
		return nil, err
	}

	total, _ := totalSpent.Float64()
	return &models.AnalyticsSummary{
		TotalSpent:       total,
		MonthlyTotals:    monthlyTotals,
		ByCategory:       byCategory,
		AvgDailySpend30d: avgDaily,
		ImpulseRate30d:   impulseRate,
	}, nil
}

// impulseRate returns impulse-count over total-count as a percentage for the
// window starting at windowStart. An empty window yields 0.
func (s *analyticsService) impulseRate(userID uuid.UUID, windowStart time.Time) (float64, error) {
	totalCount, err := s.transactionRepo.Count(models.TransactionFilters{
		UserID:    userID,
		StartDate: &windowStart,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count window transactions: %w", err)
	}
	if totalCount == 0 {
		return 0, nil
	}

	impulse := true
	impulseCount, err := s.transactionRepo.Count(models.TransactionFilters{
		UserID:    userID,
		IsImpulse: &impulse,
		StartDate: &windowStart,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count impulse transactions: %w", err)
	}

	return float64(impulseCount) / float64(totalCount) * 100, nil
}

// GetSpendingByCategory groups spend by category name over an optional date
// window. Without explicit dates the window is the current month to date.
// Uncategorized transactions keep their reserved label.
func (s *analyticsService) GetSpendingByCategory(userID uuid.UUID, start, end *time.Time) ([]models.CategoryAmount, error) {
	if start == nil && end == nil {
		monthStart := startOfMonth(s.now())
		now := s.now()
		start, end = &monthStart, &now
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, ErrInvalidDateRange
	}

	sums, err := s.transactionRepo.SumByCategory(models.TransactionFilters{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to group spending by category: %w", err)
	}

	result := make([]models.CategoryAmount, 0, len(sums))
	for _, c := range sums {
		amount, _ := c.Total.Float64()
		result = append(result, models.CategoryAmount{Category: c.Name, Amount: amount})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Amount > result[j].Amount })
	return result, nil
}

// GetSpendingTrend returns a dense per-day series for the trailing window
// ending today. Days with no transactions appear with 0.
func (s *analyticsService) GetSpendingTrend(userID uuid.UUID, days int) ([]models.DailyAmount, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}

	today := startOfDay(s.now())
	start := today.AddDate(0, 0, -(days - 1))

	totals, err := s.dailyTotals(userID, start, today)
	if err != nil {
		return nil, err
	}

	trend := make([]models.DailyAmount, 0, days)
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		amount, _ := totals[dayKey(day)].Float64()
		trend = append(trend, models.DailyAmount{Date: dayKey(day), Amount: amount})
	}
	return trend, nil
}

// dailyTotals fetches one window of transactions and buckets amounts by
// calendar day.
func (s *analyticsService) dailyTotals(userID uuid.UUID, start, end time.Time) (map[string]decimal.Decimal, error) {
	endBefore := startOfDay(end).AddDate(0, 0, 1)
	transactions, _, err := s.transactionRepo.GetWithFilters(models.TransactionFilters{
		UserID:    userID,
		StartDate: &start,
		EndBefore: &endBefore,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch window transactions: %w", err)
	}

	totals := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		key := dayKey(tx.TransactionDate)
		totals[key] = totals[key].Add(tx.Amount)
	}
	return totals, nil
}

// GetImpulseAnalysis splits month-to-date spending into impulse and planned
func (s *analyticsService) GetImpulseAnalysis(userID uuid.UUID) (*models.ImpulseAnalysis, error) {
	monthStart := startOfMonth(s.now())
	impulse := true

	totalSpending, err := s.transactionRepo.Sum(models.TransactionFilters{
		UserID:    userID,
		StartDate: &monthStart,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sum month-to-date spending: %w", err)
	}

	impulseSpending, err := s.transactionRepo.Sum(models.TransactionFilters{
		UserID:    userID,
		IsImpulse: &impulse,
		StartDate: &monthStart,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sum impulse spending: %w", err)
	}

	impulseCount, err := s.transactionRepo.Count(models.TransactionFilters{
		UserID:    userID,
		IsImpulse: &impulse,
		StartDate: &monthStart,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count impulse transactions: %w", err)
	}

	percentage := 0.0
	if totalSpending.GreaterThan(decimal.Zero) {
		percentage, _ = impulseSpending.Div(totalSpending).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	}

	impulseF, _ := impulseSpending.Float64()
	plannedF, _ := totalSpending.Sub(impulseSpending).Float64()
	totalF, _ := totalSpending.Float64()

	return &models.ImpulseAnalysis{
		ImpulseSpending:   impulseF,
		PlannedSpending:   plannedF,
		TotalSpending:     totalF,
		ImpulsePercentage: percentage,
		ImpulseCount:      impulseCount,
	}, nil
}

// GetMonthlySummary bundles month-to-date spend, active budget state and goal
// count for the dashboard header.
func (s *analyticsService) GetMonthlySummary(userID uuid.UUID) (*models.MonthlySummary, error) {
	monthStart := startOfMonth(s.now())
	impulse := true

	monthlySpending, err := s.transactionRepo.Sum(models.TransactionFilters{
		UserID:    userID,
		StartDate: &monthStart,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sum monthly spending: %w", err)
	}

	impulseSpending, err := s.transactionRepo.Sum(models.TransactionFilters{
		UserID:    userID,
		IsImpulse: &impulse,
		StartDate: &monthStart,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sum impulse spending: %w", err)
	}

	activeGoals, err := s.goalRepo.CountActive(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active goals: %w", err)
	}

	totalBudget := decimal.Zero
	budgets, err := s.budgetRepo.GetActiveByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active budgets: %w", err)
	}
	for _, b := range budgets {
		totalBudget = totalBudget.Add(b.Amount)
	}

	spendingF, _ := monthlySpending.Float64()
	budgetF, _ := totalBudget.Float64()
	remainingF, _ := totalBudget.Sub(monthlySpending).Float64()
	impulseF, _ := impulseSpending.Float64()

	return &models.MonthlySummary{
		MonthlySpending: spendingF,
		TotalBudget:     budgetF,
		BudgetRemaining: remainingF,
		ImpulseSpending: impulseF,
		ActiveGoals:     activeGoals,
		IsOverBudget:    monthlySpending.GreaterThan(totalBudget),
	}, nil
}

// GetStreak walks backward from today counting consecutive calendar days with
// no impulse purchase. An impulse purchase today yields 0; the walk is capped
// at 3650 days.
func (s *analyticsService) GetStreak(userID uuid.UUID) (int, error) {
	impulse := true
	today := startOfDay(s.now())

	for i := 0; i < streakWalkCap; i++ {
		dayStart := today.AddDate(0, 0, -i)
		dayEnd := dayStart.AddDate(0, 0, 1)

		hasImpulse, err := s.transactionRepo.Exists(models.TransactionFilters{
			UserID:    userID,
			IsImpulse: &impulse,
			StartDate: &dayStart,
			EndBefore: &dayEnd,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to check impulse day: %w", err)
		}
		if hasImpulse {
			return i, nil
		}
	}

	return streakWalkCap, nil
}

// GetWeeklySpending sums each of the last N 7-day windows ending today,
// oldest first, tagged with the window's ISO week.
func (s *analyticsService) GetWeeklySpending(userID uuid.UUID, weeks int) ([]models.WeeklySpending, error) {
	if weeks <= 0 {
		weeks = DefaultWeeklyWindows
	}

	today := s.now()
	result := make([]models.WeeklySpending, 0, weeks)

	for i := weeks - 1; i >= 0; i-- {
		start, end := weekWindow(today, i)
		endBefore := end.AddDate(0, 0, 1)

		total, err := s.transactionRepo.Sum(models.TransactionFilters{
			UserID:    userID,
			StartDate: &start,
			EndBefore: &endBefore,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to sum week window: %w", err)
		}

		year, week := start.ISOWeek()
		totalF, _ := total.Float64()
		result = append(result, models.WeeklySpending{
			WeekStart: dayKey(start),
			WeekEnd:   dayKey(end),
			Week:      week,
			Year:      year,
			Total:     totalF,
		})
	}

	return result, nil
}

// GetMonthlyComparison sums total, impulse and planned spend plus transaction
// count per calendar month for the last N months, oldest first.
func (s *analyticsService) GetMonthlyComparison(userID uuid.UUID, months int) ([]models.MonthlyComparison, error) {
	if months <= 0 {
		months = DefaultComparisonMonths
	}

	now := s.now()
	impulse := true
	result := make([]models.MonthlyComparison, 0, months)

	for i := months - 1; i >= 0; i-- {
		monthStart := monthsAgo(now, i)
		monthEnd := endOfMonth(monthStart)

		total, err := s.transactionRepo.Sum(models.TransactionFilters{
			UserID:    userID,
			StartDate: &monthStart,
			EndDate:   &monthEnd,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to sum month total: %w", err)
		}

		impulseTotal, err := s.transactionRepo.Sum(models.TransactionFilters{
			UserID:    userID,
			IsImpulse: &impulse,
			StartDate: &monthStart,
			EndDate:   &monthEnd,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to sum month impulse total: %w", err)
		}

		count, err := s.transactionRepo.Count(models.TransactionFilters{
			UserID:    userID,
			StartDate: &monthStart,
			EndDate:   &monthEnd,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to count month transactions: %w", err)
		}

		totalF, _ := total.Float64()
		impulseF, _ := impulseTotal.Float64()
		plannedF, _ := total.Sub(impulseTotal).Float64()

		result = append(result, models.MonthlyComparison{
			Month:            monthKey(monthStart.Year(), monthStart.Month()),
			Label:            monthLabel(monthStart.Year(), monthStart.Month()),
			Total:            totalF,
			ImpulseTotal:     impulseF,
			PlannedTotal:     plannedF,
			TransactionCount: count,
		})
	}

	return result, nil
}

// GetYearlyBreakdown returns per-year totals with dense monthly slices for the
// last N years, oldest first. The current year's monthly array stops at the
// current month, and average_monthly divides by the months actually present.
func (s *analyticsService) GetYearlyBreakdown(userID uuid.UUID, years int) ([]models.YearlyBreakdown, error) {
	if years <= 0 {
		years = DefaultBreakdownYears
	}

	now := s.now()
	currentYear := now.Year()
	result := make([]models.YearlyBreakdown, 0, years)

	for year := currentYear - (years - 1); year <= currentYear; year++ {
		lastMonth := time.December
		if year == currentYear {
			lastMonth = now.Month()
		}

		yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, now.Location())
		yearEnd := time.Date(year, lastMonth, 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0).Add(-time.Nanosecond)

		monthSums, err := s.transactionRepo.SumByMonth(userID, yearStart, yearEnd)
		if err != nil {
			return nil, fmt.Errorf("failed to sum year by month: %w", err)
		}

		totals := make(map[time.Month]decimal.Decimal, len(monthSums))
		for _, m := range monthSums {
			totals[m.Month] = m.Total
		}

		yearTotal := decimal.Zero
		monthly := make([]models.MonthBreakdown, 0, int(lastMonth))
		for month := time.January; month <= lastMonth; month++ {
			monthTotal := totals[month]
			yearTotal = yearTotal.Add(monthTotal)
			totalF, _ := monthTotal.Float64()
			monthly = append(monthly, models.MonthBreakdown{
				Month: monthKey(year, month),
				Total: totalF,
			})
		}

		average, _ := yearTotal.Div(decimal.NewFromInt(int64(len(monthly)))).Round(2).Float64()
		totalF, _ := yearTotal.Float64()
		result = append(result, models.YearlyBreakdown{
			Year:           year,
			Total:          totalF,
			Monthly:        monthly,
			AverageMonthly: average,
		})
	}

	return result, nil
}

// GetCategoryTrends builds a zero-filled category x month matrix over the last
// N months, reshaped into one series per category. Categories are the union
// across all months in range.
func (s *analyticsService) GetCategoryTrends(userID uuid.UUID, months int) (*models.CategoryTrends, error) {
	if months <= 0 {
		months = DefaultTrendMonths
	}

	now := s.now()
	monthKeys := make([]string, 0, months)
	perMonth := make([]map[string]decimal.Decimal, 0, months)
	categorySet := make(map[string]struct{})

	for i := months - 1; i >= 0; i-- {
		monthStart := monthsAgo(now, i)
		monthEnd := endOfMonth(monthStart)

		sums, err := s.transactionRepo.SumByCategory(models.TransactionFilters{
			UserID:    userID,
			StartDate: &monthStart,
			EndDate:   &monthEnd,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to group month by category: %w", err)
		}

		totals := make(map[string]decimal.Decimal, len(sums))
		for _, c := range sums {
			totals[c.Name] = c.Total
			categorySet[c.Name] = struct{}{}
		}

		monthKeys = append(monthKeys, monthKey(monthStart.Year(), monthStart.Month()))
		perMonth = append(perMonth, totals)
	}

	categories := make([]string, 0, len(categorySet))
	for name := range categorySet {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	series := make([]models.TrendSeries, 0, len(categories))
	for _, name := range categories {
		data := make([]float64, 0, len(perMonth))
		for _, totals := range perMonth {
			value, _ := totals[name].Float64()
			data = append(data, value)
		}
		series = append(series, models.TrendSeries{Name: name, Data: data})
	}

	return &models.CategoryTrends{Months: monthKeys, Series: series}, nil
}

// GetHeatmap returns a dense per-day total series for a window of the given
// length ending at min(year end, today), with max/min/mean/sum statistics over
// the per-day values.
func (s *analyticsService) GetHeatmap(userID uuid.UUID, year, days int) (*models.Heatmap, error) {
	now := s.now()
	if year <= 0 {
		year = now.Year()
	}
	if days <= 0 {
		days = DefaultHeatmapDays
	}

	end := time.Date(year, time.December, 31, 0, 0, 0, 0, now.Location())
	if today := startOfDay(now); today.Before(end) {
		end = today
	}
	start := end.AddDate(0, 0, -(days - 1))

	totals, err := s.dailyTotals(userID, start, end)
	if err != nil {
		return nil, err
	}

	dayValues := make([]models.DailyAmount, 0, days)
	sum := decimal.Zero
	var maxValue, minValue decimal.Decimal
	first := true

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		value := totals[dayKey(day)]
		sum = sum.Add(value)
		if first || value.GreaterThan(maxValue) {
			maxValue = value
		}
		if first || value.LessThan(minValue) {
			minValue = value
		}
		first = false

		valueF, _ := value.Float64()
		dayValues = append(dayValues, models.DailyAmount{Date: dayKey(day), Amount: valueF})
	}

	stats := models.HeatmapStats{}
	if len(dayValues) > 0 {
		stats.Max, _ = maxValue.Float64()
		stats.Min, _ = minValue.Float64()
		stats.Mean, _ = sum.Div(decimal.NewFromInt(int64(len(dayValues)))).Round(2).Float64()
		stats.Sum, _ = sum.Float64()
	}

	return &models.Heatmap{Days: dayValues, Stats: stats}, nil
}

// GetTimeRange buckets spending between two dates by day, week or month.
// Missing dates default to the trailing 30 days; start after end is rejected
// before any query runs.
func (s *analyticsService) GetTimeRange(userID uuid.UUID, start, end *time.Time, groupBy string) ([]models.TimeRangeBucket, error) {
	today := startOfDay(s.now())
	rangeEnd := today
	if end != nil {
		rangeEnd = startOfDay(*end)
	}
	rangeStart := rangeEnd.AddDate(0, 0, -30)
	if start != nil {
		rangeStart = startOfDay(*start)
	}

	if rangeStart.After(rangeEnd) {
		return nil, ErrInvalidDateRange
	}

	switch groupBy {
	case "", "day", "week", "month":
	default:
		return nil, ErrInvalidGroupBy
	}

	totals, err := s.dailyTotals(userID, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}

	sumRange := func(from, to time.Time) decimal.Decimal {
		total := decimal.Zero
		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			total = total.Add(totals[dayKey(day)])
		}
		return total
	}

	var buckets []models.TimeRangeBucket
	appendBucket := func(from, to time.Time) {
		total, _ := sumRange(from, to).Float64()
		buckets = append(buckets, models.TimeRangeBucket{
			Start: dayKey(from),
			End:   dayKey(to),
			Total: total,
		})
	}

	switch groupBy {
	case "week":
		for from := rangeStart; !from.After(rangeEnd); from = from.AddDate(0, 0, 7) {
			to := from.AddDate(0, 0, 6)
			if to.After(rangeEnd) {
				to = rangeEnd
			}
			appendBucket(from, to)
		}
	case "month":
		for from := rangeStart; !from.After(rangeEnd); {
			to := endOfMonth(from)
			clipped := startOfDay(to)
			if clipped.After(rangeEnd) {
				clipped = rangeEnd
			}
			appendBucket(from, clipped)
			from = startOfMonth(from).AddDate(0, 1, 0)
		}
	default:
		for from := rangeStart; !from.After(rangeEnd); from = from.AddDate(0, 0, 1) {
			appendBucket(from, from)
		}
	}

	return buckets, nil
}
