package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/allknee486/Impulse/internal/database"
	"github.com/allknee486/Impulse/internal/errors"
	"github.com/allknee486/Impulse/internal/metrics"
	"github.com/allknee486/Impulse/internal/models"
	"github.com/allknee486/Impulse/internal/repositories"
	"github.com/allknee486/Impulse/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AnalyticsHandlerTestSuite struct {
	suite.Suite
	db              *database.DB
	echo            *echo.Echo
	handler         *AnalyticsHandler
	transactionRepo repositories.TransactionRepositoryInterface
	testUser        *models.User
	food            *models.Category
}

func TestAnalyticsHandlerSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsHandlerTestSuite))
}

func (s *AnalyticsHandlerTestSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.transactionRepo = repositories.NewTransactionRepository(s.db.DB)
	budgetRepo := repositories.NewBudgetRepository(s.db.DB)
	goalRepo := repositories.NewSavingsGoalRepository(s.db.DB)

	analyticsService := services.NewAnalyticsService(s.transactionRepo, budgetRepo, goalRepo, slog.Default())
	s.handler = NewAnalyticsHandler(analyticsService, metrics.NewNoopRecorder())

	s.echo = echo.New()
	s.echo.Validator = NewValidator()

	s.testUser = database.CreateTestUser(s.T(), s.db, "analytics@example.com")
	s.food = database.CreateTestCategory(s.T(), s.db, s.testUser, "Food")
}

func (s *AnalyticsHandlerTestSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

// get issues an authenticated GET against the handler under test.
func (s *AnalyticsHandlerTestSuite) get(target string, authed bool, handlerFunc echo.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	if authed {
		c.Set("user_id", s.testUser.ID)
	}
	s.NoError(handlerFunc(c))
	return rec
}

func (s *AnalyticsHandlerTestSuite) spend(amount string, daysAgo int, isImpulse bool) {
	tx := &models.Transaction{
		UserID:          s.testUser.ID,
		CategoryID:      &s.food.ID,
		Amount:          decimal.RequireFromString(amount),
		Description:     "ledger entry",
		TransactionDate: time.Now().AddDate(0, 0, -daysAgo),
		IsImpulse:       isImpulse,
	}
	s.Require().NoError(s.transactionRepo.Create(tx))
}

func (s *AnalyticsHandlerTestSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var body errors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func (s *AnalyticsHandlerTestSuite) TestGetSummary_EmptyLedger() {
	rec := s.get("/api/v1/analytics/summary", true, s.handler.GetSummary)

	s.Equal(http.StatusOK, rec.Code)

	var summary models.AnalyticsSummary
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &summary))
	s.Zero(summary.TotalSpent)
	s.Empty(summary.ByCategory)
	s.Zero(summary.ImpulseRate30d)
}

func (s *AnalyticsHandlerTestSuite) TestGetSummary_WithLedger() {
	s.spend("50.00", 2, false)
	s.spend("100.00", 7, true)

	rec := s.get("/api/v1/analytics/summary", true, s.handler.GetSummary)

	s.Equal(http.StatusOK, rec.Code)

	var summary models.AnalyticsSummary
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &summary))
	s.InDelta(150.0, summary.TotalSpent, 0.001)
	s.InDelta(150.0, summary.ByCategory["Food"], 0.001)
}

func (s *AnalyticsHandlerTestSuite) TestGetSummary_Unauthenticated() {
	rec := s.get("/api/v1/analytics/summary", false, s.handler.GetSummary)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(errors.AuthMissingToken), s.errorCode(rec))
}

func (s *AnalyticsHandlerTestSuite) TestGetSpendingByCategory_BadDate() {
	rec := s.get("/api/v1/analytics/spending-by-category?start_date=yesterday", true, s.handler.GetSpendingByCategory)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(errors.ValidationInvalidDate), s.errorCode(rec))
}

func (s *AnalyticsHandlerTestSuite) TestGetTimeRange_InvertedRange() {
	rec := s.get("/api/v1/analytics/time-range?start_date=2026-08-20&end_date=2026-08-10", true, s.handler.GetTimeRange)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(errors.ValidationDateRange), s.errorCode(rec))
}

func (s *AnalyticsHandlerTestSuite) TestGetTimeRange_UnknownGroupBy() {
	rec := s.get("/api/v1/analytics/time-range?group_by=quarter", true, s.handler.GetTimeRange)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(errors.ValidationGroupBy), s.errorCode(rec))
}

func (s *AnalyticsHandlerTestSuite) TestGetTimeRange_DefaultsToDaily() {
	s.spend("25.00", 1, false)

	rec := s.get("/api/v1/analytics/time-range", true, s.handler.GetTimeRange)

	s.Equal(http.StatusOK, rec.Code)

	var buckets []models.TimeRangeBucket
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &buckets))
	s.Len(buckets, 31)
}

func (s *AnalyticsHandlerTestSuite) TestGetStreak_ImpulseTodayIsZero() {
	s.spend("10.00", 0, true)

	rec := s.get("/api/v1/analytics/streak", true, s.handler.GetStreak)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"streak_days":0`)
}

func (s *AnalyticsHandlerTestSuite) TestGetWeeklySpending_TwelveWindows() {
	rec := s.get("/api/v1/analytics/weekly-spending", true, s.handler.GetWeeklySpending)

	s.Equal(http.StatusOK, rec.Code)

	var weeks []models.WeeklySpending
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &weeks))
	s.Len(weeks, 12)
}
