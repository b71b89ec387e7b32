package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allknee486/Impulse/internal/config"
	"github.com/allknee486/Impulse/internal/database"
	"github.com/allknee486/Impulse/internal/handlers"
	"github.com/allknee486/Impulse/internal/metrics"
	custommw "github.com/allknee486/Impulse/internal/middleware"
	"github.com/allknee486/Impulse/internal/realtime"
	"github.com/allknee486/Impulse/internal/repositories"
	"github.com/allknee486/Impulse/internal/services"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB: ", err)
	}

	if err := database.RunMigrationsIfEnabled(sqlDB); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db.DB)
	categoryRepo := repositories.NewCategoryRepository(db.DB)
	budgetRepo := repositories.NewBudgetRepository(db.DB)
	transactionRepo := repositories.NewTransactionRepository(db.DB)
	goalRepo := repositories.NewSavingsGoalRepository(db.DB)

	// Realtime fan-out and metrics
	recorder := metrics.NewPrometheusRecorder()
	hub := realtime.NewHub(recorder, logger)

	// Services
	tokenService := services.NewTokenService(&cfg.JWT)
	passwordService := services.NewPasswordService()
	authService := services.NewAuthService(userRepo, passwordService, tokenService, logger)
	categoryService := services.NewCategoryService(categoryRepo, transactionRepo, logger)
	budgetService := services.NewBudgetService(budgetRepo, categoryRepo, transactionRepo, logger)
	goalService := services.NewSavingsGoalService(goalRepo, logger)
	publisher := services.NewEventPublisher(transactionRepo, budgetRepo, hub, recorder, logger)
	transactionService := services.NewTransactionService(transactionRepo, budgetRepo, categoryRepo, publisher, logger)
	analyticsService := services.NewAnalyticsService(transactionRepo, budgetRepo, goalRepo, logger)
	dashboardService := services.NewDashboardService(transactionRepo, categoryRepo, analyticsService, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	goalHandler := handlers.NewSavingsGoalHandler(goalService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, recorder)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	wsHandler := handlers.NewWSHandler(hub, tokenService, cfg.Realtime, logger)
	healthHandler := handlers.NewHealthCheckHandler(db.DB)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = custommw.CustomHTTPErrorHandler

	e.Use(custommw.RequestID())
	e.Use(custommw.PanicRecovery())
	e.Use(custommw.SecurityHeaders())
	e.Use(custommw.RateLimiter())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}))

	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	requireAuth := custommw.RequireAuth(tokenService)

	auth.GET("/me", authHandler.Me, requireAuth)
	auth.POST("/logout", authHandler.Logout, requireAuth)

	categories := api.Group("/categories", requireAuth)
	categories.POST("", categoryHandler.CreateCategory)
	categories.POST("/bulk", categoryHandler.BulkCreateCategories)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/statistics", categoryHandler.GetStatistics)
	categories.GET("/:categoryId", categoryHandler.GetCategory)
	categories.PUT("/:categoryId", categoryHandler.UpdateCategory)
	categories.DELETE("/:categoryId", categoryHandler.DeleteCategory)

	budgets := api.Group("/budgets", requireAuth)
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/active", budgetHandler.GetActiveBudget)
	budgets.GET("/check-exists", budgetHandler.CheckExists)
	budgets.GET("/summary", budgetHandler.GetSummary)
	budgets.GET("/vs-actual", budgetHandler.GetBudgetVsActual)
	budgets.GET("/:budgetId", budgetHandler.GetBudget)
	budgets.PUT("/:budgetId", budgetHandler.UpdateBudget)
	budgets.DELETE("/:budgetId", budgetHandler.DeleteBudget)
	budgets.GET("/:budgetId/allocations", budgetHandler.GetAllocations)
	budgets.PUT("/:budgetId/allocations", budgetHandler.UpdateAllocations)

	transactions := api.Group("/transactions", requireAuth)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/recent", transactionHandler.GetRecent)
	transactions.GET("/impulse", transactionHandler.GetImpulse)
	transactions.GET("/monthly-total", transactionHandler.GetMonthlyTotal)
	transactions.GET("/:transactionId", transactionHandler.GetTransaction)
	transactions.PUT("/:transactionId", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:transactionId", transactionHandler.DeleteTransaction)
	transactions.POST("/:transactionId/mark-impulse", transactionHandler.MarkImpulse)
	transactions.POST("/:transactionId/unmark-impulse", transactionHandler.UnmarkImpulse)

	goals := api.Group("/savings-goals", requireAuth)
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/summary", goalHandler.GetSummary)
	goals.GET("/:goalId", goalHandler.GetGoal)
	goals.PUT("/:goalId", goalHandler.UpdateGoal)
	goals.DELETE("/:goalId", goalHandler.DeleteGoal)
	goals.POST("/:goalId/add-progress", goalHandler.AddProgress)

	analytics := api.Group("/analytics", requireAuth)
	analytics.GET("/summary", analyticsHandler.GetSummary)
	analytics.GET("/spending-by-category", analyticsHandler.GetSpendingByCategory)
	analytics.GET("/spending-trend", analyticsHandler.GetSpendingTrend)
	analytics.GET("/impulse-analysis", analyticsHandler.GetImpulseAnalysis)
	analytics.GET("/monthly-summary", analyticsHandler.GetMonthlySummary)
	analytics.GET("/streak", analyticsHandler.GetStreak)
	analytics.GET("/weekly-spending", analyticsHandler.GetWeeklySpending)
	analytics.GET("/monthly-comparison", analyticsHandler.GetMonthlyComparison)
	analytics.GET("/yearly-breakdown", analyticsHandler.GetYearlyBreakdown)
	analytics.GET("/category-trends", analyticsHandler.GetCategoryTrends)
	analytics.GET("/heatmap", analyticsHandler.GetHeatmap)
	analytics.GET("/time-range", analyticsHandler.GetTimeRange)

	api.GET("/dashboard/metrics", dashboardHandler.GetMetrics, requireAuth)

	// Token is checked in the handler before the websocket handshake.
	e.GET("/ws", wsHandler.Serve)

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", "addr", addr, "env", cfg.Server.Environment)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
