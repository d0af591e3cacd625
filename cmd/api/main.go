package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/api"
	"github.com/sanosuguru/go-cinema-reservation/internal/api/handler"
	apimiddleware "github.com/sanosuguru/go-cinema-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-cinema-reservation/internal/application"
	"github.com/sanosuguru/go-cinema-reservation/internal/config"
	"github.com/sanosuguru/go-cinema-reservation/internal/infrastructure/memory"
	"github.com/sanosuguru/go-cinema-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-cinema-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-cinema-reservation/internal/inventory"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-cinema-reservation/internal/schedule"
	"github.com/sanosuguru/go-cinema-reservation/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	env := os.Getenv("APP_ENV")
	logger.Set(logger.NewLogger(env))
	defer logger.Sync()

	m := metrics.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ストレージ層（座席在庫と台帳はインメモリ）
	registry := inventory.NewRegistry()
	auditoriums := memory.NewAuditoriumStore()
	showtimes := memory.NewShowtimeStore()
	orders := memory.NewOrderStore()
	tickets := memory.NewTicketStore()

	// 空席数キャッシュ（任意）
	var cache application.AvailabilityCacher
	if cfg.Redis.Enabled {
		client := redisinfra.NewClient(&cfg.Redis)
		if err := redisinfra.Ping(ctx, client); err != nil {
			logger.Fatal("Redis接続に失敗", zap.Error(err))
		}
		cache = redisinfra.NewAvailabilityCache(client)
		logger.Info("空席数キャッシュを有効化", zap.String("addr", cfg.Redis.Addr()))
	}

	// 注文アーカイブ（任意）
	var archive application.OrderArchiver
	if cfg.Database.Enabled {
		db, err := postgres.NewConnection(&cfg.Database)
		if err != nil {
			logger.Fatal("データベース接続に失敗", zap.Error(err))
		}
		defer db.Close()

		if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
			if err := postgres.RunMigrations(db.DB, path); err != nil {
				logger.Fatal("マイグレーションに失敗", zap.Error(err))
			}
		}
		archive = postgres.NewOrderArchive(db)
		logger.Info("注文アーカイブを有効化", zap.String("db", cfg.Database.DBName))
	}

	// アプリケーションサービス
	checker := schedule.NewConflictChecker(showtimes, cfg.Schedule.TurnaroundBuffer)
	scheduleSvc := application.NewScheduleService(auditoriums, showtimes, registry, checker, m)
	bookingSvc := application.NewBookingService(
		registry, orders, tickets, showtimes,
		application.NoopPaymentGateway{}, archive, cache, m,
		cfg.Booking.HoldTTL, cfg.Booking.TaxRatePercent,
	)

	// 期限切れ仮押さえの回収ワーカー
	reaper := worker.NewHoldReaper(bookingSvc, cfg.Booking.SweepInterval)
	go reaper.Start(ctx)

	// HTTPサーバー
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	apimiddleware.SetupMiddleware(e)
	e.Use(apimiddleware.PrometheusMiddleware(m))

	registerRoutes(e, scheduleSvc, bookingSvc)

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()
	logger.Info("サーバー起動", zap.String("port", cfg.Server.Port))

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	reaper.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}

func registerRoutes(e *echo.Echo, scheduleSvc *application.ScheduleService, bookingSvc *application.BookingService) {
	healthHandler := handler.NewHealthHandler()
	auditoriumHandler := handler.NewAuditoriumHandler(scheduleSvc)
	showtimeHandler := handler.NewShowtimeHandler(scheduleSvc)
	orderHandler := handler.NewOrderHandler(bookingSvc)
	seatHandler := handler.NewSeatHandler(bookingSvc)

	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")

	v1.POST("/auditoriums", auditoriumHandler.Create)
	v1.GET("/auditoriums", auditoriumHandler.List)
	v1.GET("/auditoriums/:id", auditoriumHandler.GetByID)

	v1.POST("/showtimes", showtimeHandler.Create)
	v1.POST("/showtimes/bulk", showtimeHandler.BulkCreate)
	v1.POST("/showtimes/copy", showtimeHandler.CopySchedule)
	v1.GET("/showtimes", showtimeHandler.List)
	v1.GET("/occupancy", showtimeHandler.GetOccupancySummary)
	v1.GET("/showtimes/:id", showtimeHandler.GetByID)
	v1.PUT("/showtimes/:id", showtimeHandler.Update)
	v1.DELETE("/showtimes/:id", showtimeHandler.Delete)
	v1.POST("/showtimes/:id/cancel", showtimeHandler.Cancel)
	v1.POST("/showtimes/:id/complete", showtimeHandler.Complete)
	v1.GET("/showtimes/:id/occupancy", showtimeHandler.GetOccupancy)
	v1.GET("/showtimes/:id/seats", seatHandler.GetSeatMap)
	v1.GET("/showtimes/:id/availability", seatHandler.GetAvailability)

	v1.POST("/orders", orderHandler.Create)
	v1.GET("/orders", orderHandler.ListByStaff)
	v1.GET("/orders/:id", orderHandler.GetByID)
	v1.POST("/orders/:id/pay", orderHandler.ConfirmPayment)
	v1.POST("/orders/:id/cancel", orderHandler.Cancel)
	v1.POST("/orders/:id/refund", orderHandler.Refund)
	v1.POST("/orders/:id/exchange", orderHandler.Exchange)
	v1.GET("/orders/:id/tickets", orderHandler.ListTickets)
}
