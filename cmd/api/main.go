package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-space-reservation/internal/api"
	"github.com/sanosuguru/go-space-reservation/internal/api/handler"
	custommw "github.com/sanosuguru/go-space-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-space-reservation/internal/application"
	"github.com/sanosuguru/go-space-reservation/internal/config"
	"github.com/sanosuguru/go-space-reservation/internal/infrastructure/email"
	"github.com/sanosuguru/go-space-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-space-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-space-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-space-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-space-reservation/internal/pkg/token"
	"github.com/sanosuguru/go-space-reservation/internal/worker"
)

func main() {
	// .env があれば読み込む（本番では環境変数を直接使う）
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Get()
	defer func() { _ = logger.Sync() }()

	m := metrics.Init()

	// PostgreSQL
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatal("データベース接続エラー", zap.Error(err))
	}
	defer db.Close()

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := postgres.RunMigrations(db.DB, migrationsPath); err != nil {
		log.Fatal("マイグレーションエラー", zap.Error(err))
	}

	// Redis
	redisClient := redisinfra.NewClient(&cfg.Redis)
	defer redisClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisinfra.Ping(ctx, redisClient); err != nil {
		cancel()
		log.Fatal("Redis接続エラー", zap.Error(err))
	}
	cancel()

	// リポジトリ
	txManager := postgres.NewTxManager(db)
	reservationRepo := postgres.NewReservationRepository(db)
	spaceRepo := postgres.NewSpaceRepository(db)
	resourceRepo := postgres.NewResourceRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// インフラサービス
	lockManager := redisinfra.NewLockManager(redisClient)
	availabilityCache := redisinfra.NewAvailabilityCache(redisClient)
	notifier := email.NewSender(&cfg.SMTP)
	tokenSvc := token.NewService(cfg.JWT.Secret, cfg.JWT.Expiry)

	// アプリケーションサービス
	availability := application.NewAvailabilityChecker(reservationRepo, availabilityCache)
	inventory := application.NewInventoryManager(resourceRepo)
	reservationService := application.NewReservationService(
		txManager, reservationRepo, spaceRepo, clientRepo,
		availability, inventory, lockManager, notifier,
	)
	spaceService := application.NewSpaceService(spaceRepo, reservationRepo)
	resourceService := application.NewResourceService(resourceRepo)
	clientService := application.NewClientService(clientRepo)
	authService := application.NewAuthService(userRepo, tokenSvc)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	custommw.SetupMiddleware(e)
	e.Use(custommw.PrometheusMiddleware(m))

	// ハンドラー
	healthHandler := handler.NewHealthHandler()
	reservationHandler := handler.NewReservationHandler(reservationService)
	spaceHandler := handler.NewSpaceHandler(spaceService, availability)
	resourceHandler := handler.NewResourceHandler(resourceService)
	clientHandler := handler.NewClientHandler(clientService)
	authHandler := handler.NewAuthHandler(authService)

	// ルーティング
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommw.MetricsBasicAuth())

	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	auth := v1.Group("", custommw.JWT(tokenSvc))
	auth.GET("/auth/me", authHandler.Me)

	auth.POST("/reservations", reservationHandler.Create)
	auth.GET("/reservations", reservationHandler.List)
	auth.GET("/reservations/:id", reservationHandler.GetByID)
	auth.PATCH("/reservations/:id", reservationHandler.Update)
	auth.DELETE("/reservations/:id", reservationHandler.Delete)

	auth.GET("/spaces", spaceHandler.List)
	auth.GET("/spaces/:id", spaceHandler.GetByID)
	auth.GET("/spaces/:id/availability", spaceHandler.Availability)
	auth.POST("/spaces", spaceHandler.Create)
	auth.PATCH("/spaces/:id", spaceHandler.Update)
	auth.DELETE("/spaces/:id", spaceHandler.Delete, custommw.RequireAdmin())

	auth.GET("/resources", resourceHandler.List)
	auth.GET("/resources/:id", resourceHandler.GetByID)
	auth.POST("/resources", resourceHandler.Create)
	auth.PATCH("/resources/:id", resourceHandler.Update)
	auth.DELETE("/resources/:id", resourceHandler.Delete, custommw.RequireAdmin())

	auth.GET("/clients", clientHandler.List)
	auth.GET("/clients/:id", clientHandler.GetByID)
	auth.POST("/clients", clientHandler.Create)
	auth.PATCH("/clients/:id", clientHandler.Update)
	auth.DELETE("/clients/:id", clientHandler.Delete, custommw.RequireAdmin())

	// バックグラウンドワーカー
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	closer := worker.NewFinishedReservationCloser(reservationService, cfg.Worker.CloserInterval)
	go closer.Start(workerCtx)

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	log.Info("サーバー起動", zap.String("port", cfg.Server.Port))

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("サーバーをシャットダウンしています")

	closer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	log.Info("サーバーが正常にシャットダウンしました")
}
