package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	ginprometheus "github.com/zsais/go-gin-prometheus"

	"nineties-server/internal/config"
	delivery "nineties-server/internal/delivery/http"
	"nineties-server/internal/delivery/http/middleware"
	"nineties-server/internal/repository"
	"nineties-server/internal/service"
	"nineties-server/internal/validation"
	"nineties-server/migrations"
	"nineties-server/pkg/database"
	"nineties-server/pkg/logger"
	"nineties-server/pkg/migration"
	"nineties-server/pkg/workerpool"
)

func main() {
	// Загрузка переменных окружения
	if err := godotenv.Load(); err != nil {
		// В production .env может не использоваться
		fmt.Printf("Warning: could not load .env file: %v\n", err)
	}

	initZerolog()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Инициализация zap логгера для HTTP слоя
	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logger")
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к БД
	log.Info().Str("dsn", cfg.GetMaskedDSN()).Msg("connecting to database...")
	db, err := database.New(ctx, database.Config{
		DSN:         cfg.GetDSN(),
		MaxConns:    int32(cfg.DBMaxConns),
		IdleTimeout: cfg.DBIdleTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Применяем миграции
	migrator := migration.NewMigrator(migration.Config{
		MigrationsPath: ".",
		MigrationsFS:   migrations.FS,
	}, db.Pool)
	if err := migrator.Up(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	// Инициализация AI клиента и пула для блокирующих вызовов
	aiClient, err := service.NewAIClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create AI client")
	}
	pool := workerpool.New(cfg.AIWorkers)

	// Сборка слоев
	validator := validation.New(validation.AllowedProtagonists())
	storyRepo := repository.NewPostgresStoryRepository(db.Pool)
	generator := service.NewStoryGenerator(aiClient, pool)
	storyService := service.NewStoryService(validator, generator, storyRepo)
	handler := delivery.New(storyService)

	// Настройка HTTP сервера
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ZapLogger(zapLogger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	prom := ginprometheus.NewPrometheus("gin")
	prom.Use(router)

	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("HTTP server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	if err := pool.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("worker pool shutdown error")
	}

	log.Info().Msg("server stopped")
}

// initZerolog настраивает глобальный zerolog для пакетов инфраструктуры
func initZerolog() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
