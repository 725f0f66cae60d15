package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/avtoshkola/driveschool_api/internal/app"
	"github.com/avtoshkola/driveschool_api/internal/config"
	"github.com/avtoshkola/driveschool_api/internal/controller"
	"github.com/avtoshkola/driveschool_api/internal/notify"
	"github.com/avtoshkola/driveschool_api/internal/repository"
	"github.com/avtoshkola/driveschool_api/internal/repository/cache"
	"github.com/avtoshkola/driveschool_api/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Sugar().Infow("Starting driving school API",
		"environment", cfg.Environment,
		"addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	availabilityCache, err := cache.New(ctx, cfg.RedisAddr, logger)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	if availabilityCache != nil {
		defer availabilityCache.Close()
		logger.Info("Availability cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.TelegramToken != "" {
		telegramNotifier, err := notify.NewTelegramNotifier(cfg.TelegramToken, logger)
		if err != nil {
			logger.Fatal("Failed to create telegram notifier", zap.Error(err))
		}
		notifier = telegramNotifier
		logger.Info("Telegram notifications enabled")
	}

	userRepo := repository.NewUserRepository(pool)
	teacherRepo := repository.NewTeacherRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	lessonRepo := repository.NewLessonRepository(pool)
	placeRepo := repository.NewPlaceRepository(pool)
	topicRepo := repository.NewTopicRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	userService := service.NewUserService(userRepo, teacherRepo, studentRepo, logger)
	availabilityService := service.NewAvailabilityService(teacherRepo, lessonRepo, availabilityCache, logger)
	lessonService := service.NewLessonService(
		userRepo,
		teacherRepo,
		studentRepo,
		lessonRepo,
		placeRepo,
		availabilityService,
		availabilityCache,
		notifier,
		logger,
	)
	topicService := service.NewTopicService(lessonRepo, studentRepo, topicRepo, logger)
	paymentService := service.NewPaymentService(paymentRepo, logger)

	router := controller.NewRouter(userService, lessonService, topicService, paymentService, logger, cfg.Environment)

	server := app.NewServer(cfg.HTTPAddr, router, logger)
	if err := server.Run(ctx); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}

	logger.Info("Server stopped")
}
