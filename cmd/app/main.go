package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"parceltrack/cmd"
	httpin "parceltrack/internal/adapters/in/http"
	"parceltrack/internal/adapters/out/kafkanotifier"
	postgresadapter "parceltrack/internal/adapters/out/postgres"
	"parceltrack/internal/adapters/out/rediscache"
	"parceltrack/internal/pkg/logger"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	if err = run(cfg); err != nil {
		log.Fatalf("Service stopped: %v", err)
	}
}

func run(cfg cmd.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger := logger.New(cfg.LogLevel)

	gormDB, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	if err = postgresadapter.Migrate(ctx, gormDB); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		if redisClient, err = rediscache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
			return err
		}
		defer redisClient.Close()
	} else {
		appLogger.Warn("REDIS_ADDR is not set; tracking cache and rate limit are disabled")
	}

	var notifier *kafkanotifier.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		notifier = kafkanotifier.New(cfg.KafkaBrokers, cfg.KafkaNotificationsTopic)
		defer notifier.Close()
	} else {
		appLogger.Warn("KAFKA_BROKERS is not set; notifications are disabled")
	}

	app := cmd.NewCompositionRoot(cfg, gormDB, redisClient, notifier, appLogger)

	api, err := httpin.LoadOpenAPI()
	if err != nil {
		return err
	}
	e := httpin.NewRouter(httpin.NewServer(app.HTTPHandlers()), api, app.RouterConfig())

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
