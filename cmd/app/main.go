package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/catalog"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/clock"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	configs := getConfigs(logger)

	gormDB, err := gorm.Open(pgdriver.Open(configs.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	if err := postgres.Migrate(gormDB); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	stock, err := catalog.NewCSVCatalog(ctx, configs.CatalogPath)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	logger.Info("catalog loaded", "path", configs.CatalogPath, "items", stock.Len())

	notifier, closeNotifier := newNotifier(configs, logger)
	defer closeNotifier()

	app := cmd.NewCompositionRoot(configs, gormDB, stock, notifier, clock.NewSystem(), logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, &app, configs.HTTPPort, logger)
}

func getConfigs(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Info("no .env file, using process environment")
	}

	config, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return config
}

func newNotifier(configs cmd.Config, logger *slog.Logger) (ports.StageNotifier, func()) {
	brokers := configs.KafkaBrokers()
	if len(brokers) == 0 {
		logger.Warn("KAFKA_HOST is empty, stage signals are only logged")
		return kafka.NewLogNotifier(logger), func() {}
	}

	producer, err := kafka.NewSyncProducer(brokers)
	if err != nil {
		log.Fatalf("connect to kafka: %v", err)
	}
	notifier := kafka.NewStageNotifier(producer, configs.KafkaStageTopic, clock.NewSystem(), logger)
	return notifier, func() {
		if err := notifier.Close(); err != nil {
			logger.Error("close kafka producer", "error", err)
		}
	}
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string, logger *slog.Logger) {
	e, err := app.CreateRouter()
	if err != nil {
		log.Fatalf("build router: %v", err)
	}

	go func() {
		logger.Info("http server listening", "port", port)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
}
