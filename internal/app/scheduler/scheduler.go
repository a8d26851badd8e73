// Package scheduler собирает приложение планировщика переходов статуса событий.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/wellness-events/internal/cache"
	"github.com/magabrotheeeer/wellness-events/internal/config"
	"github.com/magabrotheeeer/wellness-events/internal/lib/sl"
	"github.com/magabrotheeeer/wellness-events/internal/rabbitmq"
	schedulerservice "github.com/magabrotheeeer/wellness-events/internal/services/scheduler"
	"github.com/magabrotheeeer/wellness-events/internal/storage"
)

// App представляет приложение планировщика.
type App struct {
	schedulerService *schedulerservice.Service
	cron             *cron.Cron
	spec             string
	conn             *amqp.Connection
	ch               *amqp.Channel
	db               *storage.Storage
	cache            *cache.Cache
	logger           *slog.Logger
}

func waitForDB(db *storage.Storage) error {
	for i := 0; i < 10; i++ {
		err := storage.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if _, err := cron.ParseStandard(cfg.Cron); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", cfg.Cron, err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.EventsExchange, rabbitmq.EventQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(db); err != nil {
		_ = db.Close()
		closeResources(ch, conn, logger)
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	return &App{
		schedulerService: schedulerservice.NewSchedulerService(db, cacheRedis, ch, logger),
		cron:             cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		spec:             cfg.Cron,
		conn:             conn,
		ch:               ch,
		db:               db,
		cache:            cacheRedis,
		logger:           logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
}

// Run запускает проверку по расписанию и ждёт отмены ctx.
func (a *App) Run(ctx context.Context) error {
	if _, err := a.cron.AddFunc(a.spec, func() { a.schedulerService.Run(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule status check: %w", err)
	}
	a.cron.Start()
	a.logger.Info("status scheduler started", slog.String("cron", a.spec))

	<-ctx.Done()

	a.logger.Info("shutting down scheduler service")
	<-a.cron.Stop().Done()

	closeResources(a.ch, a.conn, a.logger)
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
	return nil
}
