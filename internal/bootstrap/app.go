package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mediaitor/internal/cache"
	"mediaitor/internal/config"
	"mediaitor/internal/model"
	"mediaitor/internal/pkg/logger"
	mysqlClient "mediaitor/internal/platform/mysql"
	postgresClient "mediaitor/internal/platform/postgres"
	rabbitmqClient "mediaitor/internal/platform/rabbitmq"
	redisClient "mediaitor/internal/platform/redis"
	"mediaitor/internal/repository"
	"mediaitor/internal/worker"
)

// App owns every process-wide resource. The database handle is opened once
// here and shared by all requests.
type App struct {
	Config        *config.Config
	Log           *zap.Logger
	DB            *gorm.DB
	Redis         *redis.Client
	MQConn        *amqp.Connection
	HistoryCache  *cache.HistoryCache
	MessageWorker *worker.MessagePersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	log, err := logger.New(cfg.App.Env, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("build logger failed: %w", err)
	}

	app := &App{Config: cfg, Log: log}
	if err := app.open(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	app.StartedAt = time.Now()
	return app, nil
}

func (a *App) open(ctx context.Context) error {
	db, err := openDatabase(ctx, a.Config)
	if err != nil {
		return err
	}
	a.DB = db
	if err := a.DB.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}
	a.Log.Info("database ready", zap.String("driver", a.Config.Database.Driver))

	a.Redis, err = redisClient.New(ctx, a.Config.Redis)
	if err != nil {
		return err
	}

	a.HistoryCache = cache.NewHistoryCache(
		a.Redis,
		time.Duration(a.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(a.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)

	a.MQConn, err = rabbitmqClient.New(ctx, a.Config.RabbitMQ.URL)
	if err != nil {
		return err
	}

	messageRepo := repository.NewMessageRepository(a.DB)
	a.MessageWorker = worker.NewMessagePersistWorker(a.MQConn, messageRepo, a.HistoryCache, a.Config.RabbitMQ.MessagePersistQueue, a.Log)
	if err := a.MessageWorker.Start(ctx); err != nil {
		return fmt.Errorf("start message worker failed: %w", err)
	}
	return nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return postgresClient.New(ctx, cfg.PostgresDSN())
	default:
		return mysqlClient.New(ctx, cfg.MySQLDSN())
	}
}

func (a *App) Close() error {
	var closeErr error
	if a.MessageWorker != nil {
		a.MessageWorker.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	if a.Log != nil {
		_ = a.Log.Sync()
	}
	return closeErr
}
