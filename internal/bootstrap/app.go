package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"veridoc/internal/ai"
	"veridoc/internal/config"
	"veridoc/internal/index"
	"veridoc/internal/model"
	mysqlClient "veridoc/internal/platform/mysql"
	rabbitmqClient "veridoc/internal/platform/rabbitmq"
	redisClient "veridoc/internal/platform/redis"
	"veridoc/internal/repository"
	"veridoc/internal/worker"
)

type App struct {
	Config            *config.Config
	MySQL             *gorm.DB
	Redis             *redis.Client
	MQConn            *amqp.Connection
	InteractionWorker *worker.InteractionPersistWorker

	LLMClient *ai.OpenAICompatibleClient
	Index     *index.VectorIndex

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.DocumentRecord{}, &model.Interaction{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	interactionRepo := repository.NewInteractionRepository(mysqlDB)
	interactionWorker := worker.NewInteractionPersistWorker(mqConn, interactionRepo, cfg.RabbitMQ.InteractionPersistQueue)
	if err := interactionWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start interaction worker failed: %w", err)
	}

	if err := os.MkdirAll(cfg.Storage.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir failed: %w", err)
	}

	llmClient := ai.NewOpenAICompatibleClient()
	vectorIndex, err := index.New(llmClient, ai.EmbeddingConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.EmbeddingModel,
	}, cfg.Index.Dimension, cfg.Index.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open vector index failed: %w", err)
	}

	return &App{
		Config:            cfg,
		MySQL:             mysqlDB,
		Redis:             redisCli,
		MQConn:            mqConn,
		InteractionWorker: interactionWorker,
		LLMClient:         llmClient,
		Index:             vectorIndex,
		StartedAt:         time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.InteractionWorker != nil {
		a.InteractionWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
