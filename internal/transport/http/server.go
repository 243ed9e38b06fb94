package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"veridoc/internal/agent"
	"veridoc/internal/bootstrap"
	"veridoc/internal/cache"
	"veridoc/internal/docproc"
	"veridoc/internal/orchestrator"
	"veridoc/internal/platform/rabbitmq"
	"veridoc/internal/repository"
	"veridoc/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	cfg := app.Config
	retryOpts := func(model string, temperature float64) agent.Options {
		return agent.Options{
			Model:       model,
			Temperature: temperature,
			MaxRetries:  cfg.Agent.MaxRetries,
		}
	}

	classifier := agent.NewImageClassifier(app.LLMClient, cfg.LLM.BaseURL, cfg.LLM.APIKey,
		retryOpts(cfg.LLM.ImageAnalysisModel, 0.1))
	generator := agent.NewGenerator(app.LLMClient, cfg.LLM.BaseURL, cfg.LLM.APIKey,
		retryOpts(cfg.LLM.PrimaryModel, 0.1))
	verifier := agent.NewVerifier(app.LLMClient, cfg.LLM.BaseURL, cfg.LLM.APIKey,
		cfg.Agent.ConfidenceThreshold, retryOpts(cfg.LLM.VerificationModel, 0.0))

	docRepo := repository.NewDocumentRepository(app.MySQL)
	interactionRepo := repository.NewInteractionRepository(app.MySQL)
	interactionPublisher := rabbitmq.NewInteractionPublisher(app.MQConn, cfg.RabbitMQ.InteractionPersistQueue)
	answerCache := cache.NewAnswerCache(app.Redis, time.Duration(cfg.Redis.AnswerTTLSeconds)*time.Second)

	orch := orchestrator.New(
		docproc.NewProcessor(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap),
		app.Index,
		classifier,
		generator,
		verifier,
		docRepo,
		interactionPublisher,
		answerCache,
	)

	documentsHandler := handler.NewDocumentsHandler(orch, docRepo, cfg.Storage)
	queryHandler := handler.NewQueryHandler(orch, interactionRepo)

	v1 := router.Group("/api/v1")
	v1.POST("/documents", documentsHandler.Upload)
	v1.GET("/documents", documentsHandler.List)
	v1.POST("/query", queryHandler.Ask)
	v1.GET("/interactions", queryHandler.RecentInteractions)

	return router
}
