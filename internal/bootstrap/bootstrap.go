package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/novacorp/hr-assistant/internal/config"
	"github.com/novacorp/hr-assistant/internal/core/domain"
	"github.com/novacorp/hr-assistant/internal/core/ports"
	"github.com/novacorp/hr-assistant/internal/core/usecase"
	"github.com/novacorp/hr-assistant/internal/infrastructure/lexical"
	"github.com/novacorp/hr-assistant/internal/infrastructure/llm/openai"
	"github.com/novacorp/hr-assistant/internal/infrastructure/queue/nats"
	"github.com/novacorp/hr-assistant/internal/infrastructure/resilience"
	"github.com/novacorp/hr-assistant/internal/infrastructure/vector/pinecone"
	"github.com/novacorp/hr-assistant/internal/observability/metrics"
)

// App wires the answer workflow and its collaborators for the API
// process. The escalation worker wires its own, smaller graph.
type App struct {
	Config config.Config
	Logger *slog.Logger

	AnswerService ports.AnswerService
	Queue         ports.EscalationQueue

	Registry        *prometheus.Registry
	WorkflowMetrics *metrics.WorkflowMetrics

	closeFn func()
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	policyFile, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, fmt.Errorf("load access policy: %w", err)
	}
	accessPolicy := domain.NewAccessPolicy(policyFile.Sources)

	registry := prometheus.NewRegistry()
	workflowMetrics := metrics.NewWorkflowMetrics(registry, "hr-assistant-api")
	oracleMetrics := metrics.NewOracleMetrics(registry, "hr-assistant-api")

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	llmClient := openai.NewClient(cfg.OpenAIAPIKey, openai.Options{
		JudgeModel:  cfg.OpenAIJudgeModel,
		GenModel:    cfg.OpenAIGenModel,
		EmbedModel:  cfg.OpenAIEmbedModel,
		CallTimeout: time.Duration(cfg.OracleCallTimeout) * time.Second,
		Executor:    executor,
		Metrics:     oracleMetrics,
	})
	oracle := openai.NewOracle(llmClient)
	embedder := openai.NewEmbedder(llmClient)

	denseIndex := pinecone.New(cfg.PineconeIndexHost, cfg.PineconeAPIKey, cfg.EmbeddingDimensions, accessPolicy)
	lexicalIndex := lexical.NewIndex(denseIndex, accessPolicy, cfg.LexicalCacheDir, cfg.CorpusVersion, logger)

	fusion := usecase.NewFusionEngine(embedder, cfg.FusionRRFK, cfg.FusionTopN)
	retriever := usecase.NewHybridRetriever(embedder, denseIndex, lexicalIndex, fusion, cfg.RetrievalTopK)
	escalationPolicy := usecase.NewEscalationPolicy(policyFile.SensitiveKeywords)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init escalation queue: %w", err)
	}

	workflow := usecase.NewWorkflow(accessPolicy, retriever, oracle, escalationPolicy, queue, logger,
		usecase.WithWorkflowMetrics(workflowMetrics))

	return &App{
		Config: cfg,
		Logger: logger,

		AnswerService: workflow,
		Queue:         queue,

		Registry:        registry,
		WorkflowMetrics: workflowMetrics,

		closeFn: func() {
			queue.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
