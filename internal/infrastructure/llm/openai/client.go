package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/novacorp/hr-assistant/internal/core/domain"
	"github.com/novacorp/hr-assistant/internal/infrastructure/resilience"
	"github.com/novacorp/hr-assistant/internal/observability/metrics"
)

const defaultCallTimeout = 30 * time.Second

// Client shares one OpenAI API connection between the judgment oracle
// and the embedder. Every outbound call gets its own deadline; an
// unbounded oracle call would stall a workflow run indefinitely.
type Client struct {
	api        *openai.Client
	judgeModel string
	genModel   string
	embedModel openai.EmbeddingModel
	timeout    time.Duration
	executor   *resilience.Executor
	metrics    *metrics.OracleMetrics
}

type Options struct {
	JudgeModel  string
	GenModel    string
	EmbedModel  string
	CallTimeout time.Duration
	Executor    *resilience.Executor
	Metrics     *metrics.OracleMetrics
}

func NewClient(apiKey string, options Options) *Client {
	timeout := options.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	executor := options.Executor
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig())
	}
	return &Client{
		api:        openai.NewClient(apiKey),
		judgeModel: options.JudgeModel,
		genModel:   options.GenModel,
		embedModel: openai.EmbeddingModel(options.EmbedModel),
		timeout:    timeout,
		executor:   executor,
		metrics:    options.Metrics,
	}
}

// NewClientWithBaseURL points the client at a compatible endpoint,
// used by tests and self-hosted gateways.
func NewClientWithBaseURL(apiKey, baseURL string, options Options) *Client {
	client := NewClient(apiKey, options)
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	client.api = openai.NewClientWithConfig(cfg)
	return client
}

func (c *Client) complete(ctx context.Context, capability, model string, prompt string, temperature float32) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	var content string
	err := c.executor.Execute(callCtx, "openai_"+capability, func(ctx context.Context) error {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: temperature,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty completion response")
		}
		content = resp.Choices[0].Message.Content
		return nil
	}, classifyAPIError)

	c.metrics.ObserveCall(capability, time.Since(start), err)
	if err != nil {
		return "", domain.WrapError(domain.ErrTemporary, "openai "+capability, err)
	}
	return content, nil
}

// classifyAPIError marks rate limiting and server-side failures as
// retryable; contract-level rejections are not worth repeating.
func classifyAPIError(err error) resilience.ErrorClassification {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		retryable := apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
		return resilience.ErrorClassification{Retryable: retryable, RecordFailure: true}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
	}
	// Transport-level failures: worth one more try.
	return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
}
