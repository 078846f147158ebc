package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"ThinkWhy/internal/config"
)

// OpenAIGenerator talks to any OpenAI-compatible chat completions endpoint.
// The default configuration points it at Gemini's compatibility layer.
type OpenAIGenerator struct {
	client   openai.Client
	model    string
	logger   *slog.Logger
	tracer   trace.Tracer
	duration metric.Float64Histogram
}

// NewOpenAIGenerator builds a generator from cfg. A missing API key is not an
// error: requests are still attempted and fail at the service.
func NewOpenAIGenerator(cfg config.LLMConfig, logger *slog.Logger, tracer trace.Tracer, meter metric.Meter) (*OpenAIGenerator, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	histogram, err := meter.Float64Histogram(
		"llm.request.duration",
		metric.WithDescription("Text generation request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram: %w", err)
	}

	return &OpenAIGenerator{
		client:   openai.NewClient(opts...),
		model:    cfg.Model,
		logger:   logger,
		tracer:   tracer,
		duration: histogram,
	}, nil
}

// Generate sends prompt as a single user message and returns the first choice
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := g.tracer.Start(ctx, "llm_generate", trace.WithAttributes(
		attribute.String("llm.model", g.model),
		attribute.Int("llm.prompt_chars", len(prompt)),
	))
	defer span.End()

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	elapsed := time.Since(start)
	g.duration.Record(ctx, float64(elapsed.Milliseconds()), metric.WithAttributes(
		attribute.String("llm.model", g.model),
		attribute.Bool("error", err != nil),
	))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		g.logger.Error("text generation failed", "model", g.model, "duration_ms", elapsed.Milliseconds(), "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		err := fmt.Errorf("empty response from %s", g.model)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetAttributes(
		attribute.Int64("llm.usage.prompt_tokens", resp.Usage.PromptTokens),
		attribute.Int64("llm.usage.completion_tokens", resp.Usage.CompletionTokens),
	)
	g.logger.Info("text generated", "model", g.model, "duration_ms", elapsed.Milliseconds(),
		"completion_tokens", resp.Usage.CompletionTokens)
	return resp.Choices[0].Message.Content, nil
}
