package backend

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"ThinkWhy/internal/config"
)

// Generator turns a single instruction payload into generated text
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var (
	_ Generator = (*OpenAIGenerator)(nil)
	_ Generator = (*OllamaGenerator)(nil)
)

// New returns the generator for cfg.Provider
func New(cfg config.LLMConfig, logger *slog.Logger, tracer trace.Tracer, meter metric.Meter) (Generator, error) {
	switch cfg.Provider {
	case "", config.ProviderOpenAI:
		g, err := NewOpenAIGenerator(cfg, logger, tracer, meter)
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.ProviderOllama:
		g, err := NewOllamaGenerator(cfg, logger, tracer, meter)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s (want %s or %s)", cfg.Provider, config.ProviderOpenAI, config.ProviderOllama)
	}
}
