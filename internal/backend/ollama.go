package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"ThinkWhy/internal/config"
)

// OllamaRequest represents the request body for Ollama API
type OllamaRequest struct {
	Model    string              `json:"model"`
	Messages []map[string]string `json:"messages"`
	Stream   bool                `json:"stream"`
}

// OllamaResponse represents the response from Ollama API
type OllamaResponse struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Message   struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// OllamaTagsResponse represents the response from Ollama /api/tags endpoint
type OllamaTagsResponse struct {
	Models []OllamaModel `json:"models"`
}

// OllamaModel represents a single model in the Ollama tags response
type OllamaModel struct {
	Name       string `json:"name"`
	ModifiedAt string `json:"modified_at"`
	Size       int64  `json:"size"`
	Digest     string `json:"digest"`
}

type ollamaClient struct {
	baseURL    string
	httpClient *http.Client
}

func newOllamaClient(cfg config.LLMConfig) *ollamaClient {
	baseURL := strings.TrimRight(cfg.OllamaURL, "/")
	if baseURL == "" {
		baseURL = config.DefaultOllamaURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ollamaClient{baseURL: baseURL, httpClient: &http.Client{Timeout: timeout}}
}

// BaseURL returns the server address requests are sent to
func (c *ollamaClient) BaseURL() string {
	return c.baseURL
}

// OllamaLister lists the models of an Ollama server. Unlike OllamaGenerator
// it needs no model configured.
type OllamaLister struct {
	*ollamaClient
}

// NewOllamaLister creates a lister for the server at cfg.OllamaURL
func NewOllamaLister(cfg config.LLMConfig) *OllamaLister {
	return &OllamaLister{ollamaClient: newOllamaClient(cfg)}
}

// OllamaGenerator generates text with a local Ollama server
type OllamaGenerator struct {
	*ollamaClient
	model    string
	logger   *slog.Logger
	tracer   trace.Tracer
	duration metric.Float64Histogram
}

// NewOllamaGenerator builds a generator for the server at cfg.OllamaURL
func NewOllamaGenerator(cfg config.LLMConfig, logger *slog.Logger, tracer trace.Tracer, meter metric.Meter) (*OllamaGenerator, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}

	histogram, err := meter.Float64Histogram(
		"llm.request.duration",
		metric.WithDescription("Text generation request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram: %w", err)
	}

	return &OllamaGenerator{
		ollamaClient: newOllamaClient(cfg),
		model:        cfg.Model,
		logger:       logger,
		tracer:       tracer,
		duration:     histogram,
	}, nil
}

// Generate sends prompt as a single user message to /api/chat
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := g.tracer.Start(ctx, "ollama_generate", trace.WithAttributes(
		attribute.String("llm.model", g.model),
		attribute.Int("llm.prompt_chars", len(prompt)),
	))
	defer span.End()

	start := time.Now()
	reqBody := OllamaRequest{
		Model:    g.model,
		Messages: []map[string]string{{"role": "user", "content": prompt}},
		Stream:   false,
	}
	var apiResp OllamaResponse
	err := g.do(ctx, http.MethodPost, "/api/chat", reqBody, &apiResp)
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
	if apiResp.Message.Content == "" {
		err := fmt.Errorf("empty response from %s", g.model)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	g.logger.Info("text generated", "model", g.model, "duration_ms", elapsed.Milliseconds())
	return apiResp.Message.Content, nil
}

// ListModels returns the models installed on the Ollama server
func (c *ollamaClient) ListModels(ctx context.Context) ([]OllamaModel, error) {
	var tagsResp OllamaTagsResponse
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, &tagsResp); err != nil {
		return nil, fmt.Errorf("failed to list models (is Ollama running?): %w", err)
	}
	return tagsResp.Models, nil
}

func (c *ollamaClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("content-type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error: %s - %s", resp.Status, string(respBody))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
