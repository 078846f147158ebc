package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"ThinkWhy/internal/config"
)

func newTestOllama(t *testing.T, url string) *OllamaGenerator {
	t.Helper()
	g, err := NewOllamaGenerator(config.LLMConfig{
		Provider:  config.ProviderOllama,
		Model:     "llama3:latest",
		OllamaURL: url + "/",
		Timeout:   5 * time.Second,
	}, testLogger(), tracenoop.NewTracerProvider().Tracer("test"), metricnoop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	return g
}

func TestOllamaGenerate(t *testing.T) {
	var got OllamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"model": "llama3:latest", "message": {"role": "assistant", "content": "Optimized #local"}, "done": true}`)
	}))
	defer srv.Close()

	out, err := newTestOllama(t, srv.URL).Generate(context.Background(), "rewrite this")
	require.NoError(t, err)
	require.Equal(t, "Optimized #local", out)
	require.Equal(t, "llama3:latest", got.Model)
	require.False(t, got.Stream)
	require.Equal(t, []map[string]string{{"role": "user", "content": "rewrite this"}}, got.Messages)
}

func TestOllamaGenerate_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "model not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestOllama(t, srv.URL).Generate(context.Background(), "rewrite this")
	require.ErrorContains(t, err, "model not found")

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"message": {"role": "assistant", "content": ""}, "done": true}`)
	}))
	defer empty.Close()

	_, err = newTestOllama(t, empty.URL).Generate(context.Background(), "rewrite this")
	require.ErrorContains(t, err, "empty response")
}

func TestOllamaListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		_, _ = io.WriteString(w, `{"models": [{"name": "llama3:latest", "size": 4661224676}, {"name": "mistral:7b", "size": 4109865159}]}`)
	}))
	defer srv.Close()

	models, err := newTestOllama(t, srv.URL).ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	require.Equal(t, "llama3:latest", models[0].Name)
	require.Equal(t, int64(4661224676), models[0].Size)
}

func TestNew_SelectsProvider(t *testing.T) {
	tracer := tracenoop.NewTracerProvider().Tracer("test")
	meter := metricnoop.NewMeterProvider().Meter("test")

	g, err := New(config.LLMConfig{Model: "m"}, testLogger(), tracer, meter)
	require.NoError(t, err)
	require.IsType(t, &OpenAIGenerator{}, g)

	g, err = New(config.LLMConfig{Provider: config.ProviderOllama, Model: "m"}, testLogger(), tracer, meter)
	require.NoError(t, err)
	require.IsType(t, &OllamaGenerator{}, g)
	require.Equal(t, config.DefaultOllamaURL, g.(*OllamaGenerator).baseURL)

	_, err = New(config.LLMConfig{Provider: "bard", Model: "m"}, testLogger(), tracer, meter)
	require.ErrorContains(t, err, "unknown llm provider")

	g, err = New(config.LLMConfig{Provider: config.ProviderOllama}, testLogger(), tracer, meter)
	require.Error(t, err)
	require.Nil(t, g)
}

func TestOllamaLister_NeedsNoModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		_, _ = io.WriteString(w, `{"models": [{"name": "phi3:mini", "size": 2176178913}]}`)
	}))
	defer srv.Close()

	lister := NewOllamaLister(config.LLMConfig{OllamaURL: srv.URL + "/"})
	require.Equal(t, srv.URL, lister.BaseURL())
	models, err := lister.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	require.Equal(t, "phi3:mini", models[0].Name)

	require.Equal(t, config.DefaultOllamaURL, NewOllamaLister(config.LLMConfig{}).BaseURL())
}
