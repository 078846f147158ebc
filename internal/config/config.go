package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultModel     = "gemini-2.0-flash"
	DefaultBaseURL   = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultOllamaURL = "http://localhost:11434"

	// Text generation providers
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"

	// Environment variables consulted by ApplyEnv, in order of precedence
	EnvAPIKey       = "THINKWHY_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvBaseURL      = "THINKWHY_BASE_URL"
	EnvModel        = "THINKWHY_MODEL"
	EnvProvider     = "THINKWHY_PROVIDER"
)

// Config holds application configuration
type Config struct {
	Debug  bool   `toml:"debug"`
	LogDir string `toml:"log_dir"`

	// Text generation service: an OpenAI-compatible endpoint or a local Ollama server
	LLM LLMConfig `toml:"llm"`

	// ArchivePath is the SQLite transcript archive; empty disables archiving
	ArchivePath string `toml:"archive_path"`

	News NewsConfig `toml:"news"`
}

// LLMConfig configures the text generation backend
type LLMConfig struct {
	// Provider is ProviderOpenAI (default) or ProviderOllama
	Provider   string        `toml:"provider"`
	Model      string        `toml:"model"`
	BaseURL    string        `toml:"base_url"`
	APIKey     string        `toml:"api_key"`
	Timeout    time.Duration `toml:"timeout"`
	MaxRetries int           `toml:"max_retries"`
	OllamaURL  string        `toml:"ollama_url"`
}

// NewsConfig configures the news search utility
type NewsConfig struct {
	BaseURL  string        `toml:"base_url"`
	Timeout  time.Duration `toml:"timeout"`
	CacheTTL time.Duration `toml:"cache_ttl"`
}

// Default returns the configuration used when nothing else is provided
func Default() Config {
	return Config{
		LogDir: "logs",
		LLM: LLMConfig{
			Provider:   ProviderOpenAI,
			Model:      DefaultModel,
			BaseURL:    DefaultBaseURL,
			Timeout:    60 * time.Second,
			MaxRetries: 2,
			OllamaURL:  DefaultOllamaURL,
		},
		ArchivePath: "thinkwhy.db",
		News: NewsConfig{
			BaseURL:  "https://duckduckgo.com",
			Timeout:  30 * time.Second,
			CacheTTL: 5 * time.Minute,
		},
	}
}

// Load returns Default overlaid by the TOML file at path (if any) and the environment
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// ApplyEnv overlays environment values onto cfg
func (c *Config) ApplyEnv(getenv func(string) string) {
	if c.LLM.APIKey == "" {
		for _, name := range []string{EnvAPIKey, EnvGeminiAPIKey} {
			if v := strings.TrimSpace(getenv(name)); v != "" {
				c.LLM.APIKey = v
				break
			}
		}
	}
	if v := strings.TrimSpace(getenv(EnvBaseURL)); v != "" {
		c.LLM.BaseURL = v
	}
	if v := strings.TrimSpace(getenv(EnvModel)); v != "" {
		c.LLM.Model = v
	}
	if v := strings.TrimSpace(getenv(EnvProvider)); v != "" {
		c.LLM.Provider = strings.ToLower(v)
	}
}

// MissingCredential reports whether the configured provider needs an API key
// and none is set. A local Ollama server needs none.
func (c Config) MissingCredential() bool {
	if c.LLM.Provider == ProviderOllama {
		return false
	}
	return strings.TrimSpace(c.LLM.APIKey) == ""
}
