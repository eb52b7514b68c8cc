package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted by GAINBRAIN_LLM_PROVIDER.
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures the model vendor.
type Config struct {
	Provider string

	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type AnthropicConfig struct {
	APIKey string
	Model  string // full ID or "claude-haiku" / "claude-sonnet"
}

type GeminiConfig struct {
	APIKey  string
	Model   string // full ID or "gemini-flash" / "gemini-pro"
	BaseURL string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig bounds retries of transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig uses gpt-4o-mini, the model the quiz prompts were tuned on.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderOpenAI,
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "openai/gpt-4o-mini"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     8 * time.Second,
			Multiplier:  2,
		},
	}
}

// vendor wires one provider's settings to its environment variables.
type vendor struct {
	name      string
	wellKnown string // key variable set by the vendor's own tooling
	key       func(*Config) *string
	model     func(*Config) *string
	baseURL   func(*Config) *string
}

// vendors is in DiscoverConfig priority order.
var vendors = []vendor{
	{
		name: ProviderOpenAI, wellKnown: "OPENAI_API_KEY",
		key:     func(c *Config) *string { return &c.OpenAI.APIKey },
		model:   func(c *Config) *string { return &c.OpenAI.Model },
		baseURL: func(c *Config) *string { return &c.OpenAI.BaseURL },
	},
	{
		name: ProviderGemini, wellKnown: "GEMINI_API_KEY",
		key:     func(c *Config) *string { return &c.Gemini.APIKey },
		model:   func(c *Config) *string { return &c.Gemini.Model },
		baseURL: func(c *Config) *string { return &c.Gemini.BaseURL },
	},
	{
		name: ProviderAnthropic, wellKnown: "ANTHROPIC_API_KEY",
		key:   func(c *Config) *string { return &c.Anthropic.APIKey },
		model: func(c *Config) *string { return &c.Anthropic.Model },
	},
	{
		name: ProviderOpenRouter, wellKnown: "OPENROUTER_API_KEY",
		key:     func(c *Config) *string { return &c.OpenRouter.APIKey },
		model:   func(c *Config) *string { return &c.OpenRouter.Model },
		baseURL: func(c *Config) *string { return &c.OpenRouter.BaseURL },
	},
}

func envName(v vendor, suffix string) string {
	return "GAINBRAIN_" + strings.ToUpper(v.name) + "_" + suffix
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// ConfigFromEnv reads GAINBRAIN_LLM_PROVIDER and the
// GAINBRAIN_<PROVIDER>_{API_KEY,MODEL,BASE_URL} variables over the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	setFromEnv(&cfg.Provider, "GAINBRAIN_LLM_PROVIDER")
	for _, v := range vendors {
		setFromEnv(v.key(&cfg), envName(v, "API_KEY"))
		setFromEnv(v.model(&cfg), envName(v, "MODEL"))
		if v.baseURL != nil {
			setFromEnv(v.baseURL(&cfg), envName(v, "BASE_URL"))
		}
	}
	return cfg
}

// DiscoverConfig picks the first vendor whose well-known key variable is
// set. It reports false when none is.
func DiscoverConfig() (Config, bool) {
	for _, v := range vendors {
		if k := os.Getenv(v.wellKnown); k != "" {
			cfg := DefaultConfig()
			cfg.Provider = v.name
			*v.key(&cfg) = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider is known and has a key.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	for _, v := range vendors {
		if v.name != c.Provider {
			continue
		}
		if *v.key(&c) == "" {
			return fmt.Errorf("%s is required for the %s provider", envName(v, "API_KEY"), v.name)
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider: %q", c.Provider)
}
