package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/gainbrain/internal/logger"
	"github.com/abhisek/gainbrain/internal/store"
)

// NewProvider builds the configured vendor provider behind retries and,
// when eventRepo is non-nil, the request event log. log may be nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → retry → logging → vendor, so every attempt is recorded.
	p := base
	if eventRepo != nil {
		p = WithLogging(base, cfg.Provider, eventRepo, log)
	}
	return WithRetry(p, cfg.Retry), nil
}

// ResolveConfig returns the explicit GAINBRAIN_* configuration when a
// provider key is set, otherwise the first well-known vendor key found.
func ResolveConfig() (Config, error) {
	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err == nil {
		return cfg, nil
	}
	if discovered, ok := DiscoverConfig(); ok {
		return discovered, nil
	}
	return Config{}, cfg.Validate()
}

// NewProviderFromEnv resolves configuration from the environment and
// builds a provider.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo, log *logger.Logger) (Provider, Config, error) {
	cfg, err := ResolveConfig()
	if err != nil {
		return nil, Config{}, err
	}
	p, err := NewProvider(ctx, cfg, eventRepo, log)
	if err != nil {
		return nil, Config{}, err
	}
	return p, cfg, nil
}
