package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/abhisek/gainbrain/internal/store"
)

// memEventRepo is an in-memory store.EventRepo for decorator tests.
type memEventRepo struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (m *memEventRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, data)
	return nil
}

func (m *memEventRepo) QueryLLMEvents(context.Context, store.QueryOpts) ([]store.LLMEvent, error) {
	return nil, nil
}

func (m *memEventRepo) GetLLMEvent(context.Context, int) (*store.LLMEvent, error) {
	return nil, nil
}

func (m *memEventRepo) LLMUsageByPurpose(context.Context) ([]store.PurposeUsage, error) {
	return nil, nil
}

func (m *memEventRepo) LLMUsageByModel(context.Context) ([]store.ModelUsage, error) {
	return nil, nil
}

func TestLogging_RecordsSuccess(t *testing.T) {
	repo := &memEventRepo{}
	mock := NewMockProvider(MockReply{
		Text:  "QUESTION: What is ATP?",
		Usage: Usage{InputTokens: 12, OutputTokens: 7},
	})
	p := WithLogging(mock, ProviderOpenAI, repo, nil)

	ctx := WithUser(WithPurpose(context.Background(), "question-gen"), "alice")
	c, err := p.Complete(ctx, Prompt{
		System: "You are a quiz bot.",
		User:   "Ask me a question.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Text != "QUESTION: What is ATP?" {
		t.Fatalf("unexpected text: %s", c.Text)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	e := repo.events[0]
	if e.Purpose != "question-gen" || e.Username != "alice" {
		t.Errorf("purpose/user = %q/%q", e.Purpose, e.Username)
	}
	if e.Provider != "openai" || e.Model != "mock" {
		t.Errorf("provider/model = %q/%q", e.Provider, e.Model)
	}
	if !e.Success || e.ErrorMessage != "" {
		t.Errorf("expected success without error message, got %+v", e)
	}
	if e.InputTokens != 12 || e.OutputTokens != 7 {
		t.Errorf("tokens = %d/%d, want 12/7", e.InputTokens, e.OutputTokens)
	}
	if !strings.Contains(e.RequestBody, "[system]\nYou are a quiz bot.") {
		t.Errorf("request body missing system prompt: %q", e.RequestBody)
	}
	if !strings.Contains(e.RequestBody, "[user]\nAsk me a question.") {
		t.Errorf("request body missing user turn: %q", e.RequestBody)
	}
	if strings.Contains(e.RequestBody, "[format") {
		t.Errorf("plain prompt should not record a format: %q", e.RequestBody)
	}
	if e.ResponseBody != "QUESTION: What is ATP?" {
		t.Errorf("response body = %q", e.ResponseBody)
	}
}

func TestLogging_RecordsFormat(t *testing.T) {
	repo := &memEventRepo{}
	mock := NewMockProvider(Reply(`{"score":7,"correct_answer":"ATP","next_question":"Where is it made?"}`))
	p := WithLogging(mock, ProviderGemini, repo, nil)

	if _, err := p.Complete(context.Background(), Prompt{User: "fix this", Format: testFormat()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(repo.events[0].RequestBody, "[format answer-evaluation]\n{") {
		t.Errorf("request body missing format: %q", repo.events[0].RequestBody)
	}
}

func TestLogging_RecordsFailure(t *testing.T) {
	repo := &memEventRepo{}
	mock := NewMockProvider(Fail(&RateLimitError{Err: errors.New("429")}))
	p := WithLogging(mock, ProviderAnthropic, repo, nil)

	_, err := p.Complete(context.Background(), Prompt{User: "Chlorophyll"})
	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	e := repo.events[0]
	if e.Success {
		t.Error("expected failed event")
	}
	if e.Purpose != "unknown" || e.Username != "" {
		t.Errorf("purpose/user = %q/%q", e.Purpose, e.Username)
	}
	if e.Model != "mock" {
		t.Errorf("model = %q, want the provider's model id", e.Model)
	}
	if e.ErrorMessage == "" {
		t.Error("expected error message to be recorded")
	}
}

func TestLogging_RepoFailureDoesNotFailRequest(t *testing.T) {
	repo := &memEventRepo{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(Reply("ok")), ProviderOpenAI, repo, nil)

	if _, err := p.Complete(context.Background(), Prompt{User: "hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLogging_CancelledCallerStillRecorded(t *testing.T) {
	repo := &memEventRepo{}
	p := WithLogging(NewMockProvider(Fail(context.Canceled)), ProviderOpenAI, repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Complete(ctx, Prompt{User: "hi"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected the cancelled call to be recorded, got %d events", len(repo.events))
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("model = %q, want mock", p.ModelID())
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: "nope"}, nil, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderAnthropic
	if _, err := NewProvider(context.Background(), cfg, nil, nil); err == nil {
		t.Fatal("expected error without an API key")
	}
}

func TestNewProvider_OpenRouterWrapped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenRouter
	cfg.OpenRouter.APIKey = "sk-or-test"

	p, err := NewProvider(context.Background(), cfg, &memEventRepo{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rp, ok := p.(*RetryProvider)
	if !ok {
		t.Fatalf("expected retry wrapper, got %T", p)
	}
	if _, ok := rp.inner.(*LoggingProvider); !ok {
		t.Fatalf("expected logging inside retry, got %T", rp.inner)
	}
	if p.ModelID() != "openai/gpt-4o-mini" {
		t.Fatalf("model = %q", p.ModelID())
	}
}

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GAINBRAIN_LLM_PROVIDER",
		"GAINBRAIN_ANTHROPIC_API_KEY", "GAINBRAIN_OPENAI_API_KEY",
		"GAINBRAIN_GEMINI_API_KEY", "GAINBRAIN_OPENROUTER_API_KEY",
		"GAINBRAIN_OPENAI_MODEL", "GAINBRAIN_GEMINI_BASE_URL",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestResolveConfig(t *testing.T) {
	t.Run("explicit provider wins", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("GAINBRAIN_LLM_PROVIDER", "anthropic")
		t.Setenv("GAINBRAIN_ANTHROPIC_API_KEY", "sk-ant")
		t.Setenv("OPENAI_API_KEY", "sk-openai")

		cfg, err := ResolveConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Provider != ProviderAnthropic || cfg.Anthropic.APIKey != "sk-ant" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
	})

	t.Run("model and base url overrides", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("GAINBRAIN_OPENAI_API_KEY", "sk")
		t.Setenv("GAINBRAIN_OPENAI_MODEL", "gpt-4.1-mini")
		t.Setenv("GAINBRAIN_GEMINI_BASE_URL", "http://localhost:9999")

		cfg, err := ResolveConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.OpenAI.Model != "gpt-4.1-mini" || cfg.Gemini.BaseURL != "http://localhost:9999" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
	})

	t.Run("discovery prefers openai over gemini", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("GEMINI_API_KEY", "g-key")
		t.Setenv("OPENAI_API_KEY", "sk-openai")

		cfg, err := ResolveConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "sk-openai" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
	})

	t.Run("discovers openrouter last", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("OPENROUTER_API_KEY", "or")

		cfg, err := ResolveConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Provider != ProviderOpenRouter || cfg.OpenRouter.Model != "openai/gpt-4o-mini" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		clearLLMEnv(t)
		_, err := ResolveConfig()
		if err == nil || !strings.Contains(err.Error(), "GAINBRAIN_OPENAI_API_KEY") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("GAINBRAIN_LLM_PROVIDER", "llama")
		if _, err := ResolveConfig(); err == nil || !strings.Contains(err.Error(), "unknown") {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestCallInfo(t *testing.T) {
	ctx := context.Background()
	if PurposeFrom(ctx) != "unknown" || UserFrom(ctx) != "" {
		t.Fatal("empty context should report defaults")
	}
	ctx = WithPurpose(WithUser(ctx, "bob"), "answer-eval")
	if PurposeFrom(ctx) != "answer-eval" || UserFrom(ctx) != "bob" {
		t.Fatalf("got %q/%q", PurposeFrom(ctx), UserFrom(ctx))
	}
}
