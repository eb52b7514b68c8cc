package llm

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/abhisek/gainbrain/internal/logger"
	"github.com/abhisek/gainbrain/internal/store"
)

const eventWriteTimeout = 5 * time.Second

// LoggingProvider records every call in the LLM request event log.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
	log      *logger.Logger
}

// WithLogging wraps p so each call is stored under the given provider
// name. Event-store failures are logged, never returned.
func WithLogging(p Provider, provider string, events store.EventRepo, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{inner: p, provider: provider, events: events, log: log}
}

func (l *LoggingProvider) Complete(ctx context.Context, pr Prompt) (*Completion, error) {
	start := time.Now()
	c, err := l.inner.Complete(ctx, pr)
	elapsed := time.Since(start)

	info := infoFrom(ctx)
	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		Username:    info.user,
		LatencyMs:   elapsed.Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(pr),
	}
	if c != nil {
		ev.Model = c.Model
		ev.InputTokens = c.Usage.InputTokens
		ev.OutputTokens = c.Usage.OutputTokens
		ev.ResponseBody = c.Text
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	l.log.Debug("llm call",
		"purpose", ev.Purpose,
		"user", ev.Username,
		"model", ev.Model,
		"latency_ms", ev.LatencyMs,
		"success", ev.Success,
	)

	// The caller's context may already be cancelled; the write still happens.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventWriteTimeout)
	defer cancel()
	if werr := l.events.AppendLLMRequest(wctx, ev); werr != nil {
		l.log.Warn("record llm call", "error", werr)
	}
	return c, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

// transcript renders a prompt for the event log.
func transcript(pr Prompt) string {
	var b strings.Builder
	if pr.System != "" {
		b.WriteString("[system]\n" + pr.System + "\n\n")
	}
	b.WriteString("[user]\n" + pr.User + "\n")
	if pr.Format != nil {
		if schema, err := json.Marshal(pr.Format.Schema); err == nil {
			b.WriteString("\n[format " + pr.Format.Name + "]\n" + string(schema) + "\n")
		}
	}
	return b.String()
}
