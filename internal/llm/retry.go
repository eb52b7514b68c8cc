package llm

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v5"
)

// RetryProvider retries transient failures with jittered exponential
// backoff. Rate limits and unavailability are retried up to MaxAttempts;
// a reply that fails format validation is retried once.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Complete(ctx context.Context, pr Prompt) (*Completion, error) {
	formatRetried := false
	op := func() (*Completion, error) {
		c, err := r.inner.Complete(ctx, pr)
		if err == nil {
			return c, nil
		}
		var fe *FormatError
		switch {
		case ctx.Err() != nil, errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, backoff.Permanent(err)
		case errors.As(err, &fe):
			if formatRetried {
				return nil, backoff.Permanent(err)
			}
			formatRetried = true
		}
		return nil, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.config.InitialWait
	b.MaxInterval = r.config.MaxWait
	b.Multiplier = r.config.Multiplier
	b.RandomizationFactor = 0.2

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(max(r.config.MaxAttempts, 1))),
		backoff.WithMaxElapsedTime(0),
	)
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }
