package ai

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"sitegen_server/internal/logger"
	"sitegen_server/internal/metrics"
)

// RetryPolicy bounds automatic retries. Requests whose MaxTokens exceed
// SizeThreshold are attempted exactly once.
type RetryPolicy struct {
	MaxAttempts   int
	SizeThreshold int
	Backoff       time.Duration
}

// DefaultRetryPolicy allows two attempts for small calls.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   2,
		SizeThreshold: 3000,
		Backoff:       2 * time.Second,
	}
}

// AttemptsFor returns how many attempts a request of maxTokens may use.
func (p RetryPolicy) AttemptsFor(maxTokens int) int {
	if p.SizeThreshold > 0 && maxTokens > p.SizeThreshold {
		return 1
	}
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// RetryingClient applies a RetryPolicy around another Completer.
type RetryingClient struct {
	inner  Completer
	policy RetryPolicy
	logger *zap.Logger
}

func NewRetryingClient(inner Completer, policy RetryPolicy, log *zap.Logger) *RetryingClient {
	return &RetryingClient{
		inner:  inner,
		policy: policy,
		logger: logger.OrNop(log),
	}
}

// Policy returns the configured retry policy.
func (c *RetryingClient) Policy() RetryPolicy { return c.policy }

func (c *RetryingClient) Complete(ctx context.Context, req Request) (string, error) {
	attempts := c.policy.AttemptsFor(req.MaxTokens)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			backoff := c.policy.Backoff * time.Duration(1<<(attempt-2))
			c.logger.Info("retrying completion",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", Classify(ctx.Err())
			}
		}

		text, err := c.inner.Complete(ctx, req)
		if err == nil {
			metrics.CompletionAttempts.WithLabelValues("none").Inc()
			return text, nil
		}
		lastErr = Classify(err)
		metrics.CompletionAttempts.WithLabelValues(string(KindOf(lastErr))).Inc()

		var ce *Error
		if errors.As(lastErr, &ce) && !ce.Retryable() {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}
