package llm

import (
	"context"
	"errors"
	"time"

	"github.com/madan-d/classmos/internal/backoff"
)

// RetryProvider retries failed quiz and course requests under a backoff
// policy. A response that fails its schema is asked for once more; outages
// and rate limits are retried until the policy runs out.
type RetryProvider struct {
	inner  Provider
	policy RetryConfig
}

// WithRetry wraps p with retries governed by policy.
func WithRetry(p Provider, policy RetryConfig) Provider {
	return &RetryProvider{inner: p, policy: policy}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := r.policy.Attempts()
	rejected := false

	var err error
	for attempt := range attempts {
		var resp *Response
		if resp, err = r.inner.Generate(ctx, req); err == nil {
			return resp, nil
		}

		switch classifyError(err) {
		case errFatal:
			return nil, err
		case errRetryOnce:
			if rejected {
				return nil, err
			}
			rejected = true
		}

		if attempt == attempts-1 {
			break
		}
		if serr := backoff.Sleep(ctx, r.wait(attempt, err)); serr != nil {
			return nil, serr
		}
	}
	return nil, err
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// wait honours a provider's Retry-After before falling back to the policy.
func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	return r.policy.Delay(attempt)
}
