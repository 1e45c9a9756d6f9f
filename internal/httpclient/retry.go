package httpclient

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// RetryPolicy configures exponential backoff for idempotent-safe requests.
// Transport errors are always retryable; responses only when their status is listed.
type RetryPolicy struct {
	MaxRetries  int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
	StatusCodes []int
}

type retrier struct {
	policy    RetryPolicy
	retryable map[int]struct{}
	logger    zerolog.Logger
	now       func() time.Time
}

func newRetrier(policy RetryPolicy, logger zerolog.Logger) *retrier {
	if policy.MaxDelay < policy.BaseDelay {
		policy.MaxDelay = policy.BaseDelay
	}
	codes := make(map[int]struct{}, len(policy.StatusCodes))
	for _, code := range policy.StatusCodes {
		codes[code] = struct{}{}
	}
	return &retrier{
		policy:    policy,
		retryable: codes,
		logger:    logger.With().Str("component", "Retry").Logger(),
		now:       time.Now,
	}
}

func (r *retrier) isRetryable(statusCode int) bool {
	_, ok := r.retryable[statusCode]
	return ok
}

// backoff returns BaseDelay * 2^attempt capped at MaxDelay, plus up to 10% jitter.
func (r *retrier) backoff(attempt int) time.Duration {
	delay := r.policy.BaseDelay
	for i := 0; i < attempt && delay < r.policy.MaxDelay; i++ {
		delay *= 2
	}
	if delay > r.policy.MaxDelay {
		delay = r.policy.MaxDelay
	}
	if r.policy.Jitter {
		if spread := int64(delay / 10); spread > 0 {
			delay += time.Duration(rand.Int63n(spread))
		}
	}
	return delay
}

func (r *retrier) wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// do calls send until it succeeds, returns a non-retryable status, or retries run out.
// When the last response still has a retryable status it is returned with an *HTTPError.
func (r *retrier) do(req *HTTPRequest, send func(*HTTPRequest) (*HTTPResponse, error)) (*HTTPResponse, error) {
	ctx := req.context()

	for attempt := 0; ; attempt++ {
		resp, err := send(req)
		last := attempt >= r.policy.MaxRetries

		var delay time.Duration
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, err
			}
			if last {
				return nil, WrapError(err, "giving up after retries")
			}
			delay = r.backoff(attempt)
		case r.isRetryable(resp.StatusCode):
			if last {
				return resp, WrapError(newHTTPError(resp.StatusCode, resp.Body, req.URL), "giving up after retries")
			}
			delay = r.backoff(attempt)
			if hint := resp.RetryAfter(r.now()); hint > delay {
				delay = min(hint, r.policy.MaxDelay)
			}
		default:
			return resp, nil
		}

		r.logger.Debug().
			Str("url", req.URL).
			Int("attempt", attempt+1).
			Int("max_retries", r.policy.MaxRetries).
			Dur("delay", delay).
			Msg("Retrying request")
		if err := r.wait(ctx, delay); err != nil {
			return nil, err
		}
	}
}
