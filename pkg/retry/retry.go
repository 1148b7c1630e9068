// Package retry runs an operation with bounded exponential backoff and jitter
// on top of cenkalti/backoff.
package retry

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultMaxAttempts  = 3
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3
)

var (
	ErrInvalidMaxAttempts  = errors.New("max attempts must be positive")
	ErrNegativeDelay       = errors.New("delay must not be negative")
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// Func is the operation being retried.
type Func func(ctx context.Context) error

// Result describes how much work Do performed.
type Result struct {
	Attempts   int
	TotalDelay time.Duration
}

type config struct {
	maxAttempts  int
	baseDelay    time.Duration
	maxDelay     time.Duration
	jitterFactor float64
	retryIf      func(error) bool
}

// Option configures Do using the functional options pattern.
type Option func(*config) error

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempt ceiling is reached. The delay before attempt n (n >= 2) is
// baseDelay * 2^(n-2) capped at maxDelay, randomized by +/- jitterFactor.
// By default every error except context cancellation is retryable.
//
// The returned error is the last error from fn, or ctx.Err() if the context
// ended while waiting.
func Do(ctx context.Context, fn Func, opts ...Option) (Result, error) {
	cfg := &config{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
		retryIf:      notContextError,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return Result{}, err
		}
	}

	var res Result
	op := func() error {
		res.Attempts++
		err := fn(ctx)
		if err != nil && !cfg.retryIf(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(_ error, wait time.Duration) {
		res.TotalDelay += wait
	}

	err := backoff.RetryNotify(op, cfg.policy(ctx), notify)
	return res, err
}

// policy builds the backoff schedule for one Do call.
func (c *config) policy(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.baseDelay
	exp.RandomizationFactor = c.jitterFactor
	exp.Multiplier = 2
	exp.MaxInterval = c.maxDelay
	if exp.MaxInterval == 0 {
		exp.MaxInterval = time.Duration(math.MaxInt64)
	}
	exp.MaxElapsedTime = 0
	exp.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.maxAttempts-1)), ctx)
}

func notContextError(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// WithMaxAttempts sets the total number of calls, including the first one.
func WithMaxAttempts(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return ErrInvalidMaxAttempts
		}
		c.maxAttempts = n
		return nil
	}
}

// WithBaseDelay sets the delay before the second attempt.
func WithBaseDelay(d time.Duration) Option {
	return func(c *config) error {
		if d < 0 {
			return ErrNegativeDelay
		}
		c.baseDelay = d
		return nil
	}
}

// WithMaxDelay caps the exponential delay. Zero means no cap.
func WithMaxDelay(d time.Duration) Option {
	return func(c *config) error {
		if d < 0 {
			return ErrNegativeDelay
		}
		c.maxDelay = d
		return nil
	}
}

// WithJitterFactor sets the randomization as a fraction of the delay, 0.0 to 1.0.
func WithJitterFactor(f float64) Option {
	return func(c *config) error {
		if f < 0 || f > 1 {
			return ErrInvalidJitterFactor
		}
		c.jitterFactor = f
		return nil
	}
}

// WithRetryIf replaces the retryable-error predicate. Context errors are
// still never retried.
func WithRetryIf(pred func(error) bool) Option {
	return func(c *config) error {
		c.retryIf = func(err error) bool {
			return notContextError(err) && pred(err)
		}
		return nil
	}
}
