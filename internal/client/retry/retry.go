// Package retry runs a single remote operation under a bounded, fixed-delay retry policy.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cyphera/gator-permissions/internal/apperror"
	"github.com/cyphera/gator-permissions/internal/logger"
	"go.uber.org/zap"
)

const (
	DefaultRetries = 1
	DefaultDelay   = 1000 * time.Millisecond
)

// Options configures the retry behavior. A nil *Options means DefaultOptions().
type Options struct {
	// Retries is the number of additional attempts after the first one
	Retries int `json:"retries" toml:"Retries"`
	// Delay is the fixed wait between attempts
	Delay time.Duration `json:"delay" toml:"Delay"`
}

// DefaultOptions returns exactly one retry after a one second delay
func DefaultOptions() *Options {
	return &Options{
		Retries: DefaultRetries,
		Delay:   DefaultDelay,
	}
}

// Attempts returns the total number of attempts these options allow
func (o *Options) Attempts() int {
	return 1 + o.normalized().Retries
}

func (o *Options) normalized() *Options {
	if o == nil {
		return DefaultOptions()
	}
	out := *o
	if out.Retries < 0 {
		out.Retries = 0
	}
	if out.Delay < 0 {
		out.Delay = 0
	}
	return &out
}

// Predicate decides whether a failed attempt may be retried
type Predicate func(error) bool

// DefaultIsRetryable retries unclassified failures and classified ResourceUnavailable
// failures. Every other classified kind, ChainDisconnected included, is fatal.
func DefaultIsRetryable(err error) bool {
	if err == nil {
		return false
	}
	kind := apperror.KindOf(err)
	if kind == "" {
		return true
	}
	return kind == apperror.KindResourceUnavailable
}

// OnlyResourceUnavailable retries ResourceUnavailable failures and nothing else
func OnlyResourceUnavailable(err error) bool {
	return apperror.Is(err, apperror.KindResourceUnavailable)
}

// ExceptChainDisconnected retries everything except ChainDisconnected failures
func ExceptChainDisconnected(err error) bool {
	return err != nil && !apperror.Is(err, apperror.KindChainDisconnected)
}

// Operation is a single attempt of a remote call
type Operation[T any] func(ctx context.Context) (T, error)

// Execute runs op until it succeeds, fails with a non-retryable error, or
// opts.Retries additional attempts are exhausted. Classified terminal errors are
// returned unchanged; unclassified ones are wrapped as ResourceUnavailable.
func Execute[T any](ctx context.Context, op Operation[T], opts *Options, isRetryable Predicate) (T, error) {
	opts = opts.normalized()
	if isRetryable == nil {
		isRetryable = DefaultIsRetryable
	}

	var (
		result  T
		attempt int
	)

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(opts.Delay), uint64(opts.Retries)),
		ctx,
	)

	err := backoff.RetryNotify(func() error {
		attempt++
		value, err := op(ctx)
		if err == nil {
			result = value
			return nil
		}
		if !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		logger.Log.Debug("Retrying remote call",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", opts.Attempts()),
			zap.Duration("delay", wait),
			zap.Error(err),
		)
	})
	if err != nil {
		var zero T
		if apperror.IsClassified(err) {
			return zero, err
		}
		return zero, apperror.Wrap(apperror.KindResourceUnavailable, err, "remote call failed")
	}

	return result, nil
}
