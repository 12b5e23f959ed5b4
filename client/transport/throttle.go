package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)

// ThrottleConfig holds the requests per second and burst
// capacity of a throttled transport.
type ThrottleConfig struct {
	RPS   int
	Burst int
}

// Validate reports whether both limits are usable.
func (c ThrottleConfig) Validate() error {
	if c.RPS <= 0 || c.Burst <= 0 {
		return fmt.Errorf("rps[%d] and burst[%d] %w", c.RPS, c.Burst, ErrMustNotBeZero)
	}

	return nil
}

type throttle struct {
	limiter *rate.Limiter
	cfg     ThrottleConfig
	next    http.RoundTripper
	logFn   func() *slog.Logger
}

// NewThrottle wraps next with a token bucket limiter. logFn is resolved
// per request so the logger can be swapped after construction; when it
// returns nil, exhaustion is not logged.
func NewThrottle(rps, burst int, logFn func() *slog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	cfg := ThrottleConfig{RPS: rps, Burst: burst}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if next == nil {
		next = http.DefaultTransport
	}

	if logFn == nil {
		logFn = func() *slog.Logger { return nil }
	}

	return &throttle{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		cfg:     cfg,
		next:    next,
		logFn:   logFn,
	}, nil
}

func (t *throttle) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	logger := t.logFn()

	// Tokens is only probed when the result will be logged.
	if logger != nil && t.limiter.Tokens() < 1 {
		logger.Info("throttle tokens exhausted", "rate", t.cfg.RPS, "burst", t.cfg.Burst, "method", r.Method, "host", r.URL.Host, "path", r.URL.Path)

		start := time.Now()
		defer func() {
			logger.Info("throttle wait complete", "waited", time.Since(start).String(), "rate", t.cfg.RPS, "burst", t.cfg.Burst)
		}()
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWaitingFailed, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w post-wait: %w", ErrContextEnded, err)
	}

	return t.next.RoundTrip(r)
}
