package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RetryConfig configures exponential backoff retry behavior for transport
// failures.
type RetryConfig struct {
	MaxRetries        int
	BaseDelay         time.Duration // default 2s
	MaxDelay          time.Duration // cap for a single wait, default 1m
	MaxRateLimitWaits int           // max consecutive rate limit waits (default 3)
	OnRetry           func(attempt int, delay time.Duration)
	OnRateLimit       func(err *RateLimitError)
}

// RetryWithBackoff retries fn with exponential backoff.
// Delays: BaseDelay, BaseDelay*2, BaseDelay*4, ... capped at MaxDelay.
// Rate limit errors wait for the backend's Retry-After hint (or the current
// delay when there is none) and do not consume a retry.
func RetryWithBackoff(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = 2 * time.Second
	}
	if cfg.MaxDelay == 0 {
		cfg.MaxDelay = time.Minute
	}
	if cfg.MaxRateLimitWaits == 0 {
		cfg.MaxRateLimitWaits = 3
	}

	attempt := 0
	delay := cfg.BaseDelay
	rateLimitWaits := 0

	for {
		err := fn()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}

		var rateLimitErr *RateLimitError
		if errors.As(err, &rateLimitErr) {
			rateLimitWaits++
			if rateLimitWaits > cfg.MaxRateLimitWaits {
				return fmt.Errorf("max rate limit waits (%d) exceeded: %w", cfg.MaxRateLimitWaits, err)
			}
			if cfg.OnRateLimit != nil {
				cfg.OnRateLimit(rateLimitErr)
			}
			wait := rateLimitErr.RetryAfter
			if wait <= 0 {
				wait = delay
			}
			if err := sleep(ctx, min(wait, cfg.MaxDelay)); err != nil {
				return fmt.Errorf("rate limit wait cancelled: %w", err)
			}
			continue
		}

		if attempt >= cfg.MaxRetries {
			if cfg.MaxRetries == 0 {
				return err
			}
			return fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxRetries, err)
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, delay)
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}

		delay = min(delay*2, cfg.MaxDelay)
		attempt++
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
