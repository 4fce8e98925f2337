package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff_ExponentialBackoff(t *testing.T) {
	var delays []time.Duration
	cfg := RetryConfig{
		MaxRetries: 4,
		BaseDelay:  time.Millisecond,
		OnRetry: func(attempt int, delay time.Duration) {
			delays = append(delays, delay)
		},
	}

	calls := 0
	err := RetryWithBackoff(context.Background(), cfg, func() error {
		calls++
		if calls < 5 {
			return errors.New("retry me")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 5, calls)
	assert.Equal(t, []time.Duration{
		time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond, 8 * time.Millisecond,
	}, delays)
}

func TestRetryWithBackoff_DelayIsCapped(t *testing.T) {
	var delays []time.Duration
	cfg := RetryConfig{
		MaxRetries: 4,
		BaseDelay:  time.Millisecond,
		MaxDelay:   3 * time.Millisecond,
		OnRetry:    func(_ int, d time.Duration) { delays = append(delays, d) },
	}
	_ = RetryWithBackoff(context.Background(), cfg, func() error { return errors.New("x") })
	assert.Equal(t, []time.Duration{
		time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond, 3 * time.Millisecond,
	}, delays)
}

func TestRetryWithBackoff_MaxRetriesExceeded(t *testing.T) {
	base := errors.New("still failing")
	calls := 0
	err := RetryWithBackoff(context.Background(), RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond}, func() error {
		calls++
		return base
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "max retries (2) exceeded")
}

func TestRetryWithBackoff_ZeroRetriesCallsOnce(t *testing.T) {
	base := errors.New("boom")
	calls := 0
	err := RetryWithBackoff(context.Background(), RetryConfig{}, func() error {
		calls++
		return base
	})
	assert.Equal(t, 1, calls)
	assert.Equal(t, base, err)
}

func TestRetryWithBackoff_RateLimitDoesNotConsumeRetries(t *testing.T) {
	var notified []*RateLimitError
	cfg := RetryConfig{
		MaxRetries:  0,
		BaseDelay:   time.Millisecond,
		OnRateLimit: func(e *RateLimitError) { notified = append(notified, e) },
	}
	calls := 0
	err := RetryWithBackoff(context.Background(), cfg, func() error {
		calls++
		if calls <= 2 {
			return &UpstreamError{Provider: "openai", StatusCode: 429, Err: &RateLimitError{Provider: "openai", RetryAfter: time.Millisecond}}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, notified, 2)
}

func TestRetryWithBackoff_MaxRateLimitWaits(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), RetryConfig{BaseDelay: time.Millisecond, MaxRateLimitWaits: 2}, func() error {
		calls++
		return &RateLimitError{Provider: "gemini"}
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "max rate limit waits (2) exceeded")
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{
		MaxRetries: 5,
		BaseDelay:  time.Hour,
		OnRetry:    func(int, time.Duration) { cancel() },
	}
	err := RetryWithBackoff(ctx, cfg, func() error { return errors.New("x") })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryGenerator(t *testing.T) {
	calls := 0
	inner := GeneratorFunc(func(ctx context.Context, messages []Message, opts Options) (string, error) {
		calls++
		if calls == 1 {
			return "", &UpstreamError{Provider: "openai", StatusCode: 503, Err: errors.New("unavailable")}
		}
		return "ok", nil
	})
	g := &RetryGenerator{Inner: inner, RetryCfg: RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond}}

	text, err := g.GenerateText(context.Background(), nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 2, calls)
}

func TestRetryGenerator_KeepsUpstreamError(t *testing.T) {
	inner := GeneratorFunc(func(context.Context, []Message, Options) (string, error) {
		return "", &UpstreamError{Provider: "openai", StatusCode: 500, Err: errors.New("down")}
	})
	g := &RetryGenerator{Inner: inner, RetryCfg: RetryConfig{MaxRetries: 1, BaseDelay: time.Millisecond}}

	_, err := g.GenerateText(context.Background(), nil, Options{})
	var up *UpstreamError
	require.True(t, errors.As(err, &up))
	assert.Equal(t, 500, up.StatusCode)
}
