package xbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/duallog/pkg/resilience/xretry"
)

func TestBreaker_Trip(t *testing.T) {
	var transitions []string
	b := NewBreaker("app_log",
		WithTripPolicy(NewConsecutiveFailures(2)),
		WithTimeout(50*time.Millisecond),
		WithOnStateChange(func(name string, from, to State) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		}),
	)
	ctx := context.Background()
	boom := errors.New("disk full")

	assert.ErrorIs(t, b.Do(ctx, func() error { return boom }), boom)
	assert.Equal(t, StateClosed, b.State())
	assert.ErrorIs(t, b.Do(ctx, func() error { return boom }), boom)
	assert.Equal(t, StateOpen, b.State())

	var called bool
	err := b.Do(ctx, func() error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.True(t, IsOpen(err))
	assert.True(t, IsBreakerError(err))

	var be *BreakerError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "app_log", be.Name)
	assert.Equal(t, StateOpen, be.State)
	assert.False(t, xretry.IsRetryable(err))

	time.Sleep(80 * time.Millisecond)
	require.NoError(t, b.Do(ctx, func() error { return nil }))
	assert.Equal(t, StateClosed, b.State())

	assert.Equal(t, []string{
		"app_log:closed->open",
		"app_log:open->half-open",
		"app_log:half-open->closed",
	}, transitions)
}

func TestBreaker_Defaults(t *testing.T) {
	b := NewBreaker("x")
	assert.Equal(t, "x", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, uint32(0), b.Counts().Requests)
}

func TestBreaker_Args(t *testing.T) {
	b := NewBreaker("x")
	//nolint:staticcheck // 验证 nil context 防护
	assert.ErrorIs(t, b.Do(nil, func() error { return nil }), ErrNilContext)
	assert.ErrorIs(t, b.Do(context.Background(), nil), ErrNilFunc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, b.Do(ctx, func() error { return nil }), context.Canceled)
}

func TestBreakerError(t *testing.T) {
	e := &BreakerError{Err: ErrOpenState, Name: "sys"}
	assert.Equal(t, "breaker sys: circuit breaker is open", e.Error())
	assert.Equal(t, "circuit breaker is open", (&BreakerError{Err: ErrOpenState}).Error())
	assert.Nil(t, wrapBreakerError(nil, "x"))

	plain := errors.New("plain")
	assert.Same(t, plain, wrapBreakerError(plain, "x"))
	assert.False(t, IsBreakerError(plain))

	half := wrapBreakerError(ErrTooManyRequests, "x")
	assert.True(t, IsBreakerError(half))
	assert.False(t, IsOpen(half))
}

func TestConsecutiveFailures(t *testing.T) {
	p := NewConsecutiveFailures(3)
	assert.Equal(t, uint32(3), p.Threshold())
	assert.False(t, p.ReadyToTrip(Counts{ConsecutiveFailures: 2}))
	assert.True(t, p.ReadyToTrip(Counts{ConsecutiveFailures: 3}))
	assert.Equal(t, uint32(1), NewConsecutiveFailures(0).Threshold())
}
