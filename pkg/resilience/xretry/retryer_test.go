package xretry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noDelayRetryer(attempts int, opts ...RetryerOption) *Retryer {
	base := []RetryerOption{
		WithRetryPolicy(NewFixedRetry(attempts)),
		WithBackoffPolicy(NewNoBackoff()),
	}
	return NewRetryer(append(base, opts...)...)
}

func TestRetryer_Do(t *testing.T) {
	t.Run("first attempt succeeds", func(t *testing.T) {
		var calls int
		err := noDelayRetryer(3).Do(context.Background(), func(context.Context) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds on third attempt", func(t *testing.T) {
		var calls int
		err := noDelayRetryer(3).Do(context.Background(), func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("disk busy")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausted returns last error", func(t *testing.T) {
		var calls int
		err := noDelayRetryer(3).Do(context.Background(), func(context.Context) error {
			calls++
			return errors.New("attempt failed")
		})
		require.Error(t, err)
		assert.Equal(t, "attempt failed", err.Error())
		assert.Equal(t, 3, calls)
	})

	t.Run("permanent error not retried", func(t *testing.T) {
		var calls int
		denied := errors.New("permission denied")
		err := noDelayRetryer(3).Do(context.Background(), func(context.Context) error {
			calls++
			return NewPermanentError(denied)
		})
		assert.ErrorIs(t, err, denied)
		assert.Equal(t, 1, calls)
	})

	t.Run("Unrecoverable not retried", func(t *testing.T) {
		var calls int
		err := noDelayRetryer(3).Do(context.Background(), func(context.Context) error {
			calls++
			return Unrecoverable(errors.New("fatal"))
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("NeverRetry runs once", func(t *testing.T) {
		var calls int
		r := NewRetryer(WithRetryPolicy(NewNeverRetry()))
		_ = r.Do(context.Background(), func(context.Context) error {
			calls++
			return errors.New("x")
		})
		assert.Equal(t, 1, calls)
	})

	t.Run("OnRetry count and numbering", func(t *testing.T) {
		var seen []int
		r := noDelayRetryer(3, WithOnRetry(func(attempt int, _ error) {
			seen = append(seen, attempt)
		}))
		_ = r.Do(context.Background(), func(context.Context) error {
			return errors.New("x")
		})
		assert.Equal(t, []int{1, 2}, seen)
	})

	t.Run("context cancel stops waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		r := NewRetryer(
			WithRetryPolicy(NewFixedRetry(5)),
			WithBackoffPolicy(NewFixedBackoff(time.Hour)),
		)
		var calls int
		done := make(chan error, 1)
		go func() {
			done <- r.Do(ctx, func(context.Context) error {
				calls++
				return errors.New("x")
			})
		}()
		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			require.Error(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("Do 未在 context 取消后返回")
		}
		assert.Equal(t, 1, calls)
	})
}

func TestRetryer_DefaultBackoff(t *testing.T) {
	r := NewRetryer()
	assert.Equal(t, 3, r.RetryPolicy().MaxAttempts())
	assert.Equal(t, 100*time.Millisecond, r.BackoffPolicy().NextDelay(1))
	assert.Equal(t, 200*time.Millisecond, r.BackoffPolicy().NextDelay(2))
	assert.Equal(t, 300*time.Millisecond, r.BackoffPolicy().NextDelay(3))
}

func TestRetryer_Linear_Timing(t *testing.T) {
	r := NewRetryer(
		WithRetryPolicy(NewFixedRetry(3)),
		WithBackoffPolicy(NewLinearBackoff(10*time.Millisecond, 10*time.Millisecond, 100*time.Millisecond)),
	)
	start := time.Now()
	_ = r.Do(context.Background(), func(context.Context) error { return errors.New("x") })
	// 10ms + 20ms
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestRetryer_NilArgs(t *testing.T) {
	var nilRetryer *Retryer
	assert.ErrorIs(t, nilRetryer.Do(context.Background(), func(context.Context) error { return nil }), ErrNilRetryer)
	assert.Nil(t, nilRetryer.RetryPolicy())
	assert.Nil(t, nilRetryer.BackoffPolicy())

	r := NewRetryer()
	//nolint:staticcheck // 验证 nil context 防护
	assert.ErrorIs(t, r.Do(nil, func(context.Context) error { return nil }), ErrNilContext)
	assert.ErrorIs(t, r.Do(context.Background(), nil), ErrNilFunc)
}

func TestRetryer_ZeroValue(t *testing.T) {
	var calls int
	r := &Retryer{}
	_ = r.Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("x")
	})
	assert.Equal(t, 3, calls)
}
