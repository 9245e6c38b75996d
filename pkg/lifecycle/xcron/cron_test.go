package xcron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s := New()
		require.NotNil(t, s)
		assert.Empty(t, s.Entries())
		assert.NotNil(t, s.Stats())
	})

	t.Run("seconds precision", func(t *testing.T) {
		s := New(WithSeconds())
		_, err := s.AddFunc("*/5 * * * * *", func(context.Context) error { return nil })
		assert.NoError(t, err)
		assert.Len(t, s.Entries(), 1)
	})

	t.Run("location", func(t *testing.T) {
		s := New(WithLocation(time.UTC), WithLocation(nil))
		require.NotNil(t, s)
	})
}

func TestScheduler_AddFunc(t *testing.T) {
	t.Run("valid spec", func(t *testing.T) {
		s := New()
		defer s.Stop()

		id, err := s.AddFunc("@every 1h", func(context.Context) error { return nil }, WithName("job"))
		require.NoError(t, err)
		assert.NotZero(t, id)
	})

	t.Run("invalid spec", func(t *testing.T) {
		s := New()
		defer s.Stop()

		_, err := s.AddFunc("invalid", func(context.Context) error { return nil })
		assert.ErrorIs(t, err, ErrInvalidSpec)
	})

	t.Run("nil job", func(t *testing.T) {
		s := New()
		defer s.Stop()

		_, err := s.AddFunc("@every 1h", nil)
		assert.ErrorIs(t, err, ErrNilJob)
		_, err = s.AddJob("@every 1h", nil)
		assert.ErrorIs(t, err, ErrNilJob)
	})

	t.Run("remove job", func(t *testing.T) {
		s := New()
		defer s.Stop()

		id, err := s.AddFunc("@every 1h", func(context.Context) error { return nil })
		require.NoError(t, err)
		s.Remove(id)
		assert.Empty(t, s.Entries())
	})
}

func TestScheduler_Immediate(t *testing.T) {
	t.Run("immediate run after add", func(t *testing.T) {
		s := New()
		var runs atomic.Int32
		done := make(chan struct{})

		_, err := s.AddFunc("@every 1h", func(context.Context) error {
			if runs.Add(1) == 1 {
				close(done)
			}
			return nil
		}, WithName("immediate"), WithImmediate())
		require.NoError(t, err)

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("immediate run did not happen")
		}
		<-s.Stop().Done()

		assert.Equal(t, int32(1), runs.Load())
		js := s.Stats().JobStats("immediate")
		require.NotNil(t, js)
		assert.Equal(t, int64(1), js.SuccessCount())
	})

	t.Run("Stop cancels and waits immediate run", func(t *testing.T) {
		s := New()
		started := make(chan struct{})
		var cancelled atomic.Bool

		_, err := s.AddFunc("@every 1h", func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			cancelled.Store(true)
			return ctx.Err()
		}, WithImmediate())
		require.NoError(t, err)

		<-started
		s.Stop()
		assert.True(t, cancelled.Load())
		assert.True(t, errors.Is(s.Stats().LastError(), context.Canceled))
	})
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(WithSeconds())
	var runs atomic.Int32
	_, err := s.AddFunc("@every 1s", func(context.Context) error {
		runs.Add(1)
		return nil
	}, WithName("tick"))
	require.NoError(t, err)

	s.Start()
	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 20*time.Millisecond)
	<-s.Stop().Done()
}
