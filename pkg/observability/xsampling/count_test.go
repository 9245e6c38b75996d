package xsampling

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstSamplers(t *testing.T) {
	ctx := context.Background()
	assert.True(t, Always().ShouldSample(ctx))
	assert.False(t, Never().ShouldSample(ctx))
}

func TestNewCountSampler(t *testing.T) {
	_, err := NewCountSampler(0)
	assert.ErrorIs(t, err, ErrInvalidCount)

	s, err := NewCountSampler(3)
	require.NoError(t, err)
	assert.Equal(t, 3, s.N())
}

func TestCountSampler(t *testing.T) {
	ctx := context.Background()
	s, err := NewCountSampler(3)
	require.NoError(t, err)

	var got []bool
	for i := 0; i < 7; i++ {
		got = append(got, s.ShouldSample(ctx))
	}
	assert.Equal(t, []bool{true, false, false, true, false, false, true}, got)
	assert.Equal(t, uint64(7), s.Seen())

	t.Run("Reset restarts from first", func(t *testing.T) {
		s.ShouldSample(ctx)
		s.Reset()
		assert.Zero(t, s.Seen())
		assert.True(t, s.ShouldSample(ctx))
	})

	t.Run("zero value samples all", func(t *testing.T) {
		var z CountSampler
		assert.True(t, z.ShouldSample(ctx))
		assert.True(t, z.ShouldSample(ctx))
	})
}

func TestCountSamplerConcurrent(t *testing.T) {
	s, err := NewCountSampler(10)
	require.NoError(t, err)

	var mu sync.Mutex
	sampled := 0
	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if s.ShouldSample(context.Background()) {
					mu.Lock()
					sampled++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, sampled)
}
