package xsampling

import (
	"context"
	"sync/atomic"
)

type constSampler bool

func (s constSampler) ShouldSample(context.Context) bool { return bool(s) }

// Always 总是采样。
func Always() Sampler { return constSampler(true) }

// Never 从不采样。
func Never() Sampler { return constSampler(false) }

// CountSampler 第 1、n+1、2n+1... 个事件被采样。
//
// 用于抑制持续故障下的重复诊断日志：首次失败总是记录，之后每 n 次记录一次，
// 恢复后 Reset 使下一次故障重新从首次开始。
type CountSampler struct {
	n       uint64
	counter atomic.Uint64
}

// NewCountSampler n < 1 时返回 ErrInvalidCount。
func NewCountSampler(n int) (*CountSampler, error) {
	if n < 1 {
		return nil, ErrInvalidCount
	}
	return &CountSampler{n: uint64(n)}, nil
}

func (s *CountSampler) ShouldSample(context.Context) bool {
	if s.n == 0 {
		// 零值按全采样处理
		return true
	}
	return (s.counter.Add(1)-1)%s.n == 0
}

// Reset 计数清零。
func (s *CountSampler) Reset() {
	s.counter.Store(0)
}

// Seen 返回自上次 Reset 以来的事件数。
func (s *CountSampler) Seen() uint64 {
	return s.counter.Load()
}

// N 返回采样间隔。
func (s *CountSampler) N() int {
	return int(s.n)
}

var (
	_ Sampler           = constSampler(false)
	_ ResettableSampler = (*CountSampler)(nil)
)
