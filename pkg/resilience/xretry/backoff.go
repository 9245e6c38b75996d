package xretry

import "time"

// FixedBackoff 固定延迟退避策略
type FixedBackoff struct {
	delay time.Duration
}

// NewFixedBackoff 创建固定延迟退避策略，负数视为 0。
func NewFixedBackoff(delay time.Duration) *FixedBackoff {
	if delay < 0 {
		delay = 0
	}
	return &FixedBackoff{delay: delay}
}

func (b *FixedBackoff) NextDelay(int) time.Duration {
	return b.delay
}

// LinearBackoff 线性退避策略
// delay = min(initialDelay + increment * (attempt-1), maxDelay)
//
// NewLinearBackoff(100ms, 100ms, max) 即第 N 次失败后等待 N×100ms。
type LinearBackoff struct {
	initialDelay time.Duration
	increment    time.Duration
	maxDelay     time.Duration
}

// NewLinearBackoff 创建线性退避策略
func NewLinearBackoff(initialDelay, increment, maxDelay time.Duration) *LinearBackoff {
	if initialDelay < 0 {
		initialDelay = 0
	}
	if increment < 0 {
		increment = 0
	}
	if maxDelay < initialDelay {
		maxDelay = initialDelay
	}
	return &LinearBackoff{
		initialDelay: initialDelay,
		increment:    increment,
		maxDelay:     maxDelay,
	}
}

func (b *LinearBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	// 先用除法判断是否会超过上限，避免 increment*(attempt-1) 溢出
	if b.increment > 0 && attempt > 1 {
		maxMultiplier := (b.maxDelay - b.initialDelay) / b.increment
		if time.Duration(attempt-1) > maxMultiplier {
			return b.maxDelay
		}
	}
	delay := b.initialDelay + b.increment*time.Duration(attempt-1)
	if delay > b.maxDelay {
		delay = b.maxDelay
	}
	return delay
}

// NoBackoff 无延迟退避策略，测试中常用。
type NoBackoff struct{}

// NewNoBackoff 创建无延迟退避策略
func NewNoBackoff() *NoBackoff {
	return &NoBackoff{}
}

func (b *NoBackoff) NextDelay(int) time.Duration {
	return 0
}

var (
	_ BackoffPolicy = (*FixedBackoff)(nil)
	_ BackoffPolicy = (*LinearBackoff)(nil)
	_ BackoffPolicy = (*NoBackoff)(nil)
)
