package xretry

import (
	"context"
	"time"
)

// RetryPolicy 判断一次失败之后是否继续尝试。
//
// 通过 Retryer 使用时：
//   - MaxAttempts() 是总尝试次数上限（包含首次）
//   - ShouldRetry() 在每次失败后被调用
//   - Unrecoverable / PermanentError 会在 ShouldRetry 之前被拦截
type RetryPolicy interface {
	// MaxAttempts 返回最大尝试次数（包含首次尝试），最小为 1。
	MaxAttempts() int

	// ShouldRetry 判断是否应该重试。attempt 为已失败次数（从 1 开始）。
	ShouldRetry(ctx context.Context, attempt int, err error) bool
}

// BackoffPolicy 计算第 attempt 次失败后的等待时间。
type BackoffPolicy interface {
	// NextDelay 返回下次重试前的延迟。attempt 从 1 开始。
	NextDelay(attempt int) time.Duration
}

// Executor 重试执行器接口。
//
// 日志写入器只依赖此接口，测试可注入零退避的 Retryer 或自定义实现。
type Executor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
