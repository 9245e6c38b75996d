package xcron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// JobID 任务唯一标识，直接复用 cron.EntryID。
type JobID = cron.EntryID

// Job 定时任务接口。
type Job interface {
	// Run 执行任务。ctx 包含超时控制，任务应响应 ctx.Done()。
	Run(ctx context.Context) error
}

// JobFunc 函数适配器，将普通函数转换为 [Job] 接口。
type JobFunc func(ctx context.Context) error

// Run 实现 [Job] 接口。
func (f JobFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Logger 日志接口，xlog.Logger 直接满足。
// 不设置时使用标准库 log 输出 WARN/ERROR。
type Logger interface {
	Debug(ctx context.Context, msg string, attrs ...slog.Attr)
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)
	Error(ctx context.Context, msg string, attrs ...slog.Attr)
}

// Hook 任务执行钩子接口。
//
// 执行时机：
//   - BeforeJob: 通过重叠检查之后、执行任务之前
//   - AfterJob: 任务结束后（包括失败和 panic）
type Hook interface {
	// BeforeJob 返回的 context 传递给任务和后续钩子。
	BeforeJob(ctx context.Context, name string) context.Context

	// AfterJob 的 duration 包含重试时间，panic 时 err 包装 [ErrJobPanic]。
	AfterJob(ctx context.Context, name string, duration time.Duration, err error)
}

// HookFunc 函数适配器，将函数对转换为 [Hook] 接口。
//
//	hook := xcron.HookFunc{
//	    After: func(ctx context.Context, name string, d time.Duration, err error) {
//	        log.Printf("job %s finished in %v, error: %v", name, d, err)
//	    },
//	}
type HookFunc struct {
	// Before 可为 nil
	Before func(ctx context.Context, name string) context.Context
	// After 可为 nil
	After func(ctx context.Context, name string, duration time.Duration, err error)
}

// BeforeJob 实现 [Hook] 接口。
func (h HookFunc) BeforeJob(ctx context.Context, name string) context.Context {
	if h.Before != nil {
		return h.Before(ctx, name)
	}
	return ctx
}

// AfterJob 实现 [Hook] 接口。
func (h HookFunc) AfterJob(ctx context.Context, name string, duration time.Duration, err error) {
	if h.After != nil {
		h.After(ctx, name, duration, err)
	}
}
