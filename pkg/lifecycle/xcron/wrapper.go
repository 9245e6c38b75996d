package xcron

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/omeyang/duallog/pkg/observability/xmetrics"
	"github.com/omeyang/duallog/pkg/resilience/xretry"
)

// jobWrapper 为原始任务添加超时、重试、重叠保护、panic 恢复等能力。
// 实现 cron.Job 接口，以便被 robfig/cron 调度。
type jobWrapper struct {
	job     Job
	opts    *jobOptions
	logger  Logger
	stats   *Stats
	baseCtx context.Context

	// 指针共享：WithImmediate 的副本与计划执行共用同一个标志
	running *atomic.Bool
}

func newJobWrapper(job Job, logger Logger, stats *Stats, opts *jobOptions) *jobWrapper {
	return &jobWrapper{
		job:     job,
		opts:    opts,
		logger:  logger,
		stats:   stats,
		baseCtx: context.Background(),
		running: new(atomic.Bool),
	}
}

// Run 实现 cron.Job 接口
func (w *jobWrapper) Run() {
	ctx := w.baseCtx
	if ctx == nil {
		ctx = context.Background()
	}

	if w.opts.skipIfRunning {
		if !w.running.CompareAndSwap(false, true) {
			w.stats.recordSkip(w.opts.name)
			w.logDebug(ctx, "job still running, skipping", slog.String("job", w.opts.name))
			return
		}
		defer w.running.Store(false)
	}

	startTime := time.Now()

	if w.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.opts.timeout)
		defer cancel()
	}

	ctx, span := xmetrics.Start(ctx, w.opts.observer, xmetrics.SpanOptions{
		Component: "xcron",
		Operation: w.spanName(),
	})

	ctx = w.runBeforeHooks(ctx)
	err := w.execute(ctx)
	duration := time.Since(startTime)
	w.runAfterHooks(ctx, duration, err)

	w.stats.recordExecution(w.opts.name, startTime, duration, err)
	span.End(xmetrics.Result{Err: err})
	w.logResult(ctx, duration, err)
}

func (w *jobWrapper) spanName() string {
	if w.opts.name == "" {
		return "job"
	}
	return w.opts.name
}

func (w *jobWrapper) execute(ctx context.Context) error {
	if w.opts.retry == nil {
		return w.safeRun(ctx)
	}
	return w.opts.retry.Do(ctx, func(ctx context.Context) error {
		err := w.safeRun(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrJobPanic) {
			return xretry.Unrecoverable(err)
		}
		w.logWarn(ctx, "job attempt failed",
			slog.String("job", w.opts.name), slog.Any("error", err))
		return err
	})
}

// safeRun 把 panic 转为包装 ErrJobPanic 的错误。
func (w *jobWrapper) safeRun(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logError(ctx, "job panicked",
				slog.String("job", w.opts.name),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			err = fmt.Errorf("%w: %v", ErrJobPanic, r)
		}
	}()
	return w.job.Run(ctx)
}

func (w *jobWrapper) logResult(ctx context.Context, duration time.Duration, err error) {
	if err != nil {
		w.logError(ctx, "job failed",
			slog.String("job", w.opts.name), slog.Duration("duration", duration), slog.Any("error", err))
		return
	}
	w.logDebug(ctx, "job completed",
		slog.String("job", w.opts.name), slog.Duration("duration", duration))
}

func (w *jobWrapper) runBeforeHooks(ctx context.Context) context.Context {
	for _, hook := range w.opts.hooks {
		ctx = hook.BeforeJob(ctx, w.opts.name)
	}
	return ctx
}

// runAfterHooks 逆序执行，类似 defer
func (w *jobWrapper) runAfterHooks(ctx context.Context, duration time.Duration, err error) {
	for i := len(w.opts.hooks) - 1; i >= 0; i-- {
		w.opts.hooks[i].AfterJob(ctx, w.opts.name, duration, err)
	}
}

func (w *jobWrapper) logDebug(ctx context.Context, msg string, attrs ...slog.Attr) {
	if w.logger != nil {
		w.logger.Debug(ctx, msg, attrs...)
	}
}

func (w *jobWrapper) logWarn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if w.logger != nil {
		w.logger.Warn(ctx, msg, attrs...)
		return
	}
	log.Printf("[WARN] xcron: %s %v", msg, attrs)
}

func (w *jobWrapper) logError(ctx context.Context, msg string, attrs ...slog.Attr) {
	if w.logger != nil {
		w.logger.Error(ctx, msg, attrs...)
		return
	}
	log.Printf("[ERROR] xcron: %s %v", msg, attrs)
}
