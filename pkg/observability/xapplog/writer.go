package xapplog

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/omeyang/duallog/pkg/observability/xlog"
	"github.com/omeyang/duallog/pkg/observability/xsampling"
	"github.com/omeyang/duallog/pkg/resilience/xbreaker"
	"github.com/omeyang/duallog/pkg/resilience/xretry"
)

const (
	sinkApp    = "app"
	sinkSystem = "system"

	statusOK      = "ok"
	statusFailed  = "failed"
	statusSkipped = "skipped"

	// failureLogEvery sink 持续失败时每隔多少次记录一次诊断告警
	failureLogEvery = 100
)

// sink 一个活动日志文件。
type sink struct {
	name    string
	path    string
	breaker *xbreaker.Breaker
	// failures 连续失败计数，兼做告警采样
	failures *xsampling.CountSampler
}

func newSink(name, path string, breaker *xbreaker.Breaker) *sink {
	failures, _ := xsampling.NewCountSampler(failureLogEvery)
	return &sink{name: name, path: path, breaker: breaker, failures: failures}
}

// writer 用一把锁串行化两个日志文件的追加写入。
//
// 锁同时交给 Archiver，轮转的改名和重建与写入互斥。
type writer struct {
	mu       sync.Mutex
	sinks    []*sink
	appender appender
	retryer  xretry.Executor
	console  io.Writer
	mirror   bool
	now      func() time.Time
	diag     xlog.Logger
	metrics  *instruments

	degraded atomic.Bool
}

// write 追加一行到所有日志文件，不返回错误。
// 时间戳在持锁后获取，文件中的行序与时间戳顺序一致。
func (w *writer) write(ctx context.Context, level Level, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	line := FormatLine(w.now(), level, message)
	if w.degraded.Load() {
		w.echoLocked(line)
		return
	}

	data := []byte(line + "\n")
	failed := 0
	for _, s := range w.sinks {
		err := w.appendLocked(ctx, s, data)
		if err != nil {
			failed++
		}
		w.report(ctx, s, err)
	}

	// 全部失败时即使未开启镜像也输出到控制台
	if w.mirror || failed == len(w.sinks) {
		w.echoLocked(line)
	}
}

func (w *writer) appendLocked(ctx context.Context, s *sink, data []byte) error {
	attempts := 0
	op := func(context.Context) error {
		attempts++
		return w.appender.Append(s.path, data)
	}

	var err error
	if s.breaker != nil {
		err = s.breaker.Do(ctx, func() error { return w.retryer.Do(ctx, op) })
	} else {
		err = w.retryer.Do(ctx, op)
	}

	w.metrics.retries(ctx, s.name, attempts-1)
	switch {
	case err == nil:
		w.metrics.write(ctx, s.name, statusOK)
	case xbreaker.IsOpen(err):
		w.metrics.write(ctx, s.name, statusSkipped)
	default:
		w.metrics.write(ctx, s.name, statusFailed)
	}
	if err != nil && attempts > 1 {
		w.diag.Debug(ctx, "log append gave up after retries",
			xlog.Sink(s.name), xlog.Attempt(attempts))
	}
	return err
}

// report 记录失败告警，连续失败时按采样间隔记录，恢复时记录一次。
func (w *writer) report(ctx context.Context, s *sink, err error) {
	if s.failures == nil {
		if err != nil {
			w.diag.Warn(ctx, "log append failed", xlog.Sink(s.name), xlog.Path(s.path), xlog.Err(err))
		}
		return
	}
	if err == nil {
		if n := s.failures.Seen(); n > 0 {
			s.failures.Reset()
			w.diag.Info(ctx, "log append recovered", xlog.Sink(s.name), xlog.Count(int64(n)))
		}
		return
	}
	if s.failures.ShouldSample(ctx) {
		w.diag.Warn(ctx, "log append failed",
			xlog.Sink(s.name), xlog.Path(s.path), xlog.Err(err),
			xlog.Count(int64(s.failures.Seen())))
	}
}

// echo 在锁内输出到控制台，保证与文件中的行序一致。
func (w *writer) echo(line string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.echoLocked(line)
}

func (w *writer) echoLocked(line string) {
	if w.console == nil {
		return
	}
	if _, err := io.WriteString(w.console, line+"\n"); err != nil {
		w.diag.Debug(context.Background(), "console echo failed", slog.Any("error", err))
	}
}

// newRetryer 按 writer.retry 构建默认执行器：第 N 次重试前等待 N×backoff。
func newRetryer(cfg RetryConfig) *xretry.Retryer {
	backoff := xretry.BackoffPolicy(xretry.NewNoBackoff())
	if cfg.Backoff > 0 {
		backoff = xretry.NewLinearBackoff(cfg.Backoff, cfg.Backoff, cfg.Backoff*time.Duration(cfg.Attempts))
	}
	return xretry.NewRetryer(
		xretry.WithRetryPolicy(xretry.NewFixedRetry(cfg.Attempts)),
		xretry.WithBackoffPolicy(backoff),
	)
}

func newSinkBreaker(name string, cfg BreakerConfig, diag xlog.Logger) *xbreaker.Breaker {
	if !cfg.Enabled {
		return nil
	}
	return xbreaker.NewBreaker("duallog-"+name,
		xbreaker.WithTripPolicy(xbreaker.NewConsecutiveFailures(cfg.Failures)),
		xbreaker.WithTimeout(cfg.Timeout),
		xbreaker.WithOnStateChange(func(bname string, from, to xbreaker.State) {
			diag.Warn(context.Background(), "sink breaker state changed",
				xlog.Sink(name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		}),
	)
}
