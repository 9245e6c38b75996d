package xcron

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/duallog/pkg/observability/xmetrics"
	"github.com/omeyang/duallog/pkg/resilience/xretry"
)

// recordLogger 记录日志消息，用于断言
type recordLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordLogger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, level+":"+msg)
}

func (l *recordLogger) Debug(_ context.Context, msg string, _ ...slog.Attr) { l.add("DEBUG", msg) }
func (l *recordLogger) Warn(_ context.Context, msg string, _ ...slog.Attr)  { l.add("WARN", msg) }
func (l *recordLogger) Error(_ context.Context, msg string, _ ...slog.Attr) { l.add("ERROR", msg) }

func (l *recordLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.msgs...)
}

func runWrapper(job Job, logger Logger, opts ...JobOption) (*jobWrapper, *Stats) {
	o := defaultJobOptions()
	for _, opt := range opts {
		opt(o)
	}
	stats := newStats()
	w := newJobWrapper(job, logger, stats, o)
	w.Run()
	return w, stats
}

// ============================================================================
// 执行结果
// ============================================================================

func TestJobWrapper_Result(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		logger := &recordLogger{}
		_, stats := runWrapper(JobFunc(func(context.Context) error { return nil }), logger, WithName("ok"))

		assert.Equal(t, int64(1), stats.TotalExecutions())
		assert.Equal(t, int64(1), stats.SuccessCount())
		assert.NoError(t, stats.LastError())
		assert.False(t, stats.LastExecTime().IsZero())
		assert.Contains(t, logger.messages(), "DEBUG:job completed")
	})

	t.Run("failure", func(t *testing.T) {
		logger := &recordLogger{}
		boom := errors.New("boom")
		_, stats := runWrapper(JobFunc(func(context.Context) error { return boom }), logger, WithName("fail"))

		assert.Equal(t, int64(1), stats.FailureCount())
		assert.ErrorIs(t, stats.LastError(), boom)
		assert.ErrorIs(t, stats.JobStats("fail").LastError(), boom)
		assert.Contains(t, logger.messages(), "ERROR:job failed")
	})

	t.Run("panic recovered as failure", func(t *testing.T) {
		logger := &recordLogger{}
		_, stats := runWrapper(JobFunc(func(context.Context) error { panic("kaboom") }), logger, WithName("panic"))

		assert.Equal(t, int64(1), stats.FailureCount())
		assert.ErrorIs(t, stats.LastError(), ErrJobPanic)
		assert.Contains(t, stats.LastError().Error(), "kaboom")
		assert.Contains(t, logger.messages(), "ERROR:job panicked")
	})

	t.Run("nil logger", func(t *testing.T) {
		assert.NotPanics(t, func() {
			runWrapper(JobFunc(func(context.Context) error { return errors.New("x") }), nil)
		})
	})
}

// ============================================================================
// 超时与重试
// ============================================================================

func TestJobWrapper_Timeout(t *testing.T) {
	_, stats := runWrapper(JobFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}), nil, WithTimeout(20*time.Millisecond))

	assert.ErrorIs(t, stats.LastError(), context.DeadlineExceeded)
}

func TestJobWrapper_Retry(t *testing.T) {
	retryer := xretry.NewRetryer(
		xretry.WithRetryPolicy(xretry.NewFixedRetry(3)),
		xretry.WithBackoffPolicy(xretry.NewNoBackoff()),
	)

	t.Run("succeeds on third attempt", func(t *testing.T) {
		var calls atomic.Int32
		logger := &recordLogger{}
		_, stats := runWrapper(JobFunc(func(context.Context) error {
			if calls.Add(1) < 3 {
				return errors.New("transient")
			}
			return nil
		}), logger, WithRetry(retryer))

		assert.Equal(t, int32(3), calls.Load())
		assert.Equal(t, int64(1), stats.SuccessCount())
		assert.Contains(t, logger.messages(), "WARN:job attempt failed")
	})

	t.Run("panic not retried", func(t *testing.T) {
		var calls atomic.Int32
		_, stats := runWrapper(JobFunc(func(context.Context) error {
			calls.Add(1)
			panic("once")
		}), &recordLogger{}, WithRetry(retryer))

		assert.Equal(t, int32(1), calls.Load())
		assert.ErrorIs(t, stats.LastError(), ErrJobPanic)
	})
}

// ============================================================================
// 重叠保护
// ============================================================================

func TestJobWrapper_SkipIfRunning(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	o := defaultJobOptions()
	WithName("slow")(o)
	WithSkipIfRunning()(o)
	stats := newStats()
	w := newJobWrapper(JobFunc(func(context.Context) error {
		close(started)
		<-release
		return nil
	}), nil, stats, o)

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run()
	}()
	<-started

	// 副本共享 running 标志
	cp := *w
	cp.Run()
	assert.Equal(t, int64(1), stats.SkipCount())
	assert.Equal(t, int64(1), stats.JobStats("slow").SkipCount())

	close(release)
	<-done
	assert.Equal(t, int64(1), stats.TotalExecutions())
	assert.False(t, w.running.Load())
}

// ============================================================================
// 钩子与观测
// ============================================================================

type ctxKey struct{}

func TestJobWrapper_Hooks(t *testing.T) {
	var order []string
	hook := func(id string) Hook {
		return HookFunc{
			Before: func(ctx context.Context, name string) context.Context {
				order = append(order, "before-"+id)
				return context.WithValue(ctx, ctxKey{}, id)
			},
			After: func(_ context.Context, name string, _ time.Duration, err error) {
				order = append(order, "after-"+id)
				assert.Equal(t, "hooked", name)
				assert.NoError(t, err)
			},
		}
	}

	var seen any
	runWrapper(JobFunc(func(ctx context.Context) error {
		seen = ctx.Value(ctxKey{})
		return nil
	}), nil, WithName("hooked"), WithHooks(hook("1"), nil, hook("2")), WithHook(nil), WithHook(HookFunc{}))

	assert.Equal(t, []string{"before-1", "before-2", "after-2", "after-1"}, order)
	assert.Equal(t, "2", seen)
}

type countingObserver struct {
	starts atomic.Int32
	errs   atomic.Int32
}

func (o *countingObserver) Start(ctx context.Context, opts xmetrics.SpanOptions) (context.Context, xmetrics.Span) {
	o.starts.Add(1)
	return ctx, spanFunc(func(r xmetrics.Result) {
		if r.Err != nil {
			o.errs.Add(1)
		}
	})
}

type spanFunc func(xmetrics.Result)

func (f spanFunc) End(r xmetrics.Result) { f(r) }

func TestJobWrapper_Observer(t *testing.T) {
	obs := &countingObserver{}
	runWrapper(JobFunc(func(context.Context) error { return errors.New("x") }), nil, WithObserver(obs))
	runWrapper(JobFunc(func(context.Context) error { return nil }), nil, WithObserver(obs), WithName("named"))

	assert.Equal(t, int32(2), obs.starts.Load())
	assert.Equal(t, int32(1), obs.errs.Load())
}

func TestStats_Snapshot(t *testing.T) {
	stats := newStats()
	assert.Nil(t, stats.JobStats("none"))

	stats.recordExecution("a", time.Now(), time.Millisecond, nil)
	stats.recordExecution("a", time.Now(), 2*time.Millisecond, errors.New("bad"))
	stats.recordSkip("a")
	stats.recordSkip("")

	snap := stats.Snapshot()
	assert.Equal(t, int64(2), snap.Executions)
	assert.Equal(t, int64(1), snap.Successes)
	assert.Equal(t, int64(1), snap.Failures)
	assert.Equal(t, int64(2), snap.Skips)
	assert.Equal(t, 2*time.Millisecond, snap.LastDuration)
	assert.Equal(t, "bad", snap.LastError)

	js := stats.JobStats("a")
	require.NotNil(t, js)
	assert.Equal(t, "a", js.Name)
	assert.Equal(t, int64(1), js.SkipCount())

	var nilStats *Stats
	assert.NotPanics(t, func() {
		nilStats.recordExecution("a", time.Now(), 0, nil)
		nilStats.recordSkip("a")
	})
}
