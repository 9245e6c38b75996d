package xapplog

import (
	"context"
	"io"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/duallog/pkg/lifecycle/xcron"
	"github.com/omeyang/duallog/pkg/observability/xlog"
	"github.com/omeyang/duallog/pkg/observability/xmetrics"
	"github.com/omeyang/duallog/pkg/observability/xrotate"
	"github.com/omeyang/duallog/pkg/resilience/xretry"
)

// Scheduler 维护检查的调度器，xcron.New() 返回值直接满足。
// 测试可注入手动实现，在需要时直接调用登记的函数。
type Scheduler interface {
	AddFunc(spec string, cmd func(ctx context.Context) error, opts ...xcron.JobOption) (xcron.JobID, error)
	Start()
	Stop() context.Context
}

// statsProvider 可选接口，xcron.Scheduler 实现。
type statsProvider interface {
	Stats() *xcron.Stats
}

type options struct {
	console       io.Writer
	retryer       xretry.Executor
	scheduler     Scheduler
	noScheduler   bool
	now           func() time.Time
	logger        xlog.Logger
	observer      xmetrics.Observer
	meterProvider metric.MeterProvider
	fileTime      xrotate.FileTimeFunc
}

// Option Service 配置选项
type Option func(*options)

// WithConsole 设置控制台输出，默认 os.Stdout。
func WithConsole(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.console = w
		}
	}
}

// WithRetryer 替换写入重试执行器。默认根据 writer.retry 构建
// FixedRetry + LinearBackoff；测试可注入零退避实现。
func WithRetryer(r xretry.Executor) Option {
	return func(o *options) {
		if r != nil {
			o.retryer = r
		}
	}
}

// WithScheduler 替换维护调度器，默认 xcron.New()。
// 注入的调度器由 Service 启动和停止。
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// WithoutScheduler 不注册周期性维护，只能通过 RunMaintenance 手动触发。
func WithoutScheduler() Option {
	return func(o *options) {
		o.noScheduler = true
	}
}

// WithClock 设置时间源，影响日志时间戳、归档名和导出名。
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger 设置诊断日志。不设置时按 diagnostics 配置构建。
func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver 设置维护和导出操作的观测器。
func WithObserver(obs xmetrics.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithMeterProvider 设置写入计数器使用的 MeterProvider，默认全局 provider。
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		if mp != nil {
			o.meterProvider = mp
		}
	}
}

// WithFileTime 设置判断归档年龄的时间函数，默认文件创建时间。
func WithFileTime(fn xrotate.FileTimeFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.fileTime = fn
		}
	}
}
