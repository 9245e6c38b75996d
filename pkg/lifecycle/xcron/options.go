package xcron

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/omeyang/duallog/pkg/observability/xmetrics"
	"github.com/omeyang/duallog/pkg/resilience/xretry"
)

// ===================== Scheduler Options =====================

type schedulerOptions struct {
	logger   Logger
	location *time.Location
	parser   cron.Parser
}

func defaultSchedulerOptions() *schedulerOptions {
	return &schedulerOptions{
		location: time.Local,
		parser:   cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

// SchedulerOption 调度器配置选项
type SchedulerOption func(*schedulerOptions)

// WithLogger 设置日志记录器，接口兼容 xlog.Logger。
func WithLogger(logger Logger) SchedulerOption {
	return func(o *schedulerOptions) {
		o.logger = logger
	}
}

// WithLocation 设置时区，默认本地时区。
func WithLocation(loc *time.Location) SchedulerOption {
	return func(o *schedulerOptions) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithParser 自定义 cron 表达式解析器。
func WithParser(parser cron.Parser) SchedulerOption {
	return func(o *schedulerOptions) {
		o.parser = parser
	}
}

// WithSeconds 启用秒级精度。
//
//	scheduler := xcron.New(xcron.WithSeconds())
//	scheduler.AddFunc("*/5 * * * * *", task) // 每 5 秒执行
func WithSeconds() SchedulerOption {
	return func(o *schedulerOptions) {
		o.parser = cron.NewParser(
			cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
		)
	}
}

// ===================== Job Options =====================

type jobOptions struct {
	name          string
	timeout       time.Duration
	retry         xretry.Executor
	observer      xmetrics.Observer
	immediate     bool
	skipIfRunning bool
	hooks         []Hook
}

func defaultJobOptions() *jobOptions {
	return &jobOptions{}
}

// JobOption 任务配置选项
type JobOption func(*jobOptions)

// WithName 设置任务名，用于日志、统计和观测。
func WithName(name string) JobOption {
	return func(o *jobOptions) {
		o.name = name
	}
}

// WithTimeout 设置任务执行超时，默认无超时。
func WithTimeout(timeout time.Duration) JobOption {
	return func(o *jobOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithRetry 任务失败时通过 executor 重试。
//
//	scheduler.AddFunc("@every 1m", task,
//	    xcron.WithRetry(xretry.NewRetryer(
//	        xretry.WithRetryPolicy(xretry.NewFixedRetry(3)),
//	    )),
//	)
func WithRetry(executor xretry.Executor) JobOption {
	return func(o *jobOptions) {
		o.retry = executor
	}
}

// WithObserver 每次执行创建一个 xmetrics span（component=xcron）。
func WithObserver(observer xmetrics.Observer) JobOption {
	return func(o *jobOptions) {
		o.observer = observer
	}
}

// WithImmediate 注册后立即异步执行一次，之后按计划执行。
//
// 立即执行应用同样的超时、重试和重叠保护，失败不影响注册。
func WithImmediate() JobOption {
	return func(o *jobOptions) {
		o.immediate = true
	}
}

// WithSkipIfRunning 上一次执行尚未结束时跳过本次触发。
//
// 跳过计入 [Stats.SkipCount]。立即执行与计划执行共享同一个保护。
func WithSkipIfRunning() JobOption {
	return func(o *jobOptions) {
		o.skipIfRunning = true
	}
}

// WithHook 添加任务执行钩子。
//
// BeforeJob 按添加顺序执行，AfterJob 逆序执行。
func WithHook(hook Hook) JobOption {
	return func(o *jobOptions) {
		if hook != nil {
			o.hooks = append(o.hooks, hook)
		}
	}
}

// WithHooks 批量添加任务执行钩子。
func WithHooks(hooks ...Hook) JobOption {
	return func(o *jobOptions) {
		for _, hook := range hooks {
			if hook != nil {
				o.hooks = append(o.hooks, hook)
			}
		}
	}
}
