// Package xcron 提供定时任务调度能力。
//
// 基于 robfig/cron/v3，在其上增加：
//   - 超时控制（WithTimeout）
//   - 重试（WithRetry，使用 xretry.Executor）
//   - 重叠保护（WithSkipIfRunning）
//   - 启动时立即执行（WithImmediate）
//   - panic 恢复：任务 panic 记为失败（ErrJobPanic），调度继续
//   - 执行钩子与 xmetrics 观测
//   - 执行统计（Stats）
//
// # 快速开始
//
//	scheduler := xcron.New(xcron.WithLogger(logger))
//	_, err := scheduler.AddFunc("@every 1h", rotate,
//	    xcron.WithName("system-log-maintenance"),
//	    xcron.WithImmediate(),
//	    xcron.WithSkipIfRunning(),
//	)
//	scheduler.Start()
//	defer scheduler.Stop()
//
// # Cron 表达式
//
// 默认分钟级五段式，支持 @every、@hourly 等描述符；WithSeconds 启用六段式。
package xcron
