package xcron

import (
	"context"

	"github.com/robfig/cron/v3"
)

// Scheduler 定时任务调度器接口。
//
// 封装 robfig/cron/v3，增加超时、重试、重叠保护、panic 恢复和统计。
// 使用 [New] 创建默认实现。
type Scheduler interface {
	// AddFunc 添加函数任务。
	//
	// spec 是 cron 表达式，如 "@every 1h" 或 "0 * * * *"。
	//
	//	id, err := scheduler.AddFunc("@every 1h", func(ctx context.Context) error {
	//	    return doSomething(ctx)
	//	}, xcron.WithName("my-task"))
	AddFunc(spec string, cmd func(ctx context.Context) error, opts ...JobOption) (JobID, error)

	// AddJob 添加实现了 [Job] 接口的任务。
	AddJob(spec string, job Job, opts ...JobOption) (JobID, error)

	// Remove 移除任务，正在执行的任务不受影响。
	Remove(id JobID)

	// Start 启动调度器（非阻塞），重复调用无效果。
	Start()

	// Stop 优雅停止调度器。
	//
	// 返回的 context 在所有运行中的任务完成后 Done。
	Stop() context.Context

	// Entries 返回所有已注册的任务。
	Entries() []cron.Entry

	// Stats 返回执行统计信息，可在任务执行期间安全读取。
	Stats() *Stats
}
