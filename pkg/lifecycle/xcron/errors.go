package xcron

import "errors"

var (
	// ErrNilJob 任务为 nil。
	ErrNilJob = errors.New("xcron: job cannot be nil")

	// ErrInvalidSpec cron 表达式无法解析。
	ErrInvalidSpec = errors.New("xcron: invalid schedule spec")

	// ErrJobPanic 任务执行时发生 panic，调度继续。
	ErrJobPanic = errors.New("xcron: job panicked")

	// ErrJobSkipped 上一次执行尚未结束，本次被跳过（WithSkipIfRunning）。
	ErrJobSkipped = errors.New("xcron: job skipped, previous run still in progress")
)
