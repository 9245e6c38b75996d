package xrotate

import "errors"

// 配置校验错误
var (
	// ErrEmptyFilename 文件名为空
	ErrEmptyFilename = errors.New("xrotate: filename is required")

	// ErrInvalidMaxSize MaxSizeMB 值无效（必须在 1~10240 范围内）
	ErrInvalidMaxSize = errors.New("xrotate: invalid MaxSizeMB")

	// ErrInvalidMaxBackups MaxBackups 值无效（必须在 0~1024 范围内）
	ErrInvalidMaxBackups = errors.New("xrotate: invalid MaxBackups")

	// ErrInvalidMaxAge MaxAgeDays 值无效（必须在 0~3650 范围内）
	ErrInvalidMaxAge = errors.New("xrotate: invalid MaxAgeDays")

	// ErrNoCleanupPolicy MaxBackups 和 MaxAgeDays 不能同时为 0
	ErrNoCleanupPolicy = errors.New("xrotate: no cleanup policy configured")

	// ErrInvalidFileMode FileMode 包含非权限位（仅允许低 9 位 0000~0777）
	ErrInvalidFileMode = errors.New("xrotate: invalid FileMode")

	// ErrInvalidThreshold 归档阈值必须大于 0
	ErrInvalidThreshold = errors.New("xrotate: invalid archive threshold")

	// ErrInvalidRetention 保留期必须大于 0
	ErrInvalidRetention = errors.New("xrotate: invalid retention")

	// ErrInvalidArchiveDir 归档目录名无效
	ErrInvalidArchiveDir = errors.New("xrotate: invalid archive directory")
)

// 运行期错误
var (
	// ErrClosed 轮转器已关闭
	ErrClosed = errors.New("xrotate: rotator is closed")

	// ErrArchiveFailed 活动文件移入归档目录失败，活动文件保持原样
	ErrArchiveFailed = errors.New("xrotate: archive live file failed")

	// ErrRecreateFailed 归档已完成但新的空活动文件创建失败
	ErrRecreateFailed = errors.New("xrotate: recreate live file failed")

	// ErrPruneFailed 部分过期归档删除失败
	ErrPruneFailed = errors.New("xrotate: prune archives failed")
)
