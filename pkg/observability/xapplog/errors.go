package xapplog

import "errors"

var (
	// ErrClosed 服务已关闭。
	ErrClosed = errors.New("xapplog: service closed")

	// ErrDegraded 服务处于降级模式，只输出到控制台。
	ErrDegraded = errors.New("xapplog: service degraded, file logging disabled")

	// ErrMaintenanceRunning 另一次维护检查仍在进行。
	ErrMaintenanceRunning = errors.New("xapplog: maintenance already running")

	// ErrMaintenancePanic 维护检查中发生 panic，已恢复。
	ErrMaintenancePanic = errors.New("xapplog: maintenance panicked")

	// ErrInvalidConfig 配置校验失败。
	ErrInvalidConfig = errors.New("xapplog: invalid config")

	// ErrUnknownLevel 无法识别的日志级别。
	ErrUnknownLevel = errors.New("xapplog: unknown level")
)
