// Package xlog 基于 log/slog 的结构化日志库。
//
// 在本仓库中 xlog 记录的是日志子系统自身的诊断信息（写入重试、降级、
// 轮转失败等），与业务日志文件完全分开，避免诊断输出写回被诊断的文件。
//
// # 创建 Logger
//
//	logger, cleanup, err := xlog.New().
//	    SetLevel(xlog.LevelWarn).
//	    SetFormat("json").
//	    SetRotation("/var/log/app/diag.log", xrotate.WithMaxSize(20)).
//	    Build()
//	defer cleanup()
//
// Builder 为一次性使用，first-error-wins。
//
// # 级别
//
// LevelDebug、LevelInfo、LevelWarn、LevelError 与 slog 数值一致。
// [ParseLevel] 接受 debug/info/warn/warning/error；Level 实现
// encoding.TextUnmarshaler，可直接用于配置结构体。
// Build 返回的 [LoggerWithLevel] 支持运行时 SetLevel，派生 logger 共享级别。
//
// # 全局 Logger
//
// [Default]、[SetDefault]、[Debug]、[Info]、[Warn]、[Error]、[Stack]，
// 供命令行入口使用。
package xlog
