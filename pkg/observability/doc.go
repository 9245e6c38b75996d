// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xapplog: 双文件应用日志服务（应用日志 + 系统日志，重试、降级、轮转、导出）
//   - xlog: 结构化诊断日志，基于 log/slog 扩展
//   - xmetrics: 统一可观测性接口（指标、追踪）
//   - xrotate: 系统日志归档与过期清理
//   - xsampling: 计数采样，用于限制重复告警
package observability
