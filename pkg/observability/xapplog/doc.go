// Package xapplog 双文件应用日志服务。
//
// 每条日志同时追加到应用日志（app_log.txt）和系统日志（system_log.txt），
// 并镜像到控制台。行格式：
//
//	2024-03-01 12:00:00 [INFO] message
//
// 系统日志超过 50MB 时归档到 Archive/system_log_yyyyMMdd_HHmmss.txt，
// 创建时间超过 30 天的归档被清理。维护检查在启动时立即执行一次，之后每小时一次。
//
// # 快速开始
//
//	svc := xapplog.New(xapplog.DefaultConfig())
//	if err := svc.Init(ctx); err != nil {
//	    // 配置非法，服务已降级为只输出控制台
//	}
//	defer svc.Close()
//
//	svc.LogInfo("started")
//	svc.LogErrorCause("DB connect failed", err)
//
// # 失败语义
//
// 日志调用从不返回错误、从不 panic。单个文件写入失败时按 writer.retry 重试
// （默认 3 次，第 N 次重试前等待 N×100ms），仍失败则丢弃并输出到控制台。
// 日志目录无法创建时进入降级模式，只输出到控制台。
// 失败细节记录在诊断日志（xlog）和 OTel 计数器中，不会写回日志文件。
//
// # 维护
//
// [Service.RunMaintenance] 同步执行一次检查，检查互不重叠。
// 轮转公告在写锁释放后通过普通写入路径记录，写锁不可重入。
package xapplog
