// Package xrotate 提供日志文件轮转功能。
//
// # Archiver
//
// [NewArchiver] 面向"由外部周期性检查"的轮转：活动文件超过阈值时被移动到
// 归档目录，命名为 <base>_<yyyyMMdd_HHmmss><ext>，随后创建新的空活动文件。
// Prune 删除创建时间早于保留期的归档。Archiver 本身不启动 goroutine，
// 调度交给调用方。
//
//	a, err := xrotate.NewArchiver("/var/lib/app/system_log.txt",
//	    xrotate.WithThreshold(50<<20),
//	    xrotate.WithRetention(30*24*time.Hour),
//	    xrotate.WithLocker(&writerMu),
//	)
//	archived, err := a.RotateIfNeeded()
//	removed, err := a.Prune()
//
// 写入方以 O_APPEND 每次重新打开活动文件时，传入同一把锁即可保证
// 轮转期间没有写入落到已归档的文件里。
//
// # Rotator
//
// [NewLumberjack] 基于 lumberjack v2，在写入时按大小自动轮转，适合诊断日志
// 这类只需要"别无限增长"的输出。Rotator 实现 io.WriteCloser，所有实现并发安全。
package xrotate
