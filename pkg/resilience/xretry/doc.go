// Package xretry 提供重试策略对象。
//
// RetryPolicy 决定是否继续，BackoffPolicy 决定等待多久，Retryer 把两者
// 组合到 [avast/retry-go/v5] 之上。
//
// 日志写入器的默认配置是总共 3 次尝试、线性退避（第 N 次失败后等待 N×100ms）：
//
//	retryer := xretry.NewRetryer(
//	    xretry.WithRetryPolicy(xretry.NewFixedRetry(3)),
//	    xretry.WithBackoffPolicy(xretry.NewLinearBackoff(100*time.Millisecond, 100*time.Millisecond, 300*time.Millisecond)),
//	)
//
// 测试中使用 NewNoBackoff 即可获得确定且无等待的重试。
//
// # 错误分类
//
//   - NewPermanentError(err)：不再重试（如权限错误）
//   - NewTemporaryError(err)：显式标记为可重试
//   - Unrecoverable(err)：retry-go 原生的不可恢复标记
//
// [avast/retry-go/v5]: https://github.com/avast/retry-go
package xretry
