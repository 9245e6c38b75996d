// Package xbreaker 基于 sony/gobreaker/v2 提供熔断器。
//
// 典型用法是把重试包在熔断内部，熔断打开时连重试都不发生：
//
//	b := xbreaker.NewBreaker("system_log",
//	    xbreaker.WithTripPolicy(xbreaker.NewConsecutiveFailures(5)),
//	    xbreaker.WithTimeout(30*time.Second),
//	)
//	err := b.Do(ctx, func() error {
//	    return retryer.Do(ctx, appendLine)
//	})
//	if xbreaker.IsOpen(err) {
//	    // 跳过该 sink
//	}
package xbreaker
