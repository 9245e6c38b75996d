// Package xsampling 诊断事件采样。
//
// 日志写入器用 [CountSampler] 控制 sink 持续失败时的告警频率：
//
//	s, _ := xsampling.NewCountSampler(100)
//	if s.ShouldSample(ctx) {
//	    diag.Warn(ctx, "log append failed", xlog.Count(int64(s.Seen())))
//	}
//	// 写入恢复后
//	s.Reset()
package xsampling
