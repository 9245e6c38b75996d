// Package xmetrics 提供统一的可观测性接口（metrics + tracing）。
//
// 业务代码只依赖 Observer/Span；默认实现基于 OpenTelemetry。
//
//	obs, _ := xmetrics.NewOTelObserver()
//	ctx, span := xmetrics.Start(ctx, obs, xmetrics.SpanOptions{
//		Component: "xapplog",
//		Operation: "maintenance",
//	})
//	defer span.End(xmetrics.Result{Err: err})
//
// # 指标命名
//
//   - duallog.operation.total（counter）
//   - duallog.operation.duration（histogram，单位秒）
//
// 属性：component / operation / status。
package xmetrics
