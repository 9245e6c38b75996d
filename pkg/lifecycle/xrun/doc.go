// Package xrun 提供基于 errgroup + context 的进程生命周期管理。
//
// 任一服务返回错误或收到终止信号时，共享的 context 被取消，
// 所有服务监听 ctx.Done() 后退出。
//
//	err := xrun.RunServices(ctx, []xrun.Option{xrun.WithName("duallog")},
//	    xrun.Named("logger", svc),
//	    xrun.Named("stdin", xrun.ServiceFunc(xrun.LineReader(os.Stdin, handle))),
//	)
//	if errors.Is(err, xrun.ErrSignal) {
//	    // 信号退出
//	}
//
// 收到信号时 Wait 返回 *SignalError，普通的 context 取消返回 nil。
package xrun
