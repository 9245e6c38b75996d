package xrun

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// Service 可管理的服务，Run 阻塞直到 ctx 取消或出错。
type Service interface {
	Run(ctx context.Context) error
}

// ServiceFunc 将函数适配为 Service。
type ServiceFunc func(ctx context.Context) error

func (f ServiceFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// NamedService 带名称的服务，名称用于生命周期日志。
type NamedService struct {
	Name    string
	Service Service
}

// Named 为服务附加名称。
func Named(name string, svc Service) NamedService {
	return NamedService{Name: name, Service: svc}
}

// DefaultSignals 返回默认监听的信号：SIGHUP、SIGINT、SIGTERM、SIGQUIT。
func DefaultSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	}
}

// RunServices 运行多个服务并监听信号，任一服务退出时协调关闭其余服务。
func RunServices(ctx context.Context, opts []Option, services ...NamedService) error {
	g, _ := NewGroup(ctx, opts...)

	if !g.opts.noSignalHandler {
		g.Go(g.signalHandler)
	}
	for _, s := range services {
		g.GoNamed(s.Name, s.Service)
	}
	return g.Wait()
}

func (g *Group) signalHandler(ctx context.Context) error {
	signals := g.opts.signals
	// 空列表时 signal.Notify 会订阅所有信号
	if len(signals) == 0 {
		signals = DefaultSignals()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)
	defer signal.Stop(sigCh)

	var sig os.Signal
	select {
	case sig = <-testSigChan(ctx):
	case sig = <-sigCh:
	case <-ctx.Done():
		return ctx.Err()
	}

	g.opts.logger.Info(ctx, "received signal",
		slog.String("group", g.opts.name),
		slog.String("signal", sig.String()),
	)
	g.cancel(&SignalError{Signal: sig})
	return nil
}

// testSigChanKey 测试通过 context 注入信号，避免发送真实信号。
type testSigChanKey struct{}

func testSigChan(ctx context.Context) <-chan os.Signal {
	c, _ := ctx.Value(testSigChanKey{}).(<-chan os.Signal)
	return c
}

func withTestSigChan(ctx context.Context, c <-chan os.Signal) context.Context {
	return context.WithValue(ctx, testSigChanKey{}, c)
}
