package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/duallog/pkg/config/xconf"
	"github.com/omeyang/duallog/pkg/observability/xapplog"
	"github.com/omeyang/duallog/pkg/observability/xlog"
	"github.com/omeyang/duallog/pkg/util/xjson"
)

// exitError 命令已完成输出，只需设置非零退出码。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// usageError 参数或配置错误，退出码 2。
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

func createCommands() []*cli.Command {
	return []*cli.Command{
		createWriteCommand(),
		createShowCommand(),
		createExportCommand(),
		createMaintainCommand(),
		createStatusCommand(),
		createServeCommand(),
	}
}

// env 一次命令执行所需的配置和诊断日志。
type env struct {
	cfg       xapplog.Config
	src       xconf.Config
	diag      xlog.LoggerWithLevel
	closeDiag func() error
	out       io.Writer
}

func (e *env) close() {
	if e.closeDiag != nil {
		_ = e.closeDiag()
	}
}

// newService 创建并初始化服务。一次性命令不注册周期维护。
func (e *env) newService(ctx context.Context, opts ...xapplog.Option) (*xapplog.Service, error) {
	base := []xapplog.Option{
		xapplog.WithLogger(e.diag),
		xapplog.WithConsole(e.out),
	}
	svc := xapplog.New(e.cfg, append(base, opts...)...)
	if err := svc.Init(ctx); err != nil {
		_ = svc.Close()
		return nil, err
	}
	return svc, nil
}

// loadEnv 按全局选项加载配置：配置文件 < 命令行覆盖。
func loadEnv(cmd *cli.Command) (*env, error) {
	cfg := xapplog.DefaultConfig()
	var src xconf.Config
	if path := cmd.String("config"); path != "" {
		var err error
		if cfg, src, err = xapplog.LoadConfig(path); err != nil {
			return nil, &usageError{err: err}
		}
	}
	if cmd.IsSet("app-dir") {
		cfg.App.Dir = cmd.String("app-dir")
	}
	if cmd.IsSet("system-dir") {
		cfg.System.Dir = cmd.String("system-dir")
	}
	if cmd.IsSet("log-level") {
		cfg.Diagnostics.Level = cmd.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return nil, &usageError{err: err}
	}

	diag, cleanup, err := xapplog.NewDiagnostics(cfg.Diagnostics)
	if err != nil {
		return nil, &usageError{err: err}
	}
	return &env{
		cfg:       cfg,
		src:       src,
		diag:      diag,
		closeDiag: cleanup,
		out:       cmd.Root().Writer,
	}, nil
}

// withService 加载配置并创建服务，fn 返回后关闭服务。
func withService(ctx context.Context, cmd *cli.Command, fn func(*env, *xapplog.Service) error) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	svc, err := e.newService(ctx, xapplog.WithoutScheduler())
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()
	return fn(e, svc)
}

// =============================================================================
// write
// =============================================================================

func createWriteCommand() *cli.Command {
	return &cli.Command{
		Name:      "write",
		Aliases:   []string{"w"},
		Usage:     "写入一条日志",
		ArgsUsage: "<level> <message...>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "cause",
				Usage: "错误链，由外到内依次指定，仅 error 级别有效",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) < 2 {
				return usageErrorf("write 需要级别和消息")
			}
			level, err := xapplog.ParseLevel(args[0])
			if err != nil {
				return &usageError{err: err}
			}
			message := strings.Join(args[1:], " ")
			causes := cmd.StringSlice("cause")

			return withService(ctx, cmd, func(_ *env, svc *xapplog.Service) error {
				if len(causes) > 0 {
					svc.Log(level, xapplog.DescribeError(message, causeChain(causes)))
					return nil
				}
				svc.Log(level, message)
				return nil
			})
		},
	}
}

// chainError 命令行构造的错误链节点。
type chainError struct {
	msg   string
	cause error
}

func (e *chainError) Error() string { return e.msg }

func (e *chainError) Unwrap() error { return e.cause }

// causeChain 将 ["outer", "inner"] 构造为 outer -> inner 的错误链。
func causeChain(msgs []string) error {
	var err error
	for i := len(msgs) - 1; i >= 0; i-- {
		err = &chainError{msg: msgs[i], cause: err}
	}
	return err
}

// =============================================================================
// show
// =============================================================================

func createShowCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "输出应用日志",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "tail",
				Usage: "只输出最后 N 行，0 表示全部",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			tail := cmd.Int("tail")
			if tail < 0 {
				return usageErrorf("--tail 不能为负数")
			}
			return withService(ctx, cmd, func(e *env, svc *xapplog.Service) error {
				lines := svc.GetAllLogs()
				if tail > 0 && len(lines) > tail {
					lines = lines[len(lines)-tail:]
				}
				for _, l := range lines {
					if _, err := fmt.Fprintln(e.out, l); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

// =============================================================================
// export
// =============================================================================

func createExportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Aliases:   []string{"e"},
		Usage:     "导出日志到指定目录",
		ArgsUsage: "<target-dir>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "system",
				Usage: "导出系统日志（默认导出应用日志）",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return usageErrorf("export 需要一个目标目录")
			}
			target := cmd.Args().First()
			system := cmd.Bool("system")

			return withService(ctx, cmd, func(e *env, svc *xapplog.Service) error {
				ok, src := false, svc.AppLogPath()
				if system {
					ok, src = svc.ExportSystemLogs(target), svc.SystemLogPath()
				} else {
					ok = svc.ExportLogs(target)
				}
				if !ok {
					fmt.Fprintf(e.out, "导出失败: %s\n", filepath.Base(src))
					return &exitError{code: 1}
				}
				fmt.Fprintf(e.out, "已导出 %s 到 %s\n", filepath.Base(src), target)
				return nil
			})
		},
	}
}

// =============================================================================
// maintain
// =============================================================================

func createMaintainCommand() *cli.Command {
	return &cli.Command{
		Name:  "maintain",
		Usage: "立即执行一次轮转检查和归档清理",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withService(ctx, cmd, func(e *env, svc *xapplog.Service) error {
				if err := svc.RunMaintenance(ctx); err != nil {
					if errors.Is(err, xapplog.ErrDegraded) {
						return fmt.Errorf("日志目录不可用: %w", err)
					}
					return err
				}
				return nil
			})
		},
	}
}

// =============================================================================
// status
// =============================================================================

func createStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "以 JSON 输出服务状态",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withService(ctx, cmd, func(e *env, svc *xapplog.Service) error {
				return xjson.Encode(e.out, svc.Status())
			})
		},
	}
}
