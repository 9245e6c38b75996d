package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/duallog/pkg/config/xconf"
	"github.com/omeyang/duallog/pkg/lifecycle/xrun"
	"github.com/omeyang/duallog/pkg/observability/xapplog"
	"github.com/omeyang/duallog/pkg/observability/xlog"
)

func createServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "常驻运行：周期维护、从标准输入读取日志、配置热重载",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "stdin",
				Usage: "逐行读取标准输入写入日志，行首 \"warn:\"/\"error:\" 指定级别",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "配置文件变更时重载诊断日志级别",
				Value: true,
			},
		},
		Action: cmdServe,
	}
}

func cmdServe(ctx context.Context, cmd *cli.Command) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	svc := xapplog.New(e.cfg, xapplog.WithLogger(e.diag), xapplog.WithConsole(e.out))
	services := []xrun.NamedService{xrun.Named("duallog", svc)}

	if cmd.Bool("stdin") {
		ingest := xrun.LineReader(cmd.Root().Reader, func(_ context.Context, line string) {
			level, msg := parseEntry(line)
			svc.Log(level, msg)
		})
		services = append(services, xrun.Named("stdin", xrun.ServiceFunc(ingest)))
	}

	if cmd.Bool("watch") && e.src != nil {
		w, err := xconf.Watch(e.src, reloadDiagnostics(e.diag))
		if err != nil {
			e.diag.Warn(ctx, "config watch disabled", xlog.Err(err))
		} else {
			services = append(services, xrun.Named("config-watch", xrun.ServiceFunc(w.Run)))
		}
	}

	err = xrun.RunServices(ctx, []xrun.Option{
		xrun.WithName("duallog"),
		xrun.WithLogger(e.diag),
	}, services...)
	if errors.Is(err, xrun.ErrSignal) {
		return nil
	}
	return err
}

// parseEntry 解析 "level: message" 形式的输入行，无法识别的前缀按 INFO 处理整行。
func parseEntry(line string) (xapplog.Level, string) {
	prefix, rest, ok := strings.Cut(line, ":")
	if !ok || strings.ContainsAny(prefix, " \t") {
		return xapplog.LevelInfo, line
	}
	level, err := xapplog.ParseLevel(prefix)
	if err != nil {
		return xapplog.LevelInfo, line
	}
	return level, strings.TrimSpace(rest)
}

// reloadDiagnostics 配置文件变更后重新应用 diagnostics.level。
func reloadDiagnostics(diag xlog.LoggerWithLevel) xconf.WatchCallback {
	return func(src xconf.Config, err error) {
		ctx := context.Background()
		if err != nil {
			diag.Warn(ctx, "config reload failed", xlog.Err(err))
			return
		}
		cfg, err := xapplog.DecodeConfig(src)
		if err != nil {
			diag.Warn(ctx, "reloaded config rejected", xlog.Err(err))
			return
		}
		level, err := xlog.ParseLevel(cfg.Diagnostics.Level)
		if err != nil {
			diag.Warn(ctx, "reloaded diagnostics level rejected", xlog.Err(err))
			return
		}
		diag.SetLevel(level)
		diag.Info(ctx, "diagnostics level reloaded", slog.String("level", level.String()))
	}
}
