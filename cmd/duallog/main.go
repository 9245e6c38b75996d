// duallog 是双文件日志服务的命令行入口。
//
// 用法:
//
//	duallog [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config      配置文件路径（YAML/JSON），环境变量 DUALLOG_CONFIG
//	    --app-dir     应用日志目录，覆盖配置
//	    --system-dir  系统日志目录，覆盖配置
//	    --log-level   诊断日志级别 (debug/info/warn/error)
//
// 命令:
//
//	write <level> <message...>  写入一条日志，--cause 可多次指定错误链
//	show                        输出应用日志全部内容，--tail 只输出末尾 N 行
//	export <dir>                导出应用日志，--system 导出系统日志
//	maintain                    立即执行一次轮转和归档清理
//	status                      以 JSON 输出服务状态
//	serve                       常驻运行：周期维护、从标准输入读取日志、配置热重载
//
// 退出码:
//
//	0: 成功
//	1: 执行失败（如导出失败、维护出错）
//	2: 参数错误
//
// 示例:
//
//	duallog write info "service started"
//	duallog write error "DB connect failed" --cause "dial tcp: i/o timeout"
//	duallog export --system /tmp/support
//	tail -F /var/log/app.out | duallog serve -c /etc/duallog.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:    "duallog",
		Usage:   "双文件日志服务命令行工具",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径（YAML/JSON）",
				Sources: cli.EnvVars("DUALLOG_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "app-dir",
				Usage: "应用日志目录",
			},
			&cli.StringFlag{
				Name:  "system-dir",
				Usage: "系统日志目录",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "诊断日志级别 (debug/info/warn/error)",
			},
		},
		Commands:       createCommands(),
		DefaultCommand: "help",
		// 由 run() 统一映射退出码，不让 urfave/cli 直接 os.Exit
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
	}
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandler(cancel)

	return exitCode(createApp().Run(ctx, os.Args))
}

// exitCode 将命令错误映射为退出码并输出错误信息。
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
		return 2
	}
	if isCLIUsageError(err) {
		// flag 解析器已向 stderr 输出详情
		return 2
	}
	fmt.Fprintf(os.Stderr, "错误: %v\n", err)
	return 1
}

// isCLIUsageError 判断是否为 urfave/cli 产生的参数错误。
func isCLIUsageError(err error) bool {
	msg := err.Error()
	for _, s := range []string{
		"flag provided but not defined",
		"flag needs an argument",
		"invalid value",
		"No help topic for",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// setupSignalHandler 第一次信号取消 ctx，第二次强制退出（130 = 128 + SIGINT）。
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()

		<-sigCh
		signal.Stop(sigCh)
		os.Exit(130)
	}()
}
