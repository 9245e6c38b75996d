package xlog_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/omeyang/duallog/pkg/observability/xlog"
)

func Example() {
	logger, cleanup, err := xlog.New().
		SetOutput(os.Stdout).
		SetLevel(xlog.LevelWarn).
		SetReplaceAttr(func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		}).
		Build()
	if err != nil {
		return
	}
	defer func() { _ = cleanup() }()

	ctx := context.Background()
	logger.Info(ctx, "not shown")
	logger.Warn(ctx, "sink write failed", xlog.Sink("system"), xlog.Attempt(3))
	// Output:
	// level=WARN msg="sink write failed" sink=system attempt=3
}
