package xapplog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/omeyang/duallog/pkg/observability/xlog"
	"github.com/omeyang/duallog/pkg/observability/xmetrics"
	"github.com/omeyang/duallog/pkg/observability/xrotate"
	"github.com/omeyang/duallog/pkg/util/xfile"
)

var readFileFn = os.ReadFile

// GetAllLogs 返回应用日志的全部行。
//
// 未初始化、降级或文件不存在时返回空切片，从不返回 nil。
func (s *Service) GetAllLogs() []string {
	if !s.initialized.Load() || s.Degraded() {
		return []string{}
	}

	s.w.mu.Lock()
	data, err := readFileFn(s.cfg.App.Path())
	s.w.mu.Unlock()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.diag.Warn(context.Background(), "read application log failed",
				xlog.Path(s.cfg.App.Path()), xlog.Err(err))
		}
		return []string{}
	}
	return splitLines(string(data))
}

func splitLines(content string) []string {
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return []string{}
	}
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// ExportLogs 将应用日志复制到 targetDir，文件名带导出时间戳。
func (s *Service) ExportLogs(targetDir string) bool {
	return s.export(sinkApp, s.cfg.App.Path(), targetDir)
}

// ExportSystemLogs 将系统日志复制到 targetDir，文件名带导出时间戳。
func (s *Service) ExportSystemLogs(targetDir string) bool {
	return s.export(sinkSystem, s.cfg.System.Path(), targetDir)
}

// ExportName 返回 src 在时间戳 stamp 下的导出文件名。
func ExportName(src, stamp string) string {
	name := filepath.Base(src)
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_" + stamp + ext
}

func (s *Service) export(sinkName, src, targetDir string) (ok bool) {
	ctx, span := xmetrics.Start(context.Background(), s.opts.observer, xmetrics.SpanOptions{
		Component: "xapplog",
		Operation: "export",
		Kind:      xmetrics.KindInternal,
		Attrs:     []xmetrics.Attr{{Key: "sink", Value: sinkName}},
	})
	var err error
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = errors.Join(err, errors.New("export panicked"))
		}
		if err != nil {
			s.diag.Warn(ctx, "log export failed",
				xlog.Sink(sinkName), xlog.Path(targetDir), xlog.Err(err))
		}
		span.End(xmetrics.Result{Err: err})
	}()

	if strings.TrimSpace(targetDir) == "" {
		err = xfile.ErrEmptyPath
		return false
	}
	if err = xfile.EnsureDirPath(targetDir, xfile.DefaultDirPerm); err != nil {
		return false
	}

	s.w.mu.Lock()
	defer s.w.mu.Unlock()

	dst := filepath.Join(targetDir, ExportName(src, s.opts.now().Format(xrotate.ArchiveTimeLayout)))
	var n int64
	if n, err = xfile.CopyFile(src, dst); err != nil {
		return false
	}
	s.diag.Debug(ctx, "log exported", xlog.Sink(sinkName), xlog.Path(dst), xlog.Size(n))
	return true
}
