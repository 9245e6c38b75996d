package xapplog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/omeyang/duallog/pkg/observability/xlog"
	"github.com/omeyang/duallog/pkg/observability/xmetrics"
)

// RunMaintenance 立即执行一次维护检查：系统日志超过阈值时归档，并清理过期归档。
//
// 检查互不重叠，已有检查进行中时返回 ErrMaintenanceRunning。
// 检查中的 panic 被恢复并以 ErrMaintenancePanic 返回。
func (s *Service) RunMaintenance(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.ensureInit()
	if s.Degraded() || s.archiver.Load() == nil {
		return ErrDegraded
	}
	return s.maintain(ctx)
}

// maintenanceJob 由调度器周期调用。关闭或降级后静默跳过。
func (s *Service) maintenanceJob(ctx context.Context) error {
	if s.closed.Load() || s.Degraded() || s.archiver.Load() == nil {
		return nil
	}
	err := s.maintain(ctx)
	if errors.Is(err, ErrMaintenanceRunning) {
		return nil
	}
	return err
}

func (s *Service) maintain(ctx context.Context) (err error) {
	if !s.maintMu.TryLock() {
		return ErrMaintenanceRunning
	}
	defer s.maintMu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := xmetrics.Start(ctx, s.opts.observer, xmetrics.SpanOptions{
		Component: "xapplog",
		Operation: "maintenance",
		Kind:      xmetrics.KindInternal,
		Attrs:     []xmetrics.Attr{{Key: "path", Value: s.cfg.System.Path()}},
	})

	var rotated string
	var removed []string
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrMaintenancePanic, r)
			s.diag.Error(ctx, "maintenance panicked", slog.Any("panic", r))
			s.w.write(ctx, LevelError, DescribeError("Log maintenance failed", err))
		}
		span.End(xmetrics.Result{
			Err: err,
			Attrs: []xmetrics.Attr{
				{Key: "rotated", Value: rotated != ""},
				{Key: "pruned", Value: len(removed)},
			},
		})
	}()

	if s.beforeMaintain != nil {
		s.beforeMaintain()
	}

	var errs []error

	// RotateIfNeeded 在写锁内完成改名和重建，锁释放后才写入公告，避免重入。
	archiver := s.archiver.Load()
	target, rerr := archiver.RotateIfNeeded()
	if target != "" {
		rotated = target
		s.w.metrics.rotated(ctx)
		s.w.write(ctx, LevelInfo, "System log rotated to "+target)
	}
	if rerr != nil {
		errs = append(errs, rerr)
		s.w.write(ctx, LevelError, DescribeError("Failed to rotate system log", rerr))
	}

	removed, perr := archiver.Prune()
	if len(removed) > 0 {
		s.w.metrics.pruned(ctx, len(removed))
		names := make([]string, 0, len(removed))
		for _, p := range removed {
			names = append(names, filepath.Base(p))
		}
		s.diag.Info(ctx, "expired archives removed",
			xlog.Count(int64(len(removed))), slog.Any("files", names))
	}
	if perr != nil {
		errs = append(errs, perr)
		s.w.write(ctx, LevelWarning, DescribeError("Failed to prune archived system logs", perr))
	}

	if size := fileSize(s.cfg.App.Path()); size > s.cfg.App.MaxSize {
		s.diag.Warn(ctx, "application log exceeds soft limit",
			xlog.Path(s.cfg.App.Path()), xlog.Size(size), slog.Int64("limit", s.cfg.App.MaxSize))
	}

	return errors.Join(errs...)
}
