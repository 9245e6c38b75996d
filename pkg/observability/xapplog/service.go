package xapplog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/omeyang/duallog/pkg/lifecycle/xcron"
	"github.com/omeyang/duallog/pkg/observability/xlog"
	"github.com/omeyang/duallog/pkg/observability/xrotate"
	"github.com/omeyang/duallog/pkg/util/xfile"
	"github.com/omeyang/duallog/pkg/util/xproc"
)

// MaintenanceJobName 周期维护任务在调度器中的名称。
const MaintenanceJobName = "system-log-maintenance"

// Service 双文件日志服务。
//
// 所有日志调用写入应用日志和系统日志两个文件，并镜像到控制台。
// 日志调用永远不返回错误：写入失败只记录到诊断日志。
// 零值不可用，使用 [New] 创建；首次日志调用会自动 Init。
type Service struct {
	cfg  Config
	opts options
	w    *writer
	diag xlog.Logger

	// archiver 和 scheduler 由 Init 发布，可能与日志调用、Status、Close 并发读取
	archiver  atomic.Pointer[xrotate.Archiver]
	schedMu   sync.Mutex
	scheduler Scheduler

	initOnce    sync.Once
	initErr     error
	initialized atomic.Bool
	closed      atomic.Bool
	closeDiag   func() error

	// maintMu 用 TryLock 保证维护检查不重叠
	maintMu sync.Mutex

	// beforeMaintain 测试钩子，在每次检查开始时调用
	beforeMaintain func()
}

// New 创建服务，不触碰文件系统。
func New(cfg Config, opts ...Option) *Service {
	o := options{
		console: os.Stdout,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	s := &Service{cfg: cfg, opts: o}

	if o.logger != nil {
		s.diag = o.logger
	} else {
		diag, cleanup, err := NewDiagnostics(cfg.Diagnostics)
		if err != nil {
			diag = xlog.Default()
			diag.Warn(context.Background(), "diagnostics config rejected, using default logger", xlog.Err(err))
		}
		s.diag = diag
		s.closeDiag = cleanup
	}
	s.diag = s.diag.With(xlog.Component("xapplog"))

	metrics, err := newInstruments(o.meterProvider)
	if err != nil {
		s.diag.Warn(context.Background(), "metric instruments unavailable", xlog.Err(err))
	}

	retryer := o.retryer
	if retryer == nil {
		attempts := cfg.Writer.Retry
		if attempts.Attempts < 1 {
			attempts.Attempts = 1
		}
		retryer = newRetryer(attempts)
	}

	s.w = &writer{
		sinks: []*sink{
			newSink(sinkApp, cfg.App.Path(), newSinkBreaker(sinkApp, cfg.Writer.Breaker, s.diag)),
			newSink(sinkSystem, cfg.System.Path(), newSinkBreaker(sinkSystem, cfg.Writer.Breaker, s.diag)),
		},
		appender: fileAppender{},
		retryer:  retryer,
		console:  o.console,
		mirror:   cfg.Writer.MirrorStdout,
		now:      o.now,
		diag:     s.diag,
		metrics:  metrics,
	}
	return s
}

// NewDiagnostics 按配置构建诊断日志，File 非空时使用 lumberjack 轮转文件。
func NewDiagnostics(cfg DiagnosticsConfig) (xlog.LoggerWithLevel, func() error, error) {
	b := xlog.New().SetLevelString(orDefault(cfg.Level, DefaultDiagLevel)).SetFormat(cfg.Format)
	if cfg.File != "" {
		b = b.SetRotation(cfg.File)
	}
	return b.Build()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Init 创建日志目录并启动周期维护，重复调用无效果。
//
// 目录创建失败时进入降级模式（只输出到控制台）并返回 nil，调用方不会被阻塞。
// 配置非法时同样降级，返回包装 ErrInvalidConfig 的错误。
func (s *Service) Init(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s.initOnce.Do(func() {
		s.initErr = s.init(ctx)
		s.initialized.Store(true)
	})
	return s.initErr
}

func (s *Service) init(ctx context.Context) error {
	if err := s.cfg.Validate(); err != nil {
		s.degrade(ctx, "invalid configuration", err)
		return err
	}

	for _, dir := range []string{s.cfg.App.Dir, s.cfg.System.Dir} {
		if err := xfile.EnsureDirPath(dir, xfile.DefaultDirPerm); err != nil {
			s.degrade(ctx, "cannot create log directory", err, xlog.Path(dir))
			return nil
		}
	}

	archiver, err := xrotate.NewArchiver(s.cfg.System.Path(),
		xrotate.WithThreshold(s.cfg.System.MaxSize),
		xrotate.WithRetention(s.cfg.Archive.Retention),
		xrotate.WithArchiveDir(s.cfg.Archive.Dir),
		xrotate.WithLocker(&s.w.mu),
		xrotate.WithClock(s.opts.now),
		xrotate.WithFileTime(s.opts.fileTime),
	)
	if err != nil {
		s.degrade(ctx, "cannot set up archiving", err)
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	s.archiver.Store(archiver)

	if s.cfg.Rotation.Enabled && !s.opts.noScheduler {
		if err := s.startScheduler(); err != nil {
			// 周期维护不可用时日志写入照常进行
			s.diag.Error(ctx, "maintenance scheduler not started", xlog.Err(err))
		}
	}

	s.diag.Debug(ctx, "log service initialized",
		slog.String("app", s.cfg.App.Path()),
		slog.String("system", s.cfg.System.Path()))
	return nil
}

func (s *Service) degrade(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	s.w.degraded.Store(true)
	s.diag.Error(ctx, msg+", falling back to console only", append(attrs, xlog.Err(err))...)
}

func (s *Service) startScheduler() error {
	sched := s.opts.scheduler
	if sched == nil {
		sched = xcron.New(xcron.WithLogger(s.diag))
	}
	interval := s.cfg.Rotation.Interval
	_, err := sched.AddFunc("@every "+interval.String(), s.maintenanceJob,
		xcron.WithName(MaintenanceJobName),
		xcron.WithImmediate(),
		xcron.WithSkipIfRunning(),
		xcron.WithTimeout(interval),
		xcron.WithObserver(s.opts.observer),
	)
	if err != nil {
		return err
	}
	sched.Start()
	s.schedMu.Lock()
	s.scheduler = sched
	s.schedMu.Unlock()
	return nil
}

func (s *Service) activeScheduler() Scheduler {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	return s.scheduler
}

// ensureInit 首次使用时惰性初始化。
func (s *Service) ensureInit() {
	if !s.initialized.Load() {
		_ = s.Init(context.Background())
	}
}

// Close 停止周期维护并等待进行中的检查结束。
//
// 之后的日志调用只输出到控制台。重复调用返回 ErrClosed。
func (s *Service) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	// 等待进行中的 Init，使其启动的调度器一定在下面被停止
	s.initOnce.Do(func() {})
	if sched := s.activeScheduler(); sched != nil {
		<-sched.Stop().Done()
	}
	// 等待手动触发的检查
	s.maintMu.Lock()
	s.maintMu.Unlock() //nolint:staticcheck // 仅用于等待

	if s.closeDiag != nil {
		return s.closeDiag()
	}
	return nil
}

// Run 实现 xrun.Service：Init 后阻塞到 ctx 结束，然后 Close。
func (s *Service) Run(ctx context.Context) error {
	if err := s.Init(ctx); err != nil && !errors.Is(err, ErrInvalidConfig) {
		return err
	}
	<-ctx.Done()
	if err := s.Close(); err != nil && !errors.Is(err, ErrClosed) {
		return err
	}
	return nil
}

// Degraded 报告是否处于降级模式。
func (s *Service) Degraded() bool {
	return s.w.degraded.Load()
}

// Closed 报告服务是否已关闭。
func (s *Service) Closed() bool {
	return s.closed.Load()
}

// Diagnostics 返回服务使用的诊断日志。
func (s *Service) Diagnostics() xlog.Logger {
	return s.diag
}

// ============================================================================
// 日志 API
// ============================================================================

// LogInfo 写入 INFO 日志。
func (s *Service) LogInfo(message string) {
	s.log(LevelInfo, message)
}

// LogWarning 写入 WARNING 日志。
func (s *Service) LogWarning(message string) {
	s.log(LevelWarning, message)
}

// LogError 写入 ERROR 日志。
func (s *Service) LogError(message string) {
	s.log(LevelError, message)
}

// LogErrorCause 写入 ERROR 日志，并展开 cause 的错误链。
func (s *Service) LogErrorCause(message string, cause error) {
	s.log(LevelError, DescribeError(message, cause))
}

// Log 按指定级别写入日志。
func (s *Service) Log(level Level, message string) {
	s.log(level, message)
}

func (s *Service) log(level Level, message string) {
	defer func() {
		if r := recover(); r != nil {
			s.diag.Error(context.Background(), "log write panicked", slog.Any("panic", r))
		}
	}()

	if s.closed.Load() {
		s.w.echo(FormatLine(s.opts.now(), level, message))
		return
	}
	s.ensureInit()
	s.w.write(context.Background(), level, message)
}

// ============================================================================
// 路径
// ============================================================================

// AppLogDir 返回应用日志目录。
func (s *Service) AppLogDir() string { return s.cfg.App.Dir }

// AppLogFile 返回应用日志文件名。
func (s *Service) AppLogFile() string { return s.cfg.App.File }

// AppLogPath 返回应用日志完整路径。
func (s *Service) AppLogPath() string { return s.cfg.App.Path() }

// SystemLogDir 返回系统日志目录。
func (s *Service) SystemLogDir() string { return s.cfg.System.Dir }

// SystemLogFile 返回系统日志文件名。
func (s *Service) SystemLogFile() string { return s.cfg.System.File }

// SystemLogPath 返回系统日志完整路径。
func (s *Service) SystemLogPath() string { return s.cfg.System.Path() }

// ArchiveDir 返回归档目录。
func (s *Service) ArchiveDir() string {
	if a := s.archiver.Load(); a != nil {
		return a.ArchiveDir()
	}
	if filepath.IsAbs(s.cfg.Archive.Dir) {
		return filepath.Clean(s.cfg.Archive.Dir)
	}
	return filepath.Join(s.cfg.System.Dir, s.cfg.Archive.Dir)
}

// ============================================================================
// 状态
// ============================================================================

// Status 服务状态快照。
type Status struct {
	Process       xproc.Info      `json:"process"`
	AppLogPath    string          `json:"app_log_path"`
	SystemLogPath string          `json:"system_log_path"`
	ArchiveDir    string          `json:"archive_dir"`
	Initialized   bool            `json:"initialized"`
	Degraded      bool            `json:"degraded"`
	Closed        bool            `json:"closed"`
	AppLogSize    int64           `json:"app_log_size"`
	SystemLogSize int64           `json:"system_log_size"`
	Archives      int             `json:"archives"`
	Scheduler     *xcron.Snapshot `json:"scheduler,omitempty"`
}

// Status 返回当前状态，不触发初始化。
func (s *Service) Status() Status {
	st := Status{
		Process:       xproc.Current(),
		AppLogPath:    s.AppLogPath(),
		SystemLogPath: s.SystemLogPath(),
		ArchiveDir:    s.ArchiveDir(),
		Initialized:   s.initialized.Load(),
		Degraded:      s.Degraded(),
		Closed:        s.Closed(),
		AppLogSize:    fileSize(s.AppLogPath()),
		SystemLogSize: fileSize(s.SystemLogPath()),
	}
	if a := s.archiver.Load(); a != nil {
		if archives, err := a.Archives(); err == nil {
			st.Archives = len(archives)
		}
	}
	if sp, ok := s.activeScheduler().(statsProvider); ok {
		snap := sp.Stats().Snapshot()
		st.Scheduler = &snap
	}
	return st
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
