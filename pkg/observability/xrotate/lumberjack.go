package xrotate

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/omeyang/duallog/pkg/util/xfile"
)

const (
	// DefaultMaxSizeMB 诊断日志单文件默认上限
	DefaultMaxSizeMB = 20

	// DefaultMaxBackups 默认保留的备份数量
	DefaultMaxBackups = 5

	// DefaultMaxAgeDays 默认保留天数
	DefaultMaxAgeDays = 30

	maxSizeMB  = 10240
	maxBackups = 1024
	maxAgeDays = 3650
)

type lumberjackConfig struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	LocalTime  bool
	FileMode   os.FileMode
	OnError    func(error)
}

// Option lumberjack 轮转器配置选项
type Option func(*lumberjackConfig)

// WithMaxSize 设置单文件大小上限（MB）
func WithMaxSize(mb int) Option {
	return func(c *lumberjackConfig) { c.MaxSizeMB = mb }
}

// WithMaxBackups 设置备份数量上限，0 表示不按数量清理
func WithMaxBackups(n int) Option {
	return func(c *lumberjackConfig) { c.MaxBackups = n }
}

// WithMaxAge 设置备份保留天数，0 表示不按时间清理
func WithMaxAge(days int) Option {
	return func(c *lumberjackConfig) { c.MaxAgeDays = days }
}

// WithCompress 设置是否 gzip 压缩备份
func WithCompress(compress bool) Option {
	return func(c *lumberjackConfig) { c.Compress = compress }
}

// WithLocalTime 备份文件名使用本地时间
func WithLocalTime(local bool) Option {
	return func(c *lumberjackConfig) { c.LocalTime = local }
}

// WithFileMode 设置日志文件权限，0 表示沿用 lumberjack 的 0600
func WithFileMode(mode os.FileMode) Option {
	return func(c *lumberjackConfig) { c.FileMode = mode }
}

// WithOnError 设置调整文件权限失败时的回调。
//
// 回调不能再向同一个轮转器写入。回调中的 panic 会被吞掉。
func WithOnError(fn func(error)) Option {
	return func(c *lumberjackConfig) { c.OnError = fn }
}

type lumberjackRotator struct {
	logger   *lumberjack.Logger
	path     string
	fileMode os.FileMode
	onError  func(error)

	mu          sync.Mutex
	closed      atomic.Bool
	modeApplied atomic.Bool

	chmodFn func(string, os.FileMode) error
}

var _ Rotator = (*lumberjackRotator)(nil)

// NewLumberjack 创建基于 lumberjack 的轮转器。父目录不存在时自动创建。
func NewLumberjack(filename string, opts ...Option) (Rotator, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	cfg := lumberjackConfig{
		MaxSizeMB:  DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAgeDays: DefaultMaxAgeDays,
		Compress:   true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := validateLumberjackConfig(&cfg); err != nil {
		return nil, err
	}

	path := filepath.Clean(filename)
	if err := xfile.EnsureDir(path); err != nil {
		return nil, err
	}

	return &lumberjackRotator{
		logger: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  cfg.LocalTime,
		},
		path:     path,
		fileMode: cfg.FileMode,
		onError:  cfg.OnError,
		chmodFn:  os.Chmod,
	}, nil
}

func validateLumberjackConfig(cfg *lumberjackConfig) error {
	if cfg.MaxSizeMB <= 0 || cfg.MaxSizeMB > maxSizeMB {
		return fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidMaxSize, cfg.MaxSizeMB, maxSizeMB)
	}
	if cfg.MaxBackups < 0 || cfg.MaxBackups > maxBackups {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxBackups, cfg.MaxBackups, maxBackups)
	}
	if cfg.MaxAgeDays < 0 || cfg.MaxAgeDays > maxAgeDays {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxAge, cfg.MaxAgeDays, maxAgeDays)
	}
	if cfg.MaxBackups == 0 && cfg.MaxAgeDays == 0 {
		return fmt.Errorf("%w: MaxBackups and MaxAgeDays cannot both be 0", ErrNoCleanupPolicy)
	}
	if cfg.FileMode&^os.FileMode(0o777) != 0 {
		return fmt.Errorf("%w: got %04o, only permission bits (0000~0777) allowed",
			ErrInvalidFileMode, cfg.FileMode)
	}
	return nil
}

func (r *lumberjackRotator) Write(p []byte) (int, error) {
	if r.closed.Load() {
		return 0, ErrClosed
	}
	n, err := r.logger.Write(p)
	if err != nil {
		if r.closed.Load() {
			return n, ErrClosed
		}
		return n, err
	}
	// lumberjack 自动轮转后新文件的权限不会被通知，只在首次写入和手动 Rotate 后调整
	if r.fileMode != 0 && !r.modeApplied.Load() {
		r.reportError(r.applyFileMode())
	}
	return n, nil
}

func (r *lumberjackRotator) applyFileMode() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.chmodFn(r.path, r.fileMode); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	r.modeApplied.Store(true)
	return nil
}

func (r *lumberjackRotator) reportError(err error) {
	if err != nil && r.onError != nil {
		defer func() { recover() }() //nolint:errcheck // recover 返回值无需检查
		r.onError(err)
	}
}

func (r *lumberjackRotator) Close() error {
	if r.closed.Swap(true) {
		return ErrClosed
	}
	return r.logger.Close()
}

func (r *lumberjackRotator) Rotate() error {
	if r.closed.Load() {
		return ErrClosed
	}
	if err := r.logger.Rotate(); err != nil {
		if r.closed.Load() {
			return ErrClosed
		}
		return err
	}
	if r.fileMode != 0 {
		r.modeApplied.Store(false)
		r.reportError(r.applyFileMode())
	}
	return nil
}
