package xrotate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/omeyang/duallog/pkg/util/xfile"
)

const (
	// DefaultThreshold 活动文件超过该字节数时归档
	DefaultThreshold int64 = 50 * 1024 * 1024

	// DefaultRetention 归档保留期
	DefaultRetention = 30 * 24 * time.Hour

	// DefaultArchiveDir 归档目录名，相对活动文件所在目录
	DefaultArchiveDir = "Archive"

	// ArchiveTimeLayout 归档文件名中的时间戳格式（yyyyMMdd_HHmmss）
	ArchiveTimeLayout = "20060102_150405"

	// maxCollisionSuffix 同一秒内重名归档的最大序号
	maxCollisionSuffix = 999
)

// FileTimeFunc 返回用于判断归档年龄的时间，默认是文件创建时间。
type FileTimeFunc func(path string, info os.FileInfo) time.Time

type archiveConfig struct {
	threshold  int64
	retention  time.Duration
	archiveDir string
	locker     sync.Locker
	now        func() time.Time
	fileTime   FileTimeFunc
	fileMode   os.FileMode
}

// ArchiveOption Archiver 配置选项
type ArchiveOption func(*archiveConfig)

// WithThreshold 设置归档阈值（字节）。大小严格大于阈值时才归档。
func WithThreshold(bytes int64) ArchiveOption {
	return func(c *archiveConfig) { c.threshold = bytes }
}

// WithRetention 设置归档保留期
func WithRetention(d time.Duration) ArchiveOption {
	return func(c *archiveConfig) { c.retention = d }
}

// WithArchiveDir 设置归档目录。相对路径基于活动文件所在目录，不允许越出该目录。
func WithArchiveDir(dir string) ArchiveOption {
	return func(c *archiveConfig) { c.archiveDir = dir }
}

// WithLocker 设置轮转时持有的锁。
//
// 传入写入方使用的同一把锁，检查大小、移动和重建活动文件三步在锁内完成。
// 锁不可重入，持锁期间 Archiver 不回调任何外部代码。
func WithLocker(l sync.Locker) ArchiveOption {
	return func(c *archiveConfig) {
		if l != nil {
			c.locker = l
		}
	}
}

// WithClock 设置时间源，测试用
func WithClock(now func() time.Time) ArchiveOption {
	return func(c *archiveConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithFileTime 设置判断归档年龄的时间函数，默认 [xfile.CreationTime]
func WithFileTime(fn FileTimeFunc) ArchiveOption {
	return func(c *archiveConfig) {
		if fn != nil {
			c.fileTime = fn
		}
	}
}

// WithLiveFileMode 设置重建活动文件时的权限，默认 0640
func WithLiveFileMode(mode os.FileMode) ArchiveOption {
	return func(c *archiveConfig) { c.fileMode = mode }
}

type noopLocker struct{}

func (noopLocker) Lock()   {}
func (noopLocker) Unlock() {}

// Archiver 按阈值归档单个活动文件，并按保留期清理归档目录。
//
// Archiver 不持有文件句柄。RotateIfNeeded 之间的互斥由 WithLocker 提供的锁保证，
// Prune 只操作归档目录，可与写入并发。
type Archiver struct {
	path       string
	base       string
	ext        string
	archiveDir string
	pattern    *regexp.Regexp

	threshold int64
	retention time.Duration
	locker    sync.Locker
	now       func() time.Time
	fileTime  FileTimeFunc
	fileMode  os.FileMode

	statFn   func(string) (os.FileInfo, error)
	renameFn func(oldpath, newpath string) error
	createFn func(name string, flag int, perm os.FileMode) (*os.File, error)
	removeFn func(string) error
}

// NewArchiver 为活动文件 filename 创建 Archiver。filename 会被转为绝对路径。
func NewArchiver(filename string, opts ...ArchiveOption) (*Archiver, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, ErrEmptyFilename
	}

	cfg := archiveConfig{
		threshold:  DefaultThreshold,
		retention:  DefaultRetention,
		archiveDir: DefaultArchiveDir,
		locker:     noopLocker{},
		now:        time.Now,
		fileTime:   xfile.CreationTime,
		fileMode:   0o640,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.threshold <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidThreshold, cfg.threshold)
	}
	if cfg.retention <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidRetention, cfg.retention)
	}
	if cfg.fileMode == 0 || cfg.fileMode&^os.FileMode(0o777) != 0 {
		return nil, fmt.Errorf("%w: got %04o", ErrInvalidFileMode, cfg.fileMode)
	}

	path, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", filename, err)
	}
	archiveDir, err := resolveArchiveDir(filepath.Dir(path), cfg.archiveDir)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	return &Archiver{
		path:       path,
		base:       base,
		ext:        ext,
		archiveDir: archiveDir,
		pattern: regexp.MustCompile("^" + regexp.QuoteMeta(base) +
			`_\d{8}_\d{6}(_\d+)?` + regexp.QuoteMeta(ext) + "$"),
		threshold: cfg.threshold,
		retention: cfg.retention,
		locker:    cfg.locker,
		now:       cfg.now,
		fileTime:  cfg.fileTime,
		fileMode:  cfg.fileMode,
		statFn:    os.Stat,
		renameFn:  os.Rename,
		createFn:  os.OpenFile,
		removeFn:  os.Remove,
	}, nil
}

func resolveArchiveDir(liveDir, dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" || dir == "." {
		return "", fmt.Errorf("%w: %q", ErrInvalidArchiveDir, dir)
	}
	if filepath.IsAbs(dir) {
		clean := filepath.Clean(dir)
		if clean == liveDir {
			return "", fmt.Errorf("%w: same as live directory", ErrInvalidArchiveDir)
		}
		return clean, nil
	}
	joined, err := xfile.SafeJoin(liveDir, dir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidArchiveDir, err)
	}
	return joined, nil
}

// Path 返回活动文件绝对路径
func (a *Archiver) Path() string { return a.path }

// ArchiveDir 返回归档目录绝对路径
func (a *Archiver) ArchiveDir() string { return a.archiveDir }

// Threshold 返回归档阈值（字节）
func (a *Archiver) Threshold() int64 { return a.threshold }

// Retention 返回保留期
func (a *Archiver) Retention() time.Duration { return a.retention }

// RotateIfNeeded 活动文件大小超过阈值时归档。
//
// 返回归档后的文件路径；未归档（文件不存在或未超过阈值）时返回空字符串。
// 若归档成功但重建活动文件失败，返回归档路径和 [ErrRecreateFailed]。
func (a *Archiver) RotateIfNeeded() (string, error) {
	a.locker.Lock()
	defer a.locker.Unlock()

	info, err := a.statFn(a.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("stat %s: %w", a.path, err)
	}
	if info.Size() <= a.threshold {
		return "", nil
	}
	return a.rotateLocked()
}

// Rotate 无条件归档活动文件。活动文件不存在或为空时什么都不做。
func (a *Archiver) Rotate() (string, error) {
	a.locker.Lock()
	defer a.locker.Unlock()

	info, err := a.statFn(a.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("stat %s: %w", a.path, err)
	}
	if info.Size() == 0 {
		return "", nil
	}
	return a.rotateLocked()
}

func (a *Archiver) rotateLocked() (string, error) {
	if err := xfile.EnsureDirPath(a.archiveDir, xfile.DefaultDirPerm); err != nil {
		return "", fmt.Errorf("%w: %w", ErrArchiveFailed, err)
	}
	target, err := a.nextArchiveName(a.now())
	if err != nil {
		return "", err
	}
	if err := a.renameFn(a.path, target); err != nil {
		return "", fmt.Errorf("%w: %w", ErrArchiveFailed, err)
	}

	f, err := a.createFn(a.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, a.fileMode)
	if err != nil {
		return target, fmt.Errorf("%w: %w", ErrRecreateFailed, err)
	}
	if err := f.Close(); err != nil {
		return target, fmt.Errorf("%w: %w", ErrRecreateFailed, err)
	}
	return target, nil
}

// ArchiveName 返回时间 t 对应的归档文件名（不含目录，不处理重名）
func (a *Archiver) ArchiveName(t time.Time) string {
	return a.base + "_" + t.Format(ArchiveTimeLayout) + a.ext
}

func (a *Archiver) nextArchiveName(t time.Time) (string, error) {
	stamp := a.base + "_" + t.Format(ArchiveTimeLayout)
	candidate := filepath.Join(a.archiveDir, stamp+a.ext)
	for i := 1; ; i++ {
		if _, err := os.Lstat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if i > maxCollisionSuffix {
			return "", fmt.Errorf("%w: too many archives named %s", ErrArchiveFailed, stamp)
		}
		candidate = filepath.Join(a.archiveDir, stamp+"_"+strconv.Itoa(i)+a.ext)
	}
}

// IsArchive 判断文件名是否是本 Archiver 生成的归档名
func (a *Archiver) IsArchive(name string) bool {
	return a.pattern.MatchString(name)
}

// archiveTime 返回判断年龄用的时间。
func (a *Archiver) archiveTime(path string, info os.FileInfo) time.Time {
	t := a.fileTime(path, info)
	if stamp, ok := a.ArchiveStamp(filepath.Base(path)); ok && stamp.After(t) {
		return stamp
	}
	return t
}

// ArchiveStamp 解析归档文件名中的 yyyyMMdd_HHmmss 时间戳，按时钟所在时区解释。
func (a *Archiver) ArchiveStamp(name string) (time.Time, bool) {
	if !a.IsArchive(name) {
		return time.Time{}, false
	}
	rest := strings.TrimPrefix(name, a.base+"_")
	if len(rest) < len(ArchiveTimeLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(ArchiveTimeLayout, rest[:len(ArchiveTimeLayout)], a.now().Location())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Archives 列出归档目录中属于本活动文件的归档，按文件名升序。
func (a *Archiver) Archives() ([]string, error) {
	entries, err := os.ReadDir(a.archiveDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", a.archiveDir, err)
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && a.IsArchive(e.Name()) {
			out = append(out, filepath.Join(a.archiveDir, e.Name()))
		}
	}
	return out, nil
}

// Prune 删除年龄严格超过保留期的归档，返回已删除的路径。
//
// 归档年龄从归档时刻算起：取文件名时间戳与 fileTime 中较晚者。
//
// 单个文件删除失败不会中断扫描，所有失败通过 errors.Join 合并，
// 并包装 [ErrPruneFailed]。归档目录不存在时返回 nil。
func (a *Archiver) Prune() ([]string, error) {
	archives, err := a.Archives()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPruneFailed, err)
	}

	cutoff := a.now().Add(-a.retention)
	var removed []string
	var errs []error
	for _, p := range archives {
		if p == a.path {
			continue
		}
		info, err := a.statFn(p)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		if !a.archiveTime(p, info).Before(cutoff) {
			continue
		}
		if err := a.removeFn(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", p, err))
			continue
		}
		removed = append(removed, p)
	}
	if len(errs) > 0 {
		return removed, fmt.Errorf("%w: %w", ErrPruneFailed, errors.Join(errs...))
	}
	return removed, nil
}
