package xapplog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/omeyang/duallog/pkg/config/xconf"
	"github.com/omeyang/duallog/pkg/observability/xlog"
	"github.com/omeyang/duallog/pkg/util/xfile"
)

const (
	DefaultAppDir         = "./logs"
	DefaultAppFile        = "app_log.txt"
	DefaultAppMaxSize     = 10 * 1024 * 1024
	DefaultSystemFile     = "system_log.txt"
	DefaultSystemMaxSize  = 50 * 1024 * 1024
	DefaultArchiveDir     = "Archive"
	DefaultRetention      = 30 * 24 * time.Hour
	DefaultInterval       = time.Hour
	DefaultRetryAttempts  = 3
	DefaultRetryBackoff   = 100 * time.Millisecond
	DefaultBreakerFailure = 5
	DefaultBreakerTimeout = 30 * time.Second
	DefaultDiagLevel      = "warn"
	DefaultDiagFormat     = "text"

	systemDirName = "duallog"
)

// SinkConfig 单个日志文件的配置。
type SinkConfig struct {
	Dir     string `koanf:"dir" json:"dir"`
	File    string `koanf:"file" json:"file"`
	MaxSize int64  `koanf:"max_size" json:"max_size"`
}

// Path 返回 Dir 与 File 拼接后的路径。
func (c SinkConfig) Path() string {
	return filepath.Join(c.Dir, c.File)
}

// ArchiveConfig 系统日志归档配置。
type ArchiveConfig struct {
	// Dir 相对路径基于系统日志目录
	Dir       string        `koanf:"dir" json:"dir"`
	Retention time.Duration `koanf:"retention" json:"retention"`
}

// RotationConfig 维护检查的调度配置。
type RotationConfig struct {
	Interval time.Duration `koanf:"interval" json:"interval"`
	Enabled  bool          `koanf:"enabled" json:"enabled"`
}

// RetryConfig 单次写入的重试配置，Attempts 包含首次尝试。
type RetryConfig struct {
	Attempts int           `koanf:"attempts" json:"attempts"`
	Backoff  time.Duration `koanf:"backoff" json:"backoff"`
}

// BreakerConfig 每个日志文件独立的熔断器配置。
type BreakerConfig struct {
	Enabled  bool          `koanf:"enabled" json:"enabled"`
	Failures uint32        `koanf:"failures" json:"failures"`
	Timeout  time.Duration `koanf:"timeout" json:"timeout"`
}

// WriterConfig 写入配置。
type WriterConfig struct {
	MirrorStdout bool          `koanf:"mirror_stdout" json:"mirror_stdout"`
	Retry        RetryConfig   `koanf:"retry" json:"retry"`
	Breaker      BreakerConfig `koanf:"breaker" json:"breaker"`
}

// DiagnosticsConfig 子系统自身诊断日志（xlog）的配置。
type DiagnosticsConfig struct {
	Level  string `koanf:"level" json:"level"`
	Format string `koanf:"format" json:"format"`
	// File 非空时写入按大小轮转的文件，否则写 stderr
	File string `koanf:"file" json:"file"`
}

// Config 日志子系统配置。
type Config struct {
	App         SinkConfig        `koanf:"app" json:"app"`
	System      SinkConfig        `koanf:"system" json:"system"`
	Archive     ArchiveConfig     `koanf:"archive" json:"archive"`
	Rotation    RotationConfig    `koanf:"rotation" json:"rotation"`
	Writer      WriterConfig      `koanf:"writer" json:"writer"`
	Diagnostics DiagnosticsConfig `koanf:"diagnostics" json:"diagnostics"`
}

var userConfigDirFn = os.UserConfigDir

// DefaultSystemDir 返回系统日志默认目录：用户配置目录下的 duallog，
// 获取失败时退回临时目录。
func DefaultSystemDir() string {
	if dir, err := userConfigDirFn(); err == nil && dir != "" {
		return filepath.Join(dir, systemDirName)
	}
	return filepath.Join(os.TempDir(), systemDirName)
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	return Config{
		App: SinkConfig{
			Dir:     DefaultAppDir,
			File:    DefaultAppFile,
			MaxSize: DefaultAppMaxSize,
		},
		System: SinkConfig{
			Dir:     DefaultSystemDir(),
			File:    DefaultSystemFile,
			MaxSize: DefaultSystemMaxSize,
		},
		Archive: ArchiveConfig{
			Dir:       DefaultArchiveDir,
			Retention: DefaultRetention,
		},
		Rotation: RotationConfig{
			Interval: DefaultInterval,
			Enabled:  true,
		},
		Writer: WriterConfig{
			MirrorStdout: true,
			Retry: RetryConfig{
				Attempts: DefaultRetryAttempts,
				Backoff:  DefaultRetryBackoff,
			},
			Breaker: BreakerConfig{
				Failures: DefaultBreakerFailure,
				Timeout:  DefaultBreakerTimeout,
			},
		},
		Diagnostics: DiagnosticsConfig{
			Level:  DefaultDiagLevel,
			Format: DefaultDiagFormat,
		},
	}
}

// Validate 校验配置，返回的错误包装 ErrInvalidConfig。
func (c Config) Validate() error {
	if err := c.App.validate("app"); err != nil {
		return err
	}
	if err := c.System.validate("system"); err != nil {
		return err
	}
	if strings.TrimSpace(c.Archive.Dir) == "" {
		return fmt.Errorf("%w: archive.dir is empty", ErrInvalidConfig)
	}
	if c.Archive.Retention <= 0 {
		return fmt.Errorf("%w: archive.retention must be positive", ErrInvalidConfig)
	}
	if c.Rotation.Enabled && c.Rotation.Interval <= 0 {
		return fmt.Errorf("%w: rotation.interval must be positive", ErrInvalidConfig)
	}
	if c.Writer.Retry.Attempts < 1 {
		return fmt.Errorf("%w: writer.retry.attempts must be at least 1", ErrInvalidConfig)
	}
	if c.Writer.Retry.Backoff < 0 {
		return fmt.Errorf("%w: writer.retry.backoff must not be negative", ErrInvalidConfig)
	}
	if c.Writer.Breaker.Enabled && (c.Writer.Breaker.Failures == 0 || c.Writer.Breaker.Timeout <= 0) {
		return fmt.Errorf("%w: writer.breaker needs positive failures and timeout", ErrInvalidConfig)
	}
	if _, err := xlog.ParseLevel(c.Diagnostics.Level); err != nil {
		return fmt.Errorf("%w: diagnostics.level: %w", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.Diagnostics.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: diagnostics.format %q", ErrInvalidConfig, c.Diagnostics.Format)
	}
	return nil
}

func (c SinkConfig) validate(key string) error {
	if strings.TrimSpace(c.Dir) == "" {
		return fmt.Errorf("%w: %s.dir is empty", ErrInvalidConfig, key)
	}
	name, err := xfile.SanitizeName(c.File)
	if err != nil {
		return fmt.Errorf("%w: %s.file: %w", ErrInvalidConfig, key, err)
	}
	if name != c.File {
		return fmt.Errorf("%w: %s.file must be a plain file name", ErrInvalidConfig, key)
	}
	if c.MaxSize <= 0 {
		return fmt.Errorf("%w: %s.max_size must be positive", ErrInvalidConfig, key)
	}
	return nil
}

// LoadConfig 从 YAML/JSON 文件加载配置，未出现的键保持默认值。
//
// 同时返回底层 xconf.Config，可用于 xconf.Watch 热重载。
func LoadConfig(path string) (Config, xconf.Config, error) {
	src, err := xconf.New(path, xconf.WithDefaults(map[string]any{
		"diagnostics.level": DefaultDiagLevel,
	}))
	if err != nil {
		return Config{}, nil, err
	}
	cfg, err := DecodeConfig(src)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, src, nil
}

// DecodeConfig 将 src 解码到默认配置之上并校验。
func DecodeConfig(src xconf.Config) (Config, error) {
	cfg := DefaultConfig()
	if err := src.Unmarshal("", &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
