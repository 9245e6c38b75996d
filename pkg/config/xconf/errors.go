package xconf

import "errors"

var (
	ErrEmptyPath         = errors.New("xconf: empty config path")
	ErrUnsupportedFormat = errors.New("xconf: unsupported config format")
	ErrLoadFailed        = errors.New("xconf: failed to load config")
	ErrParseFailed       = errors.New("xconf: failed to parse config")
	ErrUnmarshalFailed   = errors.New("xconf: failed to unmarshal config")
	ErrInvalidDefault    = errors.New("xconf: invalid default value")

	// ErrReloadUnsupported 从字节数据创建的配置不支持重载和监视。
	ErrReloadUnsupported = errors.New("xconf: config created from bytes cannot be reloaded")
	ErrWatchFailed       = errors.New("xconf: failed to watch config")
)
