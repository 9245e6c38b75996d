package xconf

// Options 配置加载选项。
type Options struct {
	// Delim 配置键分隔符，默认 "."。
	Delim string

	// Tag Unmarshal 使用的结构体标签，默认 "koanf"。
	Tag string

	// Defaults 文件加载前写入的默认键值。
	Defaults map[string]any
}

// Option 配置选项函数。
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Delim: ".",
		Tag:   "koanf",
	}
}

// WithDelim 设置配置键分隔符。
func WithDelim(delim string) Option {
	return func(o *Options) {
		if delim != "" {
			o.Delim = delim
		}
	}
}

// WithTag 设置结构体标签名。
func WithTag(tag string) Option {
	return func(o *Options) {
		if tag != "" {
			o.Tag = tag
		}
	}
}

// WithDefaults 设置默认键值，键使用 Delim 分隔的完整路径（如 "rotation.interval"）。
// 多次调用会合并。
func WithDefaults(defaults map[string]any) Option {
	return func(o *Options) {
		if len(defaults) == 0 {
			return
		}
		if o.Defaults == nil {
			o.Defaults = make(map[string]any, len(defaults))
		}
		for k, v := range defaults {
			o.Defaults[k] = v
		}
	}
}
