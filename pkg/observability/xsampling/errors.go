package xsampling

import "errors"

// ErrInvalidCount CountSampler 的间隔必须 >= 1。
var ErrInvalidCount = errors.New("xsampling: count n must be >= 1")
