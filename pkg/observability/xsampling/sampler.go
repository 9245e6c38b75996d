package xsampling

import "context"

// Sampler 决定一个事件是否被记录。
type Sampler interface {
	ShouldSample(ctx context.Context) bool
}

// ResettableSampler 可回到初始状态的有状态采样器。
type ResettableSampler interface {
	Sampler
	Reset()
}
