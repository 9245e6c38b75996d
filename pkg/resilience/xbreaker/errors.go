package xbreaker

import (
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"
)

var (
	// ErrNilContext 表示传入了 nil context。
	ErrNilContext = errors.New("xbreaker: context cannot be nil")

	// ErrNilFunc 表示待执行函数为 nil。
	ErrNilFunc = errors.New("xbreaker: function cannot be nil")

	// ErrOpenState 熔断器处于打开状态
	ErrOpenState = gobreaker.ErrOpenState

	// ErrTooManyRequests 半开状态下请求数超过 MaxRequests
	ErrTooManyRequests = gobreaker.ErrTooManyRequests
)

// BreakerError 熔断拒绝错误。
//
// 实现 Retryable() = false，xretry 遇到它会立即停止重试。
type BreakerError struct {
	Err   error
	Name  string
	State State
}

func (e *BreakerError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("breaker %s: %v", e.Name, e.Err)
	}
	return e.Err.Error()
}

func (e *BreakerError) Unwrap() error { return e.Err }

// Retryable 熔断拒绝不可重试
func (e *BreakerError) Retryable() bool { return false }

// wrapBreakerError 只包装 gobreaker 的拒绝错误，业务错误原样返回。
func wrapBreakerError(err error, name string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState):
		return &BreakerError{Err: err, Name: name, State: StateOpen}
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		return &BreakerError{Err: err, Name: name, State: StateHalfOpen}
	default:
		return err
	}
}

// IsOpen 判断错误是否由熔断打开导致
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState)
}

// IsBreakerError 判断错误是否为熔断拒绝（打开或半开超额）
func IsBreakerError(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
