package xrotate

import "io"

var _ io.WriteCloser = (Rotator)(nil)

// Rotator 写入时自动轮转的日志输出。
//
// 实现约定：
//   - Write 并发安全
//   - Close 后调用 Write 或 Rotate 返回 [ErrClosed]，重复 Close 也返回 [ErrClosed]
type Rotator interface {
	Write(p []byte) (n int, err error)
	Close() error

	// Rotate 立即轮转：关闭当前文件并改名为备份，随后创建新文件。
	Rotate() error
}
