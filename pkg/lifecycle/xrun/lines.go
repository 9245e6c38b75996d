package xrun

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// MaxLineSize LineReader 单行最大长度。
const MaxLineSize = 1 << 20

// LineReader 返回按行消费 r 的服务函数。
//
// 每行去掉末尾 \r 后交给 handle，空行跳过。EOF 时返回 nil，
// 读取错误原样返回，ctx 取消时返回 ctx.Err()。
// 阻塞在 Read 上的读取 goroutine 会在下一次 Read 返回后退出。
func LineReader(r io.Reader, handle func(ctx context.Context, line string)) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if r == nil {
			return ErrNilReader
		}
		if handle == nil {
			return ErrNilFunc
		}

		lines := make(chan string)
		errCh := make(chan error, 1)
		go func() {
			scanner := bufio.NewScanner(r)
			scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
			for scanner.Scan() {
				select {
				case lines <- scanner.Text():
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				}
			}
			errCh <- scanner.Err()
		}()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case err := <-errCh:
				return err
			case line := <-lines:
				line = strings.TrimRight(line, "\r")
				if line == "" {
					continue
				}
				handle(ctx, line)
			}
		}
	}
}
