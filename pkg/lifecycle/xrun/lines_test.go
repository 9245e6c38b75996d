package xrun

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader(t *testing.T) {
	t.Run("consumes lines and skips blanks", func(t *testing.T) {
		var got []string
		fn := LineReader(strings.NewReader("a\r\n\nb\nc"), func(_ context.Context, line string) {
			got = append(got, line)
		})
		require.NoError(t, fn(context.Background()))
		assert.Equal(t, []string{"a", "b", "c"}, got)
	})

	t.Run("read error", func(t *testing.T) {
		r := io.MultiReader(strings.NewReader("x\n"), errReader{})
		err := LineReader(r, func(context.Context, string) {})(context.Background())
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("ctx canceled", func(t *testing.T) {
		pr, pw := io.Pipe()
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- LineReader(pr, func(context.Context, string) {})(ctx)
		}()
		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
		// 关闭管道让读取 goroutine 退出
		require.NoError(t, pw.Close())
	})

	t.Run("argument checks", func(t *testing.T) {
		assert.ErrorIs(t, LineReader(nil, func(context.Context, string) {})(context.Background()), ErrNilReader)
		assert.ErrorIs(t, LineReader(strings.NewReader(""), nil)(context.Background()), ErrNilFunc)
	})
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errBoom }

