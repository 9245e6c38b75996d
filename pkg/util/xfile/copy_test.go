package xfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFile(t *testing.T) {
	t.Run("复制内容且源文件不变", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "app_log.txt")
		dst := filepath.Join(dir, "export.txt")
		content := []byte("2024-01-02 03:04:05 [INFO] hello\n")
		require.NoError(t, os.WriteFile(src, content, 0600))

		n, err := CopyFile(src, dst)
		require.NoError(t, err)
		assert.Equal(t, int64(len(content)), n)

		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, content, got)

		orig, err := os.ReadFile(src)
		require.NoError(t, err)
		assert.Equal(t, content, orig)
	})

	t.Run("覆盖已存在的目标", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src")
		dst := filepath.Join(dir, "dst")
		require.NoError(t, os.WriteFile(src, []byte("new"), 0600))
		require.NoError(t, os.WriteFile(dst, []byte("old content"), 0600))

		_, err := CopyFile(src, dst)
		require.NoError(t, err)
		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "new", string(got))
	})

	t.Run("源不存在", func(t *testing.T) {
		dir := t.TempDir()
		_, err := CopyFile(filepath.Join(dir, "missing"), filepath.Join(dir, "dst"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("源是目录", func(t *testing.T) {
		dir := t.TempDir()
		_, err := CopyFile(dir, filepath.Join(dir, "dst"))
		assert.ErrorIs(t, err, ErrNotRegular)
	})

	t.Run("目标目录不存在时不留临时文件", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src")
		require.NoError(t, os.WriteFile(src, []byte("x"), 0600))

		_, err := CopyFile(src, filepath.Join(dir, "missing", "dst"))
		require.Error(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("空参数", func(t *testing.T) {
		_, err := CopyFile("", "x")
		assert.ErrorIs(t, err, ErrEmptyPath)
	})
}
