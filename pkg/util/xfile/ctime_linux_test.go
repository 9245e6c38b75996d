//go:build linux

package xfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestCreationTime_Linux(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.Local)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	orig := statxFn
	t.Cleanup(func() { statxFn = orig })

	t.Run("statx returns btime", func(t *testing.T) {
		statxFn = func(_ int, _ string, _ int, _ int, stx *unix.Statx_t) error {
			stx.Mask = unix.STATX_BTIME
			stx.Btime = unix.StatxTimestamp{Sec: 1700000000, Nsec: 5}
			return nil
		}
		assert.Equal(t, time.Unix(1700000000, 5), CreationTime(path, nil))
	})

	t.Run("no btime falls back to mtime", func(t *testing.T) {
		statxFn = func(_ int, _ string, _ int, _ int, stx *unix.Statx_t) error {
			stx.Mask = 0
			return nil
		}
		assert.True(t, CreationTime(path, nil).Equal(mtime))
	})

	t.Run("statx error falls back to mtime", func(t *testing.T) {
		statxFn = func(int, string, int, int, *unix.Statx_t) error {
			return errors.New("ENOSYS")
		}
		assert.True(t, CreationTime(path, nil).Equal(mtime))
	})
}
