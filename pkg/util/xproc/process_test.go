package xproc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 修改包级变量和 os.Args，不可并行。
func stubExecutable(t *testing.T, exe string, err error) {
	t.Helper()
	orig := osExecutable
	origArgs := os.Args
	t.Cleanup(func() {
		osExecutable = orig
		os.Args = origArgs
		resetProcessName()
	})
	osExecutable = func() (string, error) { return exe, err }
	resetProcessName()
}

func TestProcessID(t *testing.T) {
	assert.Equal(t, os.Getpid(), ProcessID())
}

func TestProcessName(t *testing.T) {
	t.Run("可执行文件名", func(t *testing.T) {
		stubExecutable(t, filepath.Join("usr", "bin", "duallog"), nil)
		assert.Equal(t, "duallog", ProcessName())
	})

	t.Run("退回os.Args", func(t *testing.T) {
		stubExecutable(t, "", errors.New("unsupported"))
		os.Args = []string{filepath.Join("opt", "app", "svc")}
		assert.Equal(t, "svc", ProcessName())
	})

	t.Run("都不可用", func(t *testing.T) {
		stubExecutable(t, "", errors.New("unsupported"))
		os.Args = nil
		assert.Empty(t, ProcessName())
	})

	t.Run("结果缓存", func(t *testing.T) {
		stubExecutable(t, "first", nil)
		assert.Equal(t, "first", ProcessName())
		osExecutable = func() (string, error) { return "second", nil }
		assert.Equal(t, "first", ProcessName())
	})
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "", baseName("."))
	assert.Equal(t, "", baseName(".."))
	assert.Equal(t, "", baseName(string(filepath.Separator)))
	assert.Equal(t, "x", baseName(filepath.Join("a", "x")))
}

func TestCurrent(t *testing.T) {
	stubExecutable(t, "duallog", nil)
	orig := osHostname
	t.Cleanup(func() { osHostname = orig })

	osHostname = func() (string, error) { return "node-1", nil }
	assert.Equal(t, Info{PID: os.Getpid(), Name: "duallog", Hostname: "node-1"}, Current())

	osHostname = func() (string, error) { return "", errors.New("no host") }
	assert.Empty(t, Current().Hostname)
}
