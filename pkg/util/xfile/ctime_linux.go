//go:build linux

package xfile

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// statxFn 测试注入点，非并发安全。
var statxFn = unix.Statx

// birthTime 通过 statx(2) 读取 btime。内核早于 4.11 或文件系统不记录 btime 时返回 false。
func birthTime(path string, _ os.FileInfo) (time.Time, bool) {
	var stx unix.Statx_t
	if err := statxFn(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stx); err != nil {
		return time.Time{}, false
	}
	if stx.Mask&unix.STATX_BTIME == 0 {
		return time.Time{}, false
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)), true
}
