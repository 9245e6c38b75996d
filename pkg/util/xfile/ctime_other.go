//go:build !linux && !windows && !darwin && !freebsd

package xfile

import (
	"os"
	"time"
)

func birthTime(string, os.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
