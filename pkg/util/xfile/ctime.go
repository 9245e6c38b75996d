package xfile

import (
	"os"
	"time"
)

// CreationTime 返回文件创建时间。
//
// info 可为 nil，此时内部执行 os.Stat。平台或文件系统不提供创建时间时
// 退回 info.ModTime()；文件不存在时返回零值时间。
func CreationTime(path string, info os.FileInfo) time.Time {
	if info == nil {
		var err error
		if info, err = os.Stat(path); err != nil {
			return time.Time{}
		}
	}
	if t, ok := birthTime(path, info); ok {
		return t
	}
	return info.ModTime()
}
