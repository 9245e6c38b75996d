// Package xproc 当前进程标识，用于状态输出。
package xproc

import (
	"os"
	"path/filepath"
	"sync"
)

var (
	osExecutable = os.Executable
	osHostname   = os.Hostname
)

var (
	processNameOnce  sync.Once
	processNameValue string
)

// Info 进程标识快照。
type Info struct {
	PID      int    `json:"pid"`
	Name     string `json:"name"`
	Hostname string `json:"hostname,omitempty"`
}

// Current 返回当前进程的标识。获取失败的字段为空。
func Current() Info {
	host, err := osHostname()
	if err != nil {
		host = ""
	}
	return Info{
		PID:      ProcessID(),
		Name:     ProcessName(),
		Hostname: host,
	}
}

// ProcessID 返回当前进程 ID。
func ProcessID() int {
	return os.Getpid()
}

// ProcessName 返回可执行文件名（不含路径），首次调用后缓存。
// os.Executable 失败时退回 os.Args[0]，都不可用时返回空字符串。
func ProcessName() string {
	processNameOnce.Do(func() {
		processNameValue = resolveProcessName()
	})
	return processNameValue
}

func resolveProcessName() string {
	if exe, err := osExecutable(); err == nil && exe != "" {
		if name := baseName(exe); name != "" {
			return name
		}
	}
	if len(os.Args) == 0 || os.Args[0] == "" {
		return ""
	}
	return baseName(os.Args[0])
}

// baseName 对 "."、".." 和根路径返回空字符串。
func baseName(path string) string {
	name := filepath.Base(path)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
