package xproc

import "sync"

// resetProcessName 重置进程名缓存。
func resetProcessName() {
	processNameOnce = sync.Once{}
	processNameValue = ""
}
