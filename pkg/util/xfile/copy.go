package xfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyFile 把 src 的内容复制到 dst。
//
// 内容先写入 dst 同目录下的临时文件，Sync 后 rename 到 dst，
// 失败时清理临时文件。dst 的父目录必须已存在。src 不会被修改。
// 返回复制的字节数。
func CopyFile(src, dst string) (n int64, err error) {
	if src == "" || dst == "" {
		return 0, fmt.Errorf("copy source and destination are required: %w", ErrEmptyPath)
	}

	in, err := os.Open(src) // #nosec G304 -- 路径来自调用方配置
	if err != nil {
		return 0, fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("copy %s: %w", src, ErrNotRegular)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if n, err = io.Copy(tmp, in); err != nil {
		return n, fmt.Errorf("copy content: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return n, fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return n, fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmpName, dst); err != nil {
		return n, fmt.Errorf("rename temp file: %w", err)
	}
	return n, nil
}
