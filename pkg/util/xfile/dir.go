package xfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDirPerm 默认目录权限
//
// 0750 权限说明：
//   - 所有者：读写执行 (7)
//   - 组：读执行 (5)
//   - 其他：无权限 (0)
//
// 符合 gosec G301 安全建议
const DefaultDirPerm = 0750

// mkdirAllFn 测试注入点，非并发安全。
var mkdirAllFn = os.MkdirAll

// EnsureDir 确保文件的父目录存在，使用默认权限 0750。
// 目录已存在时不报错。
func EnsureDir(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename is required: %w", ErrEmptyPath)
	}
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	return EnsureDirPath(dir, DefaultDirPerm)
}

// EnsureDirPath 确保目录 dir 本身存在。
//
// perm 必须包含所有者执行位（0100），否则目录无法遍历。
// 已存在的目录不会被修改权限；dir 存在但不是目录时返回 [ErrInvalidPath]。
func EnsureDirPath(dir string, perm os.FileMode) error {
	if dir == "" {
		return fmt.Errorf("directory is required: %w", ErrEmptyPath)
	}
	if containsNullByte(dir) {
		return fmt.Errorf("directory contains null byte: %w", ErrNullByte)
	}
	if perm&0100 == 0 {
		return fmt.Errorf("directory permission %04o missing owner execute bit: %w", perm, ErrInvalidPerm)
	}
	if info, err := os.Stat(dir); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory: %w", dir, ErrInvalidPath)
		}
		return nil
	}
	if err := mkdirAllFn(dir, perm); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
