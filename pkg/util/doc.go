// Package util 通用工具子包。
//
//   - xfile: 目录创建、路径校验、原子复制、文件创建时间
//   - xjson: 格式化 JSON 输出
//   - xproc: 进程标识（PID、进程名、主机名）
package util
