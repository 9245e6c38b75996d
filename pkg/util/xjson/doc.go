// Package xjson 提供格式化 JSON 输出。
//
//   - [PrettyE]: 缩进 JSON，失败返回包装 [ErrMarshal] 的错误。
//   - [Pretty]: 失败时返回 "<marshal error: ...>" 标记字符串，便于在诊断日志中识别。
//   - [Encode]: 写入 io.Writer，不转义 HTML 字符，命令行状态输出使用。
package xjson
