package xjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMarshal 序列化失败。
var ErrMarshal = errors.New("xjson: marshal failed")

// PrettyE 将 v 序列化为两空格缩进的 JSON。
func PrettyE(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMarshal, err)
	}
	return string(data), nil
}

// Pretty 同 PrettyE，失败时返回 "<marshal error: ...>"，用于诊断输出。
func Pretty(v any) string {
	s, err := PrettyE(v)
	if err != nil {
		return fmt.Sprintf("<marshal error: %v>", err)
	}
	return s
}

// Encode 将 v 以缩进 JSON 写入 w，末尾带换行。
// 不转义 HTML 字符，文件路径等内容原样输出。
func Encode(w io.Writer, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrMarshal, err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
