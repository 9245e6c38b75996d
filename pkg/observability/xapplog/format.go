package xapplog

import (
	"fmt"
	"strings"
	"time"
)

// Level 日志级别。
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// TimeLayout 行首时间戳格式（yyyy-MM-dd HH:mm:ss）。
const TimeLayout = "2006-01-02 15:04:05"

// MaxCauseDepth DescribeError 展开的嵌套错误层数上限。
const MaxCauseDepth = 5

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// ParseLevel 解析 info/warn/warning/error，大小写不敏感。
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// StackTracer 能提供调用栈的错误。
type StackTracer interface {
	StackTrace() string
}

// FormatLine 渲染一行日志，不含行尾换行符。
//
//	2024-05-01 12:00:00 [INFO] service started
func FormatLine(t time.Time, level Level, message string) string {
	var b strings.Builder
	b.Grow(len(TimeLayout) + len(message) + 12)
	b.WriteString(t.Format(TimeLayout))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(strings.ToValidUTF8(message, ""))
	return b.String()
}

// DescribeError 将 message 和 err 展开为多行文本。
//
// 依次输出错误类型、错误信息和调用栈（err 实现 StackTracer 时），
// 然后按层展开 Unwrap 得到的嵌套错误，最多 MaxCauseDepth 层。
// errors.Join 等多错误包装在同一层内逐个输出。err 为 nil 时返回 message。
func DescribeError(message string, err error) string {
	message = strings.ToValidUTF8(message, "")
	if err == nil {
		return message
	}

	var b strings.Builder
	b.WriteString(message)
	writeError(&b, err, "")

	level := unwrapAll([]error{err})
	for depth := 1; depth <= MaxCauseDepth && len(level) > 0; depth++ {
		indent := strings.Repeat("  ", depth)
		for _, cause := range level {
			fmt.Fprintf(&b, "\n%s--- Inner Error (level %d) ---", indent, depth)
			writeError(&b, cause, indent)
		}
		level = unwrapAll(level)
	}
	return b.String()
}

func writeError(b *strings.Builder, err error, indent string) {
	fmt.Fprintf(b, "\n%sError Type: %T", indent, err)
	fmt.Fprintf(b, "\n%sError Message: %s", indent, strings.ToValidUTF8(err.Error(), ""))

	// 只取本层的调用栈，内层的由各自层级输出
	if st, ok := err.(StackTracer); ok {
		fmt.Fprintf(b, "\n%sStack Trace:", indent)
		for _, line := range strings.Split(strings.TrimRight(st.StackTrace(), "\n"), "\n") {
			b.WriteString("\n")
			b.WriteString(indent)
			b.WriteString("  ")
			b.WriteString(strings.ToValidUTF8(line, ""))
		}
	}
}

// unwrapAll 返回 errs 中每个错误的直接原因。
func unwrapAll(errs []error) []error {
	var next []error
	for _, err := range errs {
		switch u := err.(type) {
		case interface{ Unwrap() error }:
			if inner := u.Unwrap(); inner != nil {
				next = append(next, inner)
			}
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				if inner != nil {
					next = append(next, inner)
				}
			}
		}
	}
	return next
}
