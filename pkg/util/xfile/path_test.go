package xfile

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"plain name", "app_log.txt", "app_log.txt", nil},
		{"trims spaces", "  system_log.txt ", "system_log.txt", nil},
		{"leading dots", "..config", "..config", nil},
		{"empty", "", "", ErrEmptyPath},
		{"blank", "   ", "", ErrEmptyPath},
		{"null byte", "a\x00b", "", ErrNullByte},
		{"slash", "logs/app.txt", "", ErrInvalidPath},
		{"backslash", `logs\app.txt`, "", ErrInvalidPath},
		{"dot dot", "..", "", ErrInvalidPath},
		{"dot", ".", "", ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeName(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSafeJoin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("使用 Unix 风格路径")
	}

	tests := []struct {
		name    string
		base    string
		path    string
		want    string
		wantErr error
	}{
		{"plain join", "/var/log", "app.log", "/var/log/app.log", nil},
		{"subdir", "/var/log", "Archive/a.txt", "/var/log/Archive/a.txt", nil},
		{"leading dots", "/var/log", "..config", "/var/log/..config", nil},
		{"inner dotdot stays in base", "/var/log", "a/../b.log", "/var/log/b.log", nil},
		{"traversal", "/var/log", "../etc/passwd", "", ErrPathTraversal},
		{"backslash traversal", "/var/log", `..\etc`, "", ErrPathTraversal},
		{"absolute path", "/var/log", "/etc/passwd", "", ErrInvalidPath},
		{"backslash root", "/var/log", `\etc`, "", ErrInvalidPath},
		{"relative base", "logs", "a.log", "", ErrInvalidPath},
		{"empty base", "", "a.log", "", ErrEmptyPath},
		{"empty path", "/var/log", "", "", ErrEmptyPath},
		{"null byte", "/var/log", "a\x00", "", ErrNullByte},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeJoin(tt.base, tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestHasDotDotSegment(t *testing.T) {
	assert.True(t, hasDotDotSegment(".."))
	assert.True(t, hasDotDotSegment("a/../b"))
	assert.True(t, hasDotDotSegment(`a\..\b`))
	assert.False(t, hasDotDotSegment("app..2024.log"))
	assert.False(t, hasDotDotSegment("...hidden"))
	assert.False(t, hasDotDotSegment(""))
}
