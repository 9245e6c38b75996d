package xapplog

//go:generate mockgen -source=sink.go -destination=mock_appender_test.go -package=xapplog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/omeyang/duallog/pkg/resilience/xretry"
	"github.com/omeyang/duallog/pkg/util/xfile"
)

// sinkFileMode 新建日志文件的权限
const sinkFileMode = 0o640

// appender 追加写入一个日志文件。
type appender interface {
	Append(path string, data []byte) error
}

var openFileFn = os.OpenFile

// fileAppender 每次写入都以 O_APPEND 重新打开文件。
// 不持有句柄，轮转改名后下一次写入自然落到新文件。
type fileAppender struct{}

func (fileAppender) Append(path string, data []byte) error {
	f, err := openFileFn(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, sinkFileMode)
	if errors.Is(err, fs.ErrNotExist) {
		// 目录被删除后重建
		if dirErr := xfile.EnsureDir(path); dirErr != nil {
			return xretry.NewPermanentError(fmt.Errorf("recreate dir for %s: %w", path, dirErr))
		}
		f, err = openFileFn(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, sinkFileMode)
	}
	if err != nil {
		return classify(err)
	}

	_, werr := f.Write(data)
	cerr := f.Close()
	if werr != nil {
		return classify(werr)
	}
	if cerr != nil {
		return classify(cerr)
	}
	return nil
}

// classify 权限类错误重试无意义，标记为永久错误。
func classify(err error) error {
	if errors.Is(err, fs.ErrPermission) || errors.Is(err, xfile.ErrInvalidPath) {
		return xretry.NewPermanentError(err)
	}
	return err
}
