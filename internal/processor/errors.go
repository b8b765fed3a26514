package processor

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
var (
	ErrResumeDownloadFailed = errors.New("下载简历失败")
	ErrUnsupportedFormat    = errors.New("不支持的文件格式")
	ErrExtractTextFailed    = errors.New("提取简历文本失败")
	ErrStoreArtifactFailed  = errors.New("上传解析产物失败")
	ErrUpdateStatusFailed   = errors.New("更新简历状态失败")
	ErrDatabaseFailed       = errors.New("数据库操作失败")
)

// ProcessError 包含详细错误信息的自定义错误
type ProcessError struct {
	SubmissionUUID string
	Op             string
	BaseErr        error
	Detail         string
}

func (e *ProcessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, UUID:%s): %s", e.BaseErr, e.Op, e.SubmissionUUID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, UUID:%s)", e.BaseErr, e.Op, e.SubmissionUUID)
}

func (e *ProcessError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *ProcessError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 错误构造函数
func NewDownloadError(uuid, detail string) error {
	return &ProcessError{
		SubmissionUUID: uuid,
		Op:             "download",
		BaseErr:        ErrResumeDownloadFailed,
		Detail:         detail,
	}
}

func NewUnsupportedFormatError(uuid, ext string) error {
	return &ProcessError{
		SubmissionUUID: uuid,
		Op:             "dispatch",
		BaseErr:        ErrUnsupportedFormat,
		Detail:         ext,
	}
}

func NewExtractError(uuid, detail string) error {
	return &ProcessError{
		SubmissionUUID: uuid,
		Op:             "extract",
		BaseErr:        ErrExtractTextFailed,
		Detail:         detail,
	}
}

func NewStoreError(uuid, detail string) error {
	return &ProcessError{
		SubmissionUUID: uuid,
		Op:             "store",
		BaseErr:        ErrStoreArtifactFailed,
		Detail:         detail,
	}
}

func NewUpdateError(uuid, detail string) error {
	return &ProcessError{
		SubmissionUUID: uuid,
		Op:             "update",
		BaseErr:        ErrUpdateStatusFailed,
		Detail:         detail,
	}
}

func NewDatabaseError(uuid, detail string) error {
	return &ProcessError{
		SubmissionUUID: uuid,
		Op:             "database",
		BaseErr:        ErrDatabaseFailed,
		Detail:         detail,
	}
}
