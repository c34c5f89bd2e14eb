package cqe

import (
	"io"

	"convert-service/pkg/errno"
)

// UploadVideoCqe 上传视频请求
type UploadVideoCqe struct {
	UserUUID string
	FileName string
	Size     int64
	File     io.Reader
}

// Validate 校验请求参数
func (c *UploadVideoCqe) Validate() error {
	if c.UserUUID == "" {
		return errno.ErrUserUUIDRequired
	}
	if c.FileName == "" {
		return errno.ErrFileNameIllegal
	}
	if c.File == nil {
		return errno.ErrUploadIllegal
	}
	return nil
}

// UploadSubtitleCqe 上传外挂字幕请求，挂在已上传的视频名下
type UploadSubtitleCqe struct {
	UserUUID        string
	FileName        string
	ParentVideoName string
	Size            int64
	File            io.Reader
}

// Validate 校验请求参数
func (c *UploadSubtitleCqe) Validate() error {
	if c.UserUUID == "" {
		return errno.ErrUserUUIDRequired
	}
	if c.FileName == "" {
		return errno.ErrFileNameIllegal
	}
	if c.ParentVideoName == "" {
		return errno.ErrMissingParam
	}
	if c.File == nil {
		return errno.ErrUploadIllegal
	}
	return nil
}
