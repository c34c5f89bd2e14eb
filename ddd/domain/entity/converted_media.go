package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConvertedMedia 一条原始媒体的全部转换产物的聚合根。
// 每个 RawMedia 至多一行，首次成功抽取时惰性创建。
type ConvertedMedia struct {
	UUID         string
	RawMediaUUID string
	CreatedAt    time.Time
}

// NewConvertedMedia 创建聚合根
func NewConvertedMedia(rawMediaUUID string) *ConvertedMedia {
	return &ConvertedMedia{
		UUID:         uuid.New().String(),
		RawMediaUUID: rawMediaUUID,
		CreatedAt:    time.Now(),
	}
}

// ConvertedTrack 网页可播放的视频轨道产物。
// 唯一键 (converted_media_uuid, language)：同键重写整行替换。
type ConvertedTrack struct {
	UUID               string
	ConvertedMediaUUID string
	Path               string
	Link               string
	Language           string
	CreatedAt          time.Time
}

// NewConvertedTrack 创建轨道产物
func NewConvertedTrack(convertedMediaUUID, objectPath, link, language string) *ConvertedTrack {
	return &ConvertedTrack{
		UUID:               uuid.New().String(),
		ConvertedMediaUUID: convertedMediaUUID,
		Path:               objectPath,
		Link:               link,
		Language:           language,
		CreatedAt:          time.Now(),
	}
}

// ConvertedSubtitle VTT字幕产物。
// 唯一键 (converted_media_uuid, path)。
type ConvertedSubtitle struct {
	UUID               string
	ConvertedMediaUUID string
	Path               string
	Link               string
	Language           string
	CreatedAt          time.Time
}

// NewConvertedSubtitle 创建字幕产物
func NewConvertedSubtitle(convertedMediaUUID, objectPath, link, language string) *ConvertedSubtitle {
	return &ConvertedSubtitle{
		UUID:               uuid.New().String(),
		ConvertedMediaUUID: convertedMediaUUID,
		Path:               objectPath,
		Link:               link,
		Language:           language,
		CreatedAt:          time.Now(),
	}
}
