package entity

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"convert-service/ddd/domain/vo"
)

// RawMedia 用户上传的原始媒体记录。
// (user_uuid, path) 是自然键：同一路径重复上传会整行替换。
type RawMedia struct {
	UUID     string
	UserUUID string
	Name     string
	Path     string
	Kind     vo.MediaKind

	// two independent async tasks, both mutated only by the conversion pipeline
	ExtractTracksStatus    vo.TaskStatus
	ExtractSubtitlesStatus vo.TaskStatus

	// optional metadata filled by the metadata job
	DurationSeconds float64
	Streams         []vo.MediaStream

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRawMedia 创建待处理的原始媒体记录
func NewRawMedia(userUUID, name, objectPath string, kind vo.MediaKind) *RawMedia {
	now := time.Now()
	return &RawMedia{
		UUID:                   uuid.New().String(),
		UserUUID:               userUUID,
		Name:                   name,
		Path:                   objectPath,
		Kind:                   kind,
		ExtractTracksStatus:    vo.TaskStatusPending,
		ExtractSubtitlesStatus: vo.TaskStatusPending,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// BaseName returns the file name without its extension.
func (m *RawMedia) BaseName() string {
	base := path.Base(m.Name)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Ext returns the file extension without the leading dot.
func (m *RawMedia) Ext() string {
	return strings.TrimPrefix(path.Ext(m.Name), ".")
}
