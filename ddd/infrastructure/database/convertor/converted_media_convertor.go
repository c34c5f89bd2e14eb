package convertor

import (
	"convert-service/ddd/domain/entity"
	"convert-service/ddd/infrastructure/database/po"
)

// ConvertedMediaConvertor 转换产物PO/Entity转换器
type ConvertedMediaConvertor struct{}

// NewConvertedMediaConvertor 创建转换器
func NewConvertedMediaConvertor() *ConvertedMediaConvertor {
	return &ConvertedMediaConvertor{}
}

// ToEntity 将聚合根PO转换为Entity
func (c *ConvertedMediaConvertor) ToEntity(m *po.ConvertedMedia) *entity.ConvertedMedia {
	return &entity.ConvertedMedia{
		UUID:         m.MediaUUID,
		RawMediaUUID: m.RawMediaUUID,
		CreatedAt:    m.CreatedAt,
	}
}

// ToPO 将聚合根Entity转换为PO
func (c *ConvertedMediaConvertor) ToPO(e *entity.ConvertedMedia) *po.ConvertedMedia {
	return &po.ConvertedMedia{
		BaseModel:    po.BaseModel{CreatedAt: e.CreatedAt, UpdatedAt: e.CreatedAt},
		MediaUUID:    e.UUID,
		RawMediaUUID: e.RawMediaUUID,
	}
}

// TrackToEntity 将轨道PO转换为Entity
func (c *ConvertedMediaConvertor) TrackToEntity(t *po.ConvertedTrack) *entity.ConvertedTrack {
	return &entity.ConvertedTrack{
		UUID:               t.TrackUUID,
		ConvertedMediaUUID: t.ConvertedMediaUUID,
		Path:               t.Path,
		Link:               t.Link,
		Language:           t.Language,
		CreatedAt:          t.CreatedAt,
	}
}

// TrackToPO 将轨道Entity转换为PO
func (c *ConvertedMediaConvertor) TrackToPO(e *entity.ConvertedTrack) *po.ConvertedTrack {
	return &po.ConvertedTrack{
		BaseModel:          po.BaseModel{CreatedAt: e.CreatedAt, UpdatedAt: e.CreatedAt},
		TrackUUID:          e.UUID,
		ConvertedMediaUUID: e.ConvertedMediaUUID,
		Path:               e.Path,
		Link:               e.Link,
		Language:           e.Language,
	}
}

// SubtitleToEntity 将字幕PO转换为Entity
func (c *ConvertedMediaConvertor) SubtitleToEntity(s *po.ConvertedSubtitle) *entity.ConvertedSubtitle {
	return &entity.ConvertedSubtitle{
		UUID:               s.SubtitleUUID,
		ConvertedMediaUUID: s.ConvertedMediaUUID,
		Path:               s.Path,
		Link:               s.Link,
		Language:           s.Language,
		CreatedAt:          s.CreatedAt,
	}
}

// SubtitleToPO 将字幕Entity转换为PO
func (c *ConvertedMediaConvertor) SubtitleToPO(e *entity.ConvertedSubtitle) *po.ConvertedSubtitle {
	return &po.ConvertedSubtitle{
		BaseModel:          po.BaseModel{CreatedAt: e.CreatedAt, UpdatedAt: e.CreatedAt},
		SubtitleUUID:       e.UUID,
		ConvertedMediaUUID: e.ConvertedMediaUUID,
		Path:               e.Path,
		Link:               e.Link,
		Language:           e.Language,
	}
}
