package convertor

import (
	"convert-service/ddd/domain/entity"
	"convert-service/ddd/domain/vo"
	"convert-service/ddd/infrastructure/database/po"
)

// RawMediaConvertor 原始媒体PO/Entity转换器
type RawMediaConvertor struct{}

// NewRawMediaConvertor 创建转换器
func NewRawMediaConvertor() *RawMediaConvertor {
	return &RawMediaConvertor{}
}

// ToEntity 将PO转换为Entity
func (c *RawMediaConvertor) ToEntity(m *po.RawMedia) *entity.RawMedia {
	streams := make([]vo.MediaStream, 0, len(m.Streams))
	for _, s := range m.Streams {
		streams = append(streams, vo.MediaStream{
			Index:     s.Index,
			CodecType: s.CodecType,
			CodecName: s.CodecName,
			Language:  s.Language,
		})
	}
	return &entity.RawMedia{
		UUID:                   m.MediaUUID,
		UserUUID:               m.UserUUID,
		Name:                   m.Name,
		Path:                   m.Path,
		Kind:                   vo.MediaKind(m.Kind),
		ExtractTracksStatus:    vo.TaskStatus(m.ExtractTracksStatus),
		ExtractSubtitlesStatus: vo.TaskStatus(m.ExtractSubtitlesStatus),
		DurationSeconds:        m.DurationSeconds,
		Streams:                streams,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

// ToPO 将Entity转换为PO
func (c *RawMediaConvertor) ToPO(e *entity.RawMedia) *po.RawMedia {
	return &po.RawMedia{
		BaseModel: po.BaseModel{
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
		},
		MediaUUID:              e.UUID,
		UserUUID:               e.UserUUID,
		Name:                   e.Name,
		Path:                   e.Path,
		Kind:                   e.Kind.String(),
		ExtractTracksStatus:    e.ExtractTracksStatus.String(),
		ExtractSubtitlesStatus: e.ExtractSubtitlesStatus.String(),
		DurationSeconds:        e.DurationSeconds,
		Streams:                StreamsToPO(e.Streams),
	}
}

// StreamsToPO 将流信息值对象转换为持久化形态
func StreamsToPO(streams []vo.MediaStream) po.StreamList {
	list := make(po.StreamList, 0, len(streams))
	for _, s := range streams {
		list = append(list, po.MediaStreamPO{
			Index:     s.Index,
			CodecType: s.CodecType,
			CodecName: s.CodecName,
			Language:  s.Language,
		})
	}
	return list
}

// ToEntityList 批量转换
func (c *RawMediaConvertor) ToEntityList(list []*po.RawMedia) []*entity.RawMedia {
	entities := make([]*entity.RawMedia, 0, len(list))
	for _, m := range list {
		entities = append(entities, c.ToEntity(m))
	}
	return entities
}
