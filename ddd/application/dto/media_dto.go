package dto

import (
	"time"

	"convert-service/ddd/domain/entity"
)

// MediaStreamDTO 探测到的流信息
type MediaStreamDTO struct {
	Index     int    `json:"index"`
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Language  string `json:"language,omitempty"`
}

// RawMediaDTO 原始媒体视图
type RawMediaDTO struct {
	UUID                   string           `json:"uuid"`
	Name                   string           `json:"name"`
	Path                   string           `json:"path"`
	Kind                   string           `json:"kind"`
	ExtractTracksStatus    string           `json:"extract_tracks_status"`
	ExtractSubtitlesStatus string           `json:"extract_subtitles_status"`
	DurationSeconds        float64          `json:"duration_seconds,omitempty"`
	Streams                []MediaStreamDTO `json:"streams,omitempty"`
	CreatedAt              time.Time        `json:"created_at"`
	UpdatedAt              time.Time        `json:"updated_at"`
}

// ConvertedTrackDTO 可播放轨道视图
type ConvertedTrackDTO struct {
	UUID     string `json:"uuid"`
	Path     string `json:"path"`
	Link     string `json:"link"`
	Language string `json:"language"`
}

// ConvertedSubtitleDTO 字幕产物视图
type ConvertedSubtitleDTO struct {
	UUID     string `json:"uuid"`
	Path     string `json:"path"`
	Link     string `json:"link"`
	Language string `json:"language"`
}

// ConvertedMediaDTO 转换产物聚合视图
type ConvertedMediaDTO struct {
	UUID      string                 `json:"uuid"`
	Tracks    []ConvertedTrackDTO    `json:"tracks"`
	Subtitles []ConvertedSubtitleDTO `json:"subtitles"`
}

// MediaDetailDTO 媒体详情：原始记录加已就绪的转换产物
type MediaDetailDTO struct {
	Media     RawMediaDTO        `json:"media"`
	Converted *ConvertedMediaDTO `json:"converted,omitempty"`
}

// FromRawMedia 将实体映射为视图
func FromRawMedia(m *entity.RawMedia) RawMediaDTO {
	streams := make([]MediaStreamDTO, 0, len(m.Streams))
	for _, s := range m.Streams {
		streams = append(streams, MediaStreamDTO{
			Index:     s.Index,
			CodecType: s.CodecType,
			CodecName: s.CodecName,
			Language:  s.Language,
		})
	}
	return RawMediaDTO{
		UUID:                   m.UUID,
		Name:                   m.Name,
		Path:                   m.Path,
		Kind:                   m.Kind.String(),
		ExtractTracksStatus:    m.ExtractTracksStatus.String(),
		ExtractSubtitlesStatus: m.ExtractSubtitlesStatus.String(),
		DurationSeconds:        m.DurationSeconds,
		Streams:                streams,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

// FromConvertedMedia 将转换产物聚合映射为视图
func FromConvertedMedia(m *entity.ConvertedMedia, tracks []*entity.ConvertedTrack, subtitles []*entity.ConvertedSubtitle) *ConvertedMediaDTO {
	out := &ConvertedMediaDTO{
		UUID:      m.UUID,
		Tracks:    make([]ConvertedTrackDTO, 0, len(tracks)),
		Subtitles: make([]ConvertedSubtitleDTO, 0, len(subtitles)),
	}
	for _, t := range tracks {
		out.Tracks = append(out.Tracks, ConvertedTrackDTO{
			UUID:     t.UUID,
			Path:     t.Path,
			Link:     t.Link,
			Language: t.Language,
		})
	}
	for _, s := range subtitles {
		out.Subtitles = append(out.Subtitles, ConvertedSubtitleDTO{
			UUID:     s.UUID,
			Path:     s.Path,
			Link:     s.Link,
			Language: s.Language,
		})
	}
	return out
}
