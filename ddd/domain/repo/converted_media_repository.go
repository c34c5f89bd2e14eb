package repo

import (
	"context"

	"convert-service/ddd/domain/entity"
)

// ConvertedMediaRepository 转换产物仓储。
// ReplaceTrack/ReplaceSubtitle 按各自唯一键删除旧行后插入新行，事务内完成。
type ConvertedMediaRepository interface {
	// GetOrCreateByRawMediaUUID returns the aggregate for a raw media,
	// creating it on first use. Concurrent creators resolve through the
	// unique index on raw_media_uuid: the loser re-reads the winner's row.
	GetOrCreateByRawMediaUUID(ctx context.Context, rawMediaUUID string) (*entity.ConvertedMedia, error)

	// GetByRawMediaUUID returns errno.ErrConvertedMediaNotFound when absent.
	GetByRawMediaUUID(ctx context.Context, rawMediaUUID string) (*entity.ConvertedMedia, error)

	// ReplaceTrack keeps at most one current row per (converted_media_uuid, language).
	ReplaceTrack(ctx context.Context, track *entity.ConvertedTrack) error

	// ReplaceSubtitle keeps at most one current row per (converted_media_uuid, path).
	ReplaceSubtitle(ctx context.Context, subtitle *entity.ConvertedSubtitle) error

	ListTracks(ctx context.Context, convertedMediaUUID string) ([]*entity.ConvertedTrack, error)
	ListSubtitles(ctx context.Context, convertedMediaUUID string) ([]*entity.ConvertedSubtitle, error)
}
