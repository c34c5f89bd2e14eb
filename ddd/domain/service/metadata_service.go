package service

import (
	"context"
	"fmt"

	"convert-service/ddd/domain/gateway"
	"convert-service/ddd/domain/repo"
	"convert-service/ddd/domain/vo"
	"convert-service/pkg/logger"
)

// MetadataService 元数据填充领域服务
type MetadataService interface {
	// FillMetadata probes the stored object and persists duration and stream layout.
	FillMetadata(ctx context.Context, rawMediaUUID string) error
}

type metadataServiceImpl struct {
	rawRepo   repo.RawMediaRepository
	processor gateway.MediaProcessor
	events    gateway.EventPublisher
}

// NewMetadataService 创建元数据填充服务
func NewMetadataService(rawRepo repo.RawMediaRepository, processor gateway.MediaProcessor, events gateway.EventPublisher) MetadataService {
	return &metadataServiceImpl{rawRepo: rawRepo, processor: processor, events: events}
}

func (s *metadataServiceImpl) FillMetadata(ctx context.Context, rawMediaUUID string) error {
	media, err := s.rawRepo.GetByUUID(ctx, rawMediaUUID)
	if err != nil {
		return err
	}

	info, err := s.processor.Probe(ctx, media.Path)
	if err != nil {
		return fmt.Errorf("probe media: %w", err)
	}

	if err := s.rawRepo.UpdateMetadata(ctx, media.UUID, info.DurationSeconds, info.Streams); err != nil {
		return err
	}

	if err := s.events.Publish(ctx, vo.EventMetadataFilled, media.UUID, map[string]interface{}{
		"raw_media_uuid":   media.UUID,
		"duration_seconds": info.DurationSeconds,
		"streams":          len(info.Streams),
	}); err != nil {
		logger.Warnf("failed to publish metadata event raw_media_uuid=%s error=%s", media.UUID, err.Error())
	}

	logger.Infof("metadata filled raw_media_uuid=%s duration=%.2fs streams=%d",
		media.UUID, info.DurationSeconds, len(info.Streams))
	return nil
}
