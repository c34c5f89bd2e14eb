package service

import (
	"context"
	"encoding/json"
	"fmt"

	"convert-service/ddd/domain/entity"
	"convert-service/ddd/domain/gateway"
	"convert-service/ddd/domain/repo"
	"convert-service/ddd/domain/vo"
	"convert-service/pkg/errno"
	"convert-service/pkg/logger"
)

// ConvertService 转换编排领域服务。
// 每次调用把一条原始媒体完整跑一遍抽取+转换；产物持久化是替换语义，
// 重复执行（队列重试）是安全的。编排器自身不重试，失败原样抛给worker。
type ConvertService interface {
	// Convert derives all converted artifacts for one raw media record.
	Convert(ctx context.Context, rawMediaUUID string) error
}

type convertServiceImpl struct {
	rawRepo   repo.RawMediaRepository
	convRepo  repo.ConvertedMediaRepository
	storage   gateway.StorageGateway
	processor gateway.MediaProcessor
	notifier  Notifier
	events    gateway.EventPublisher
}

// NewConvertService 创建转换编排服务
func NewConvertService(
	rawRepo repo.RawMediaRepository,
	convRepo repo.ConvertedMediaRepository,
	storage gateway.StorageGateway,
	processor gateway.MediaProcessor,
	notifier Notifier,
	events gateway.EventPublisher,
) ConvertService {
	return &convertServiceImpl{
		rawRepo:   rawRepo,
		convRepo:  convRepo,
		storage:   storage,
		processor: processor,
		notifier:  notifier,
		events:    events,
	}
}

// convertResult webhook成功事件的payload
type convertResult struct {
	RawMediaUUID       string `json:"raw_media_uuid"`
	ConvertedMediaUUID string `json:"converted_media_uuid"`
	Tracks             int    `json:"tracks"`
	Subtitles          int    `json:"subtitles"`
}

func (s *convertServiceImpl) Convert(ctx context.Context, rawMediaUUID string) error {
	media, err := s.rawRepo.GetByUUID(ctx, rawMediaUUID)
	if err != nil {
		// the owning user is unknown here, so no failure webhook can be built
		return err
	}

	logger.Infof("convert started raw_media_uuid=%s user_uuid=%s kind=%s path=%s",
		media.UUID, media.UserUUID, media.Kind, media.Path)

	var result convertResult
	switch media.Kind {
	case vo.MediaKindVideo:
		result, err = s.convertVideo(ctx, media)
	case vo.MediaKindSubtitle:
		result, err = s.convertSubtitle(ctx, media)
	default:
		return errno.ErrMediaKindIllegal.Permanent()
	}

	if err != nil {
		s.notifyFailure(ctx, media, err)
		return err
	}

	s.notifySuccess(ctx, media, result)
	logger.Infof("convert finished raw_media_uuid=%s tracks=%d subtitles=%d",
		media.UUID, result.Tracks, result.Subtitles)
	return nil
}

// convertVideo runs both extraction phases. Tracks and subtitles carry
// independent statuses on the raw media row, updated around each phase.
func (s *convertServiceImpl) convertVideo(ctx context.Context, media *entity.RawMedia) (convertResult, error) {
	converted, err := s.convRepo.GetOrCreateByRawMediaUUID(ctx, media.UUID)
	if err != nil {
		return convertResult{}, err
	}
	result := convertResult{RawMediaUUID: media.UUID, ConvertedMediaUUID: converted.UUID}

	n, err := s.extractTracks(ctx, media, converted)
	if err != nil {
		return result, err
	}
	result.Tracks = n

	n, err = s.extractSubtitles(ctx, media, converted)
	if err != nil {
		return result, err
	}
	result.Subtitles = n

	return result, nil
}

// extractTracks demuxes every embedded video track, converts each to the web
// target format sequentially and replaces the per-language artifact row.
// Zero tracks completes successfully with no children.
func (s *convertServiceImpl) extractTracks(ctx context.Context, media *entity.RawMedia, converted *entity.ConvertedMedia) (int, error) {
	if err := s.rawRepo.UpdateTaskStatus(ctx, media.UUID, vo.TaskExtractTracks, vo.TaskStatusInProgress); err != nil {
		return 0, err
	}

	tracks, err := s.processor.ExtractTracks(ctx, media.Path)
	if err != nil {
		s.markFailed(ctx, media.UUID, vo.TaskExtractTracks)
		return 0, fmt.Errorf("extract tracks: %w", err)
	}

	count := 0
	for _, track := range tracks {
		if err := s.convertOneTrack(ctx, media, converted, track); err != nil {
			s.markFailed(ctx, media.UUID, vo.TaskExtractTracks)
			return count, err
		}
		count++
	}

	if err := s.rawRepo.UpdateTaskStatus(ctx, media.UUID, vo.TaskExtractTracks, vo.TaskStatusCompleted); err != nil {
		return count, err
	}
	return count, nil
}

func (s *convertServiceImpl) convertOneTrack(ctx context.Context, media *entity.RawMedia, converted *entity.ConvertedMedia, track gateway.TrackStream) error {
	defer track.Stream.Close()

	language := track.Language
	if language == "" {
		language = vo.LanguageUndetermined
	}

	out, err := s.processor.ConvertToMP4(ctx, track.Stream, media.Ext())
	if err != nil {
		return fmt.Errorf("convert track language=%s: %w", language, err)
	}
	defer out.Close()

	objectKey := fmt.Sprintf("%s/%s/%s_%s.mp4",
		media.UserUUID, gateway.CategoryConvertedVideos, media.BaseName(), language)
	stored, err := s.storage.Upload(ctx, out, -1, objectKey, "video/mp4")
	if err != nil {
		return fmt.Errorf("upload track language=%s: %w", language, err)
	}

	return s.convRepo.ReplaceTrack(ctx, entity.NewConvertedTrack(converted.UUID, stored.Path, stored.Link, language))
}

// extractSubtitles mirrors extractTracks for embedded subtitle streams,
// normalized to WebVTT.
func (s *convertServiceImpl) extractSubtitles(ctx context.Context, media *entity.RawMedia, converted *entity.ConvertedMedia) (int, error) {
	if err := s.rawRepo.UpdateTaskStatus(ctx, media.UUID, vo.TaskExtractSubtitles, vo.TaskStatusInProgress); err != nil {
		return 0, err
	}

	subtitles, err := s.processor.ExtractSubtitles(ctx, media.Path)
	if err != nil {
		s.markFailed(ctx, media.UUID, vo.TaskExtractSubtitles)
		return 0, fmt.Errorf("extract subtitles: %w", err)
	}

	count := 0
	for _, sub := range subtitles {
		if err := s.convertOneSubtitle(ctx, media, converted, sub); err != nil {
			s.markFailed(ctx, media.UUID, vo.TaskExtractSubtitles)
			return count, err
		}
		count++
	}

	if err := s.rawRepo.UpdateTaskStatus(ctx, media.UUID, vo.TaskExtractSubtitles, vo.TaskStatusCompleted); err != nil {
		return count, err
	}
	return count, nil
}

func (s *convertServiceImpl) convertOneSubtitle(ctx context.Context, media *entity.RawMedia, converted *entity.ConvertedMedia, sub gateway.TrackStream) error {
	defer sub.Stream.Close()

	language := sub.Language
	if language == "" {
		language = vo.LanguageUndetermined
	}

	out, err := s.processor.ConvertToVTT(ctx, sub.Stream)
	if err != nil {
		return fmt.Errorf("convert subtitle language=%s: %w", language, err)
	}
	defer out.Close()

	objectKey := fmt.Sprintf("%s/%s/%s_%s.vtt",
		media.UserUUID, gateway.CategoryConvertedVideos, media.BaseName(), language)
	stored, err := s.storage.Upload(ctx, out, -1, objectKey, "text/vtt")
	if err != nil {
		return fmt.Errorf("upload subtitle language=%s: %w", language, err)
	}

	return s.convRepo.ReplaceSubtitle(ctx, entity.NewConvertedSubtitle(converted.UUID, stored.Path, stored.Link, language))
}

// convertSubtitle normalizes an uploaded subtitle file itself to WebVTT.
func (s *convertServiceImpl) convertSubtitle(ctx context.Context, media *entity.RawMedia) (convertResult, error) {
	converted, err := s.convRepo.GetOrCreateByRawMediaUUID(ctx, media.UUID)
	if err != nil {
		return convertResult{}, err
	}
	result := convertResult{RawMediaUUID: media.UUID, ConvertedMediaUUID: converted.UUID}

	if err := s.rawRepo.UpdateTaskStatus(ctx, media.UUID, vo.TaskExtractSubtitles, vo.TaskStatusInProgress); err != nil {
		return result, err
	}

	src, err := s.storage.Download(ctx, media.Path)
	if err != nil {
		s.markFailed(ctx, media.UUID, vo.TaskExtractSubtitles)
		return result, fmt.Errorf("download subtitle: %w", err)
	}
	defer src.Close()

	out, err := s.processor.ConvertToVTT(ctx, src)
	if err != nil {
		s.markFailed(ctx, media.UUID, vo.TaskExtractSubtitles)
		return result, fmt.Errorf("convert subtitle: %w", err)
	}
	defer out.Close()

	objectKey := fmt.Sprintf("%s/%s/%s.vtt",
		media.UserUUID, gateway.CategoryConvertedVideos, media.BaseName())
	stored, err := s.storage.Upload(ctx, out, -1, objectKey, "text/vtt")
	if err != nil {
		s.markFailed(ctx, media.UUID, vo.TaskExtractSubtitles)
		return result, fmt.Errorf("upload subtitle: %w", err)
	}

	subtitle := entity.NewConvertedSubtitle(converted.UUID, stored.Path, stored.Link, vo.LanguageUndetermined)
	if err := s.convRepo.ReplaceSubtitle(ctx, subtitle); err != nil {
		s.markFailed(ctx, media.UUID, vo.TaskExtractSubtitles)
		return result, err
	}
	result.Subtitles = 1

	if err := s.rawRepo.UpdateTaskStatus(ctx, media.UUID, vo.TaskExtractSubtitles, vo.TaskStatusCompleted); err != nil {
		return result, err
	}
	return result, nil
}

func (s *convertServiceImpl) markFailed(ctx context.Context, mediaUUID string, task vo.ConversionTask) {
	if err := s.rawRepo.UpdateTaskStatus(ctx, mediaUUID, task, vo.TaskStatusFailed); err != nil {
		logger.Warnf("failed to mark task status raw_media_uuid=%s task=%s error=%s", mediaUUID, task, err.Error())
	}
}

func (s *convertServiceImpl) notifySuccess(ctx context.Context, media *entity.RawMedia, result convertResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		logger.Warnf("failed to marshal convert result raw_media_uuid=%s error=%s", media.UUID, err.Error())
		return
	}
	event := &entity.WebhookEvent{
		Event:    vo.EventMediaConverted,
		UserUUID: media.UserUUID,
		Payload:  payload,
	}
	if err := s.notifier.Enqueue(ctx, event); err != nil {
		logger.Warnf("failed to enqueue success webhook raw_media_uuid=%s error=%s", media.UUID, err.Error())
	}
	if err := s.events.Publish(ctx, vo.EventMediaConverted, media.UUID, result); err != nil {
		logger.Warnf("failed to publish converted event raw_media_uuid=%s error=%s", media.UUID, err.Error())
	}
}

func (s *convertServiceImpl) notifyFailure(ctx context.Context, media *entity.RawMedia, cause error) {
	event := &entity.WebhookEvent{
		Event:    vo.EventMediaConvertFailed,
		UserUUID: media.UserUUID,
		Error:    cause.Error(),
	}
	if err := s.notifier.Enqueue(ctx, event); err != nil {
		logger.Warnf("failed to enqueue failure webhook raw_media_uuid=%s error=%s", media.UUID, err.Error())
	}
	if err := s.events.Publish(ctx, vo.EventMediaConvertFailed, media.UUID, map[string]string{
		"raw_media_uuid": media.UUID,
		"error":          cause.Error(),
	}); err != nil {
		logger.Warnf("failed to publish failed event raw_media_uuid=%s error=%s", media.UUID, err.Error())
	}
}
