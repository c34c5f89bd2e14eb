package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"convert-service/ddd/domain/entity"
	"convert-service/ddd/domain/gateway"
	"convert-service/ddd/domain/repo"
	"convert-service/ddd/domain/vo"
	"convert-service/pkg/errno"
	"convert-service/pkg/logger"
)

// Queues 三个队列的名字，装配时从配置取
type Queues struct {
	Metadata string
	Convert  string
	Webhook  string
}

// MediaService 上传入口领域服务：落存储、落库、排任务。
type MediaService interface {
	// SaveRawVideo uploads a video, create-or-replaces its record and enqueues
	// the fill-metadata and convert jobs.
	SaveRawVideo(ctx context.Context, userUUID, fileName string, r io.Reader, size int64) (*entity.RawMedia, error)

	// SaveRawSubtitle attaches an uploaded subtitle file to an existing raw
	// video resolved by its constructed storage path.
	SaveRawSubtitle(ctx context.Context, userUUID string, r io.Reader, size int64, fileName, parentVideoName string) (*entity.RawMedia, error)

	GetMedia(ctx context.Context, userUUID, mediaUUID string) (*entity.RawMedia, error)
	ListMedia(ctx context.Context, userUUID string) ([]*entity.RawMedia, error)

	// GetConverted returns the aggregate with its children for one raw media.
	GetConverted(ctx context.Context, userUUID, mediaUUID string) (*entity.ConvertedMedia, []*entity.ConvertedTrack, []*entity.ConvertedSubtitle, error)
}

type mediaServiceImpl struct {
	rawRepo   repo.RawMediaRepository
	convRepo  repo.ConvertedMediaRepository
	storage   gateway.StorageGateway
	transport gateway.QueueTransport
	queues    Queues
}

// NewMediaService 创建媒体服务
func NewMediaService(
	rawRepo repo.RawMediaRepository,
	convRepo repo.ConvertedMediaRepository,
	storage gateway.StorageGateway,
	transport gateway.QueueTransport,
	queues Queues,
) MediaService {
	return &mediaServiceImpl{
		rawRepo:   rawRepo,
		convRepo:  convRepo,
		storage:   storage,
		transport: transport,
		queues:    queues,
	}
}

func (s *mediaServiceImpl) SaveRawVideo(ctx context.Context, userUUID, fileName string, r io.Reader, size int64) (*entity.RawMedia, error) {
	if userUUID == "" {
		return nil, errno.ErrUserUUIDRequired
	}
	if err := validateFileName(fileName); err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("%s/%s/%s", userUUID, gateway.CategoryRawVideos, fileName)
	stored, err := s.storage.Upload(ctx, r, size, objectKey, contentTypeFor(fileName))
	if err != nil {
		return nil, fmt.Errorf("upload raw video: %w", err)
	}

	media := entity.NewRawMedia(userUUID, fileName, stored.Path, vo.MediaKindVideo)
	if err := s.rawRepo.CreateOrReplace(ctx, media); err != nil {
		return nil, err
	}

	if err := s.enqueueJobs(ctx, media); err != nil {
		return nil, err
	}

	logger.Infof("raw video saved raw_media_uuid=%s user_uuid=%s path=%s", media.UUID, userUUID, media.Path)
	return media, nil
}

func (s *mediaServiceImpl) SaveRawSubtitle(ctx context.Context, userUUID string, r io.Reader, size int64, fileName, parentVideoName string) (*entity.RawMedia, error) {
	if userUUID == "" {
		return nil, errno.ErrUserUUIDRequired
	}
	if err := validateFileName(fileName); err != nil {
		return nil, err
	}

	parentPath := fmt.Sprintf("%s/%s/%s", userUUID, gateway.CategoryRawVideos, parentVideoName)
	if _, err := s.rawRepo.GetByPath(ctx, userUUID, parentPath); err != nil {
		if errno.IsNotFound(err) {
			return nil, errno.ErrParentVideoNotFound
		}
		return nil, err
	}

	objectKey := fmt.Sprintf("%s/%s/%s", userUUID, gateway.CategoryRawSubtitles, fileName)
	stored, err := s.storage.Upload(ctx, r, size, objectKey, contentTypeFor(fileName))
	if err != nil {
		return nil, fmt.Errorf("upload raw subtitle: %w", err)
	}

	media := entity.NewRawMedia(userUUID, fileName, stored.Path, vo.MediaKindSubtitle)
	if err := s.rawRepo.CreateOrReplace(ctx, media); err != nil {
		return nil, err
	}

	if err := s.enqueueJobs(ctx, media); err != nil {
		return nil, err
	}

	logger.Infof("raw subtitle saved raw_media_uuid=%s user_uuid=%s parent=%s", media.UUID, userUUID, parentVideoName)
	return media, nil
}

// enqueueJobs pushes the fill-metadata and convert jobs for a fresh record.
func (s *mediaServiceImpl) enqueueJobs(ctx context.Context, media *entity.RawMedia) error {
	if err := gateway.EnqueueJSON(ctx, s.transport, s.queues.Metadata, entity.MetadataJob{RawMediaUUID: media.UUID}); err != nil {
		return fmt.Errorf("enqueue metadata job: %w", err)
	}
	if err := gateway.EnqueueJSON(ctx, s.transport, s.queues.Convert, entity.ConvertJob{RawMediaUUID: media.UUID, Kind: media.Kind}); err != nil {
		return fmt.Errorf("enqueue convert job: %w", err)
	}
	return nil
}

func (s *mediaServiceImpl) GetMedia(ctx context.Context, userUUID, mediaUUID string) (*entity.RawMedia, error) {
	media, err := s.rawRepo.GetByUUID(ctx, mediaUUID)
	if err != nil {
		return nil, err
	}
	if media.UserUUID != userUUID {
		return nil, errno.ErrRawMediaNotFound
	}
	return media, nil
}

func (s *mediaServiceImpl) ListMedia(ctx context.Context, userUUID string) ([]*entity.RawMedia, error) {
	if userUUID == "" {
		return nil, errno.ErrUserUUIDRequired
	}
	return s.rawRepo.ListByUser(ctx, userUUID)
}

func (s *mediaServiceImpl) GetConverted(ctx context.Context, userUUID, mediaUUID string) (*entity.ConvertedMedia, []*entity.ConvertedTrack, []*entity.ConvertedSubtitle, error) {
	if _, err := s.GetMedia(ctx, userUUID, mediaUUID); err != nil {
		return nil, nil, nil, err
	}

	converted, err := s.convRepo.GetByRawMediaUUID(ctx, mediaUUID)
	if err != nil {
		return nil, nil, nil, err
	}
	tracks, err := s.convRepo.ListTracks(ctx, converted.UUID)
	if err != nil {
		return nil, nil, nil, err
	}
	subtitles, err := s.convRepo.ListSubtitles(ctx, converted.UUID)
	if err != nil {
		return nil, nil, nil, err
	}
	return converted, tracks, subtitles, nil
}

func validateFileName(name string) error {
	if name == "" || name != path.Base(name) || strings.HasPrefix(name, ".") {
		return errno.ErrFileNameIllegal
	}
	return nil
}

func contentTypeFor(fileName string) string {
	if ct := mime.TypeByExtension(path.Ext(fileName)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
