package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"convert-service/ddd/domain/entity"
	"convert-service/ddd/domain/repo"
	"convert-service/ddd/domain/vo"
	"convert-service/ddd/infrastructure/database/convertor"
	"convert-service/ddd/infrastructure/database/dao"
	"convert-service/pkg/errno"
)

// rawMediaRepositoryImpl 原始媒体仓储实现
type rawMediaRepositoryImpl struct {
	mediaDao  *dao.RawMediaDAO
	convertor *convertor.RawMediaConvertor
}

// NewRawMediaRepository 创建原始媒体仓储实现
func NewRawMediaRepository(db *gorm.DB) repo.RawMediaRepository {
	return &rawMediaRepositoryImpl{
		mediaDao:  dao.NewRawMediaDAO(db),
		convertor: convertor.NewRawMediaConvertor(),
	}
}

func (r *rawMediaRepositoryImpl) CreateOrReplace(ctx context.Context, media *entity.RawMedia) error {
	if !media.Kind.IsValid() {
		return errno.ErrMediaKindIllegal
	}
	return r.mediaDao.CreateOrReplace(ctx, r.convertor.ToPO(media))
}

func (r *rawMediaRepositoryImpl) GetByUUID(ctx context.Context, mediaUUID string) (*entity.RawMedia, error) {
	m, err := r.mediaDao.FindByMediaUUID(ctx, mediaUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrRawMediaNotFound
		}
		return nil, err
	}
	return r.convertor.ToEntity(m), nil
}

func (r *rawMediaRepositoryImpl) GetByPath(ctx context.Context, userUUID, path string) (*entity.RawMedia, error) {
	m, err := r.mediaDao.FindByUserAndPath(ctx, userUUID, path)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrRawMediaNotFound
		}
		return nil, err
	}
	return r.convertor.ToEntity(m), nil
}

func (r *rawMediaRepositoryImpl) ListByUser(ctx context.Context, userUUID string) ([]*entity.RawMedia, error) {
	list, err := r.mediaDao.QueryByUser(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntityList(list), nil
}

func (r *rawMediaRepositoryImpl) UpdateTaskStatus(ctx context.Context, mediaUUID string, task vo.ConversionTask, status vo.TaskStatus) error {
	m, err := r.mediaDao.FindByMediaUUID(ctx, mediaUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errno.ErrUpdateMissingRow
		}
		return err
	}
	column := "extract_tracks_status"
	current := vo.TaskStatus(m.ExtractTracksStatus)
	if task == vo.TaskExtractSubtitles {
		column = "extract_subtitles_status"
		current = vo.TaskStatus(m.ExtractSubtitlesStatus)
	}
	if !status.IsValid() || !current.CanTransitionTo(status) {
		return errno.ErrTaskStatusIllegal
	}
	err = r.mediaDao.UpdateColumns(ctx, mediaUUID, map[string]interface{}{column: status.String()})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errno.ErrUpdateMissingRow
	}
	return err
}

func (r *rawMediaRepositoryImpl) UpdateMetadata(ctx context.Context, mediaUUID string, durationSeconds float64, streams []vo.MediaStream) error {
	err := r.mediaDao.UpdateColumns(ctx, mediaUUID, map[string]interface{}{
		"duration_seconds": durationSeconds,
		"streams":          convertor.StreamsToPO(streams),
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errno.ErrUpdateMissingRow
	}
	return err
}
