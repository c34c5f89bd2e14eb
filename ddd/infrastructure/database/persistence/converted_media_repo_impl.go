package persistence

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"convert-service/ddd/domain/entity"
	"convert-service/ddd/domain/repo"
	"convert-service/ddd/infrastructure/database/convertor"
	"convert-service/ddd/infrastructure/database/dao"
	"convert-service/pkg/errno"
)

// convertedMediaRepositoryImpl 转换产物仓储实现
type convertedMediaRepositoryImpl struct {
	mediaDao  *dao.ConvertedMediaDAO
	convertor *convertor.ConvertedMediaConvertor
}

// NewConvertedMediaRepository 创建转换产物仓储实现
func NewConvertedMediaRepository(db *gorm.DB) repo.ConvertedMediaRepository {
	return &convertedMediaRepositoryImpl{
		mediaDao:  dao.NewConvertedMediaDAO(db),
		convertor: convertor.NewConvertedMediaConvertor(),
	}
}

// GetOrCreateByRawMediaUUID 不存在则插入；并发插入输掉唯一索引竞争的一方回读胜者的行。
func (r *convertedMediaRepositoryImpl) GetOrCreateByRawMediaUUID(ctx context.Context, rawMediaUUID string) (*entity.ConvertedMedia, error) {
	m, err := r.mediaDao.FindByRawMediaUUID(ctx, rawMediaUUID)
	if err == nil {
		return r.convertor.ToEntity(m), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := entity.NewConvertedMedia(rawMediaUUID)
	if err := r.mediaDao.Create(ctx, r.convertor.ToPO(created)); err != nil {
		if isDuplicateKey(err) {
			m, rerr := r.mediaDao.FindByRawMediaUUID(ctx, rawMediaUUID)
			if rerr != nil {
				return nil, rerr
			}
			return r.convertor.ToEntity(m), nil
		}
		return nil, err
	}
	return created, nil
}

func (r *convertedMediaRepositoryImpl) GetByRawMediaUUID(ctx context.Context, rawMediaUUID string) (*entity.ConvertedMedia, error) {
	m, err := r.mediaDao.FindByRawMediaUUID(ctx, rawMediaUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrConvertedMediaNotFound
		}
		return nil, err
	}
	return r.convertor.ToEntity(m), nil
}

func (r *convertedMediaRepositoryImpl) ReplaceTrack(ctx context.Context, track *entity.ConvertedTrack) error {
	return r.mediaDao.ReplaceTrack(ctx, r.convertor.TrackToPO(track))
}

func (r *convertedMediaRepositoryImpl) ReplaceSubtitle(ctx context.Context, subtitle *entity.ConvertedSubtitle) error {
	return r.mediaDao.ReplaceSubtitle(ctx, r.convertor.SubtitleToPO(subtitle))
}

func (r *convertedMediaRepositoryImpl) ListTracks(ctx context.Context, convertedMediaUUID string) ([]*entity.ConvertedTrack, error) {
	list, err := r.mediaDao.QueryTracks(ctx, convertedMediaUUID)
	if err != nil {
		return nil, err
	}
	tracks := make([]*entity.ConvertedTrack, 0, len(list))
	for _, t := range list {
		tracks = append(tracks, r.convertor.TrackToEntity(t))
	}
	return tracks, nil
}

func (r *convertedMediaRepositoryImpl) ListSubtitles(ctx context.Context, convertedMediaUUID string) ([]*entity.ConvertedSubtitle, error) {
	list, err := r.mediaDao.QuerySubtitles(ctx, convertedMediaUUID)
	if err != nil {
		return nil, err
	}
	subtitles := make([]*entity.ConvertedSubtitle, 0, len(list))
	for _, s := range list {
		subtitles = append(subtitles, r.convertor.SubtitleToEntity(s))
	}
	return subtitles, nil
}

// isDuplicateKey 识别唯一索引冲突（MySQL 1062），兼容gorm的错误翻译
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
