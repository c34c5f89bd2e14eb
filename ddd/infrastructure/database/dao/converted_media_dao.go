package dao

import (
	"context"

	"gorm.io/gorm"

	"convert-service/ddd/infrastructure/database/po"
)

// ConvertedMediaDAO 转换产物数据访问对象
type ConvertedMediaDAO struct {
	db *gorm.DB
}

// NewConvertedMediaDAO 创建DAO
func NewConvertedMediaDAO(db *gorm.DB) *ConvertedMediaDAO {
	return &ConvertedMediaDAO{db: db}
}

// Create 插入聚合根；raw_media_uuid 已存在时返回唯一键冲突错误
func (d *ConvertedMediaDAO) Create(ctx context.Context, m *po.ConvertedMedia) error {
	return d.db.WithContext(ctx).Create(m).Error
}

func (d *ConvertedMediaDAO) FindByRawMediaUUID(ctx context.Context, rawMediaUUID string) (*po.ConvertedMedia, error) {
	var m po.ConvertedMedia
	if err := d.db.WithContext(ctx).Where("raw_media_uuid = ?", rawMediaUUID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ReplaceTrack 按 (converted_media_uuid, language) 删旧插新，单事务完成
func (d *ConvertedMediaDAO) ReplaceTrack(ctx context.Context, t *po.ConvertedTrack) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("converted_media_uuid = ? AND language = ?", t.ConvertedMediaUUID, t.Language).Delete(&po.ConvertedTrack{}).Error; err != nil {
			return err
		}
		return tx.Create(t).Error
	})
}

// ReplaceSubtitle 按 (converted_media_uuid, path) 删旧插新，单事务完成
func (d *ConvertedMediaDAO) ReplaceSubtitle(ctx context.Context, s *po.ConvertedSubtitle) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("converted_media_uuid = ? AND path = ?", s.ConvertedMediaUUID, s.Path).Delete(&po.ConvertedSubtitle{}).Error; err != nil {
			return err
		}
		return tx.Create(s).Error
	})
}

func (d *ConvertedMediaDAO) QueryTracks(ctx context.Context, convertedMediaUUID string) ([]*po.ConvertedTrack, error) {
	var list []*po.ConvertedTrack
	if err := d.db.WithContext(ctx).Where("converted_media_uuid = ?", convertedMediaUUID).Order("language ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (d *ConvertedMediaDAO) QuerySubtitles(ctx context.Context, convertedMediaUUID string) ([]*po.ConvertedSubtitle, error) {
	var list []*po.ConvertedSubtitle
	if err := d.db.WithContext(ctx).Where("converted_media_uuid = ?", convertedMediaUUID).Order("path ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
