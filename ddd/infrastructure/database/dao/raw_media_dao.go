package dao

import (
	"context"

	"gorm.io/gorm"

	"convert-service/ddd/infrastructure/database/po"
)

// RawMediaDAO 原始媒体数据访问对象
type RawMediaDAO struct {
	db *gorm.DB
}

// NewRawMediaDAO 创建DAO
func NewRawMediaDAO(db *gorm.DB) *RawMediaDAO {
	return &RawMediaDAO{db: db}
}

// CreateOrReplace 按 (user_uuid, path) 删旧插新，单事务完成
func (d *RawMediaDAO) CreateOrReplace(ctx context.Context, m *po.RawMedia) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_uuid = ? AND path = ?", m.UserUUID, m.Path).Delete(&po.RawMedia{}).Error; err != nil {
			return err
		}
		return tx.Create(m).Error
	})
}

func (d *RawMediaDAO) FindByMediaUUID(ctx context.Context, mediaUUID string) (*po.RawMedia, error) {
	var m po.RawMedia
	if err := d.db.WithContext(ctx).Where("media_uuid = ?", mediaUUID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (d *RawMediaDAO) FindByUserAndPath(ctx context.Context, userUUID, path string) (*po.RawMedia, error) {
	var m po.RawMedia
	if err := d.db.WithContext(ctx).Where("user_uuid = ? AND path = ?", userUUID, path).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (d *RawMediaDAO) QueryByUser(ctx context.Context, userUUID string) ([]*po.RawMedia, error) {
	var list []*po.RawMedia
	if err := d.db.WithContext(ctx).Where("user_uuid = ?", userUUID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateColumns 按 media_uuid 更新指定列；目标行不存在时返回 gorm.ErrRecordNotFound
func (d *RawMediaDAO) UpdateColumns(ctx context.Context, mediaUUID string, values map[string]interface{}) error {
	res := d.db.WithContext(ctx).Model(&po.RawMedia{}).Where("media_uuid = ?", mediaUUID).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
