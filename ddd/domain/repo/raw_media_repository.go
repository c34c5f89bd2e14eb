package repo

import (
	"context"

	"convert-service/ddd/domain/entity"
	"convert-service/ddd/domain/vo"
)

// RawMediaRepository 原始媒体仓储。
// CreateOrReplace 以 (user_uuid, path) 为键：已存在则整行替换（一个事务内删除+插入）。
type RawMediaRepository interface {
	// CreateOrReplace rejects rows whose kind fails vo.MediaKind.IsValid with errno.ErrMediaKindIllegal.
	CreateOrReplace(ctx context.Context, media *entity.RawMedia) error

	// GetByUUID returns errno.ErrRawMediaNotFound when the row is absent.
	GetByUUID(ctx context.Context, mediaUUID string) (*entity.RawMedia, error)

	// GetByPath looks a row up by its natural key.
	GetByPath(ctx context.Context, userUUID, path string) (*entity.RawMedia, error)

	ListByUser(ctx context.Context, userUUID string) ([]*entity.RawMedia, error)

	// UpdateTaskStatus must fail with errno.ErrUpdateMissingRow when the row is absent
	// and with errno.ErrTaskStatusIllegal when the transition breaks vo.TaskStatus.CanTransitionTo.
	UpdateTaskStatus(ctx context.Context, mediaUUID string, task vo.ConversionTask, status vo.TaskStatus) error

	// UpdateMetadata stores probe results; fails on a missing row.
	UpdateMetadata(ctx context.Context, mediaUUID string, durationSeconds float64, streams []vo.MediaStream) error
}
