package app

import (
	"context"
	"errors"

	"convert-service/ddd/application/cqe"
	"convert-service/ddd/application/dto"
	"convert-service/ddd/domain/service"
	"convert-service/pkg/errno"
)

// MediaApp 媒体用例编排
type MediaApp interface {
	// UploadVideo 保存原始视频并投递异步转换作业
	UploadVideo(ctx context.Context, req *cqe.UploadVideoCqe) (*dto.RawMediaDTO, error)
	// UploadSubtitle 保存外挂字幕并投递异步转换作业
	UploadSubtitle(ctx context.Context, req *cqe.UploadSubtitleCqe) (*dto.RawMediaDTO, error)
	// GetMedia 查询单条媒体及其已就绪的转换产物
	GetMedia(ctx context.Context, userUUID, mediaUUID string) (*dto.MediaDetailDTO, error)
	// ListMedia 查询用户的全部媒体
	ListMedia(ctx context.Context, userUUID string) ([]dto.RawMediaDTO, error)
}

type mediaAppImpl struct {
	mediaService service.MediaService
}

// NewMediaApp 创建媒体应用服务
func NewMediaApp(mediaService service.MediaService) MediaApp {
	return &mediaAppImpl{mediaService: mediaService}
}

func (a *mediaAppImpl) UploadVideo(ctx context.Context, req *cqe.UploadVideoCqe) (*dto.RawMediaDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	media, err := a.mediaService.SaveRawVideo(ctx, req.UserUUID, req.FileName, req.File, req.Size)
	if err != nil {
		return nil, err
	}
	out := dto.FromRawMedia(media)
	return &out, nil
}

func (a *mediaAppImpl) UploadSubtitle(ctx context.Context, req *cqe.UploadSubtitleCqe) (*dto.RawMediaDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	media, err := a.mediaService.SaveRawSubtitle(ctx, req.UserUUID, req.File, req.Size, req.FileName, req.ParentVideoName)
	if err != nil {
		return nil, err
	}
	out := dto.FromRawMedia(media)
	return &out, nil
}

func (a *mediaAppImpl) GetMedia(ctx context.Context, userUUID, mediaUUID string) (*dto.MediaDetailDTO, error) {
	media, err := a.mediaService.GetMedia(ctx, userUUID, mediaUUID)
	if err != nil {
		return nil, err
	}

	detail := &dto.MediaDetailDTO{Media: dto.FromRawMedia(media)}

	converted, tracks, subtitles, err := a.mediaService.GetConverted(ctx, userUUID, mediaUUID)
	if err != nil {
		// conversion may simply not have produced anything yet
		if errors.Is(err, errno.ErrConvertedMediaNotFound) {
			return detail, nil
		}
		return nil, err
	}
	detail.Converted = dto.FromConvertedMedia(converted, tracks, subtitles)
	return detail, nil
}

func (a *mediaAppImpl) ListMedia(ctx context.Context, userUUID string) ([]dto.RawMediaDTO, error) {
	list, err := a.mediaService.ListMedia(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RawMediaDTO, 0, len(list))
	for _, m := range list {
		out = append(out, dto.FromRawMedia(m))
	}
	return out, nil
}
