package http

import (
	"github.com/gin-gonic/gin"

	"convert-service/ddd/application/app"
	"convert-service/ddd/application/cqe"
	"convert-service/pkg/errno"
	"convert-service/pkg/manager"
	"convert-service/pkg/middleware"
	"convert-service/pkg/restapi"
)

func init() {
	manager.RegisterControllerPlugin(&MediaControllerPlugin{})
}

// MediaControllerPlugin 媒体控制器注册插件
type MediaControllerPlugin struct{}

func (p *MediaControllerPlugin) Name() string {
	return "mediaControllerPlugin"
}

func (p *MediaControllerPlugin) MustCreateController(deps *manager.Dependencies) manager.Controller {
	return &mediaControllerImpl{mediaApp: deps.MediaAppService.(app.MediaApp)}
}

type mediaControllerImpl struct {
	mediaApp app.MediaApp
}

// RegisterRoutes 挂载媒体相关路由
func (c *mediaControllerImpl) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/v1/media")
	group.POST("/videos", c.UploadVideo)
	group.POST("/videos/:name/subtitles", c.UploadSubtitle)
	group.GET("", c.ListMedia)
	group.GET("/:media_id", c.GetMedia)
}

// UploadVideo 接收multipart视频上传
func (c *mediaControllerImpl) UploadVideo(ctx *gin.Context) {
	userUUID := middleware.UserUUID(ctx)
	if userUUID == "" {
		restapi.Failed(ctx, errno.ErrUserUUIDRequired)
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		restapi.Failed(ctx, errno.ErrUploadIllegal)
		return
	}
	file, err := header.Open()
	if err != nil {
		restapi.Failed(ctx, errno.ErrUploadIllegal)
		return
	}
	defer file.Close()

	result, err := c.mediaApp.UploadVideo(ctx.Request.Context(), &cqe.UploadVideoCqe{
		UserUUID: userUUID,
		FileName: header.Filename,
		Size:     header.Size,
		File:     file,
	})
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Created(ctx, result)
}

// UploadSubtitle 接收外挂字幕上传，挂在路径里的视频名下
func (c *mediaControllerImpl) UploadSubtitle(ctx *gin.Context) {
	userUUID := middleware.UserUUID(ctx)
	if userUUID == "" {
		restapi.Failed(ctx, errno.ErrUserUUIDRequired)
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		restapi.Failed(ctx, errno.ErrUploadIllegal)
		return
	}
	file, err := header.Open()
	if err != nil {
		restapi.Failed(ctx, errno.ErrUploadIllegal)
		return
	}
	defer file.Close()

	result, err := c.mediaApp.UploadSubtitle(ctx.Request.Context(), &cqe.UploadSubtitleCqe{
		UserUUID:        userUUID,
		FileName:        header.Filename,
		ParentVideoName: ctx.Param("name"),
		Size:            header.Size,
		File:            file,
	})
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Created(ctx, result)
}

// GetMedia 查询单条媒体详情
func (c *mediaControllerImpl) GetMedia(ctx *gin.Context) {
	userUUID := middleware.UserUUID(ctx)
	if userUUID == "" {
		restapi.Failed(ctx, errno.ErrUserUUIDRequired)
		return
	}

	detail, err := c.mediaApp.GetMedia(ctx.Request.Context(), userUUID, ctx.Param("media_id"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, detail)
}

// ListMedia 查询用户全部媒体
func (c *mediaControllerImpl) ListMedia(ctx *gin.Context) {
	userUUID := middleware.UserUUID(ctx)
	if userUUID == "" {
		restapi.Failed(ctx, errno.ErrUserUUIDRequired)
		return
	}

	list, err := c.mediaApp.ListMedia(ctx.Request.Context(), userUUID)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, list)
}
