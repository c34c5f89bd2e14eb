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
	manager.RegisterControllerPlugin(&WebhookControllerPlugin{})
}

// WebhookControllerPlugin 回调订阅控制器注册插件
type WebhookControllerPlugin struct{}

func (p *WebhookControllerPlugin) Name() string {
	return "webhookControllerPlugin"
}

func (p *WebhookControllerPlugin) MustCreateController(deps *manager.Dependencies) manager.Controller {
	return &webhookControllerImpl{webhookApp: deps.WebhookAppService.(app.WebhookApp)}
}

type webhookControllerImpl struct {
	webhookApp app.WebhookApp
}

// RegisterRoutes 挂载回调订阅路由
func (c *webhookControllerImpl) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/v1/webhooks")
	group.PUT("", c.UpsertSubscription)
	group.GET("", c.GetSubscription)
}

// UpsertSubscription 注册或更新当前用户的回调地址
func (c *webhookControllerImpl) UpsertSubscription(ctx *gin.Context) {
	userUUID := middleware.UserUUID(ctx)
	if userUUID == "" {
		restapi.Failed(ctx, errno.ErrUserUUIDRequired)
		return
	}

	var req cqe.UpsertWebhookCqe
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, errno.ErrCallbackURLRequired)
		return
	}
	req.UserUUID = userUUID

	result, err := c.webhookApp.UpsertSubscription(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, result)
}

// GetSubscription 查询当前用户的回调订阅
func (c *webhookControllerImpl) GetSubscription(ctx *gin.Context) {
	userUUID := middleware.UserUUID(ctx)
	if userUUID == "" {
		restapi.Failed(ctx, errno.ErrUserUUIDRequired)
		return
	}

	result, err := c.webhookApp.GetSubscription(ctx.Request.Context(), userUUID)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, result)
}
