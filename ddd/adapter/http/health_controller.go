package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"convert-service/pkg/manager"
)

func init() {
	manager.RegisterControllerPlugin(&HealthControllerPlugin{})
}

// HealthControllerPlugin 健康检查控制器注册插件
type HealthControllerPlugin struct{}

func (p *HealthControllerPlugin) Name() string {
	return "healthControllerPlugin"
}

func (p *HealthControllerPlugin) MustCreateController(_ *manager.Dependencies) manager.Controller {
	return &healthControllerImpl{}
}

type healthControllerImpl struct{}

func (c *healthControllerImpl) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
