package manager

import (
	"sync"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"convert-service/pkg/config"
)

// Dependencies 依赖注入容器，进程启动时装配一次
type Dependencies struct {
	DB     *gorm.DB
	Config *config.Config

	// application and domain services, stored untyped to avoid import
	// cycles; plugins assert the concrete type they need.
	MediaAppService   interface{}
	WebhookAppService interface{}
	ConvertService    interface{}
	MetadataService   interface{}
	WebhookService    interface{}
	QueueTransport    interface{}
}

// Resource 外部资源（数据库、消息中间件、对象存储等）
type Resource interface {
	MustOpen()
	Close()
}

// ResourcePlugin 资源注册插件
type ResourcePlugin interface {
	Name() string
	MustCreateResource() Resource
}

// Component 后台组件（worker、consumer等）
type Component interface {
	Start() error
	Stop() error
	GetName() string
}

// ComponentPlugin 组件注册插件
type ComponentPlugin interface {
	Name() string
	MustCreateComponent(deps *Dependencies) Component
}

// Controller HTTP控制器
type Controller interface {
	RegisterRoutes(engine *gin.Engine)
}

// ControllerPlugin 控制器注册插件
type ControllerPlugin interface {
	Name() string
	MustCreateController(deps *Dependencies) Controller
}

var (
	mu                sync.Mutex
	resourcePlugins   []ResourcePlugin
	componentPlugins  []ComponentPlugin
	controllerPlugins []ControllerPlugin

	openedResources []Resource
	components      []Component
	controllers     []Controller
)

// RegisterResourcePlugin 注册资源插件（在init阶段调用）
func RegisterResourcePlugin(p ResourcePlugin) {
	mu.Lock()
	defer mu.Unlock()
	resourcePlugins = append(resourcePlugins, p)
}

// RegisterComponentPlugin 注册组件插件（在init阶段调用）
func RegisterComponentPlugin(p ComponentPlugin) {
	mu.Lock()
	defer mu.Unlock()
	componentPlugins = append(componentPlugins, p)
}

// RegisterControllerPlugin 注册控制器插件（在init阶段调用）
func RegisterControllerPlugin(p ControllerPlugin) {
	mu.Lock()
	defer mu.Unlock()
	controllerPlugins = append(controllerPlugins, p)
}

// MustInitResources 打开全部已注册资源，失败直接panic
func MustInitResources() {
	mu.Lock()
	defer mu.Unlock()
	for _, p := range resourcePlugins {
		r := p.MustCreateResource()
		r.MustOpen()
		openedResources = append(openedResources, r)
	}
}

// CloseResources 逆序释放资源
func CloseResources() {
	mu.Lock()
	defer mu.Unlock()
	for i := len(openedResources) - 1; i >= 0; i-- {
		openedResources[i].Close()
	}
	openedResources = nil
}

// MustInitComponents 创建并启动全部组件
func MustInitComponents(deps *Dependencies) {
	mu.Lock()
	defer mu.Unlock()
	for _, p := range componentPlugins {
		c := p.MustCreateComponent(deps)
		if err := c.Start(); err != nil {
			panic("failed to start component " + c.GetName() + ": " + err.Error())
		}
		components = append(components, c)
	}
}

// MustInitControllers 创建全部控制器
func MustInitControllers(deps *Dependencies) {
	mu.Lock()
	defer mu.Unlock()
	for _, p := range controllerPlugins {
		controllers = append(controllers, p.MustCreateController(deps))
	}
}

// RegisterAllRoutes 将控制器路由挂到gin引擎上
func RegisterAllRoutes(engine *gin.Engine) {
	mu.Lock()
	defer mu.Unlock()
	for _, c := range controllers {
		c.RegisterRoutes(engine)
	}
}

// Shutdown 逆序停止全部组件
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	for i := len(components) - 1; i >= 0; i-- {
		_ = components[i].Stop()
	}
	components = nil
}
