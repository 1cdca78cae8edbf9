package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/container"
	handlers "github.com/taskdeck/taskdeck/internal/interface/http"
	"github.com/taskdeck/taskdeck/internal/interface/middleware"
	"github.com/taskdeck/taskdeck/pkg/helpers"
)

// TaskModule wires the owner-scoped task routes behind the auth gate.
// GET/POST /api/tasks, PUT/DELETE /api/tasks/:id
type TaskModule struct {
	Handler *handlers.TaskHandler
	JWT     *helpers.JWTManager
}

func NewTaskModule(h *handlers.TaskHandler, jwt *helpers.JWTManager) *TaskModule {
	return &TaskModule{Handler: h, JWT: jwt}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/tasks", m.Handler.List)
		auth.POST("/tasks", m.Handler.Create)
		auth.PUT("/tasks/:id", m.Handler.Update)
		auth.DELETE("/tasks/:id", m.Handler.Delete)
	}
}
