package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/container"
	handlers "github.com/taskdeck/taskdeck/internal/interface/http"
	"github.com/taskdeck/taskdeck/internal/interface/middleware"
)

// AuthModule wires the public auth endpoints.
// POST /api/sign-up, POST /api/sign-in, POST /api/sign-out
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Credential endpoints are brute-force targets; keep the windows tight.
	signUpLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	signInLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/sign-up", signUpLimiter, m.Handler.SignUp)
	rg.POST("/sign-in", signInLimiter, m.Handler.SignIn)
	rg.POST("/sign-out", m.Handler.SignOut)
}
