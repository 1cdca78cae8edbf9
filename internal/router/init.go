package router

import (
	"github.com/taskdeck/taskdeck/internal/application"
	"github.com/taskdeck/taskdeck/internal/container"
	pginfra "github.com/taskdeck/taskdeck/internal/infrastructure/postgres"
	handlers "github.com/taskdeck/taskdeck/internal/interface/http"
	"github.com/taskdeck/taskdeck/internal/router/modules"
	"github.com/taskdeck/taskdeck/pkg/helpers"
)

func buildAuthModule() *modules.AuthModule {
	cfg := container.GetConfig()

	repo := pginfra.NewUserRepository(container.GetPGPool())
	svc := application.NewAuthService(repo, container.GetJWT(), container.GetLogger())
	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure || cfg.IsProduction())
	handler := handlers.NewAuthHandler(svc, container.GetLogger(), cookies, container.GetRabbitPub(), cfg.MailSendEnabled)

	return modules.NewAuthModule(handler)
}

func buildTaskModule() *modules.TaskModule {
	repo := pginfra.NewTaskRepository(container.GetPGPool())
	svc := application.NewTaskService(repo, container.GetLogger())
	handler := handlers.NewTaskHandler(svc, container.GetLogger())

	return modules.NewTaskModule(handler, container.GetJWT())
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	r.Add(buildAuthModule())
	r.Add(buildTaskModule())
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
