package router

import (
	appuser "github.com/aurangzeb-bilal/update-username/internal/application"
	"github.com/aurangzeb-bilal/update-username/internal/container"
	repouser "github.com/aurangzeb-bilal/update-username/internal/domain/repository"
	"github.com/aurangzeb-bilal/update-username/internal/infrastructure/notification"
	pginfra "github.com/aurangzeb-bilal/update-username/internal/infrastructure/postgres"
	handlers "github.com/aurangzeb-bilal/update-username/internal/interface/http"
	"github.com/aurangzeb-bilal/update-username/internal/router/modules"
)

type UsernameModuleDeps struct {
	Repo    repouser.UserRepository
	Service *appuser.Service
	Handler *handlers.UpdateHandler
}

func buildUsernameDeps() UsernameModuleDeps {
	cfg := container.GetConfig()

	repo := pginfra.NewUserRepository(container.GetPGPool())

	authorizer := appuser.NewAuthorizer(
		container.GetIntrospector(),
		cfg.Scopes(),
		appuser.ParseScopePolicy(cfg.ScopePolicy),
		container.GetLogger(),
	)

	notifier := notification.NewDispatcher(
		container.GetRabbitPub(),
		container.GetMailgun(),
		cfg.AppName,
		cfg.DefaultLocale,
		cfg.MailSendEnabled,
		container.GetLogger(),
	)

	service := appuser.NewService(
		repo,
		authorizer,
		notifier,
		container.GetRedis(),
		container.GetLogger(),
		container.GetES(),
		cfg.ESUsersIndex,
	)

	handler := handlers.NewUpdateHandler(service)

	return UsernameModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildUsernameDeps()
	r.Add(modules.NewUsernameModule(deps.Handler))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
