package router

import (
	userapp "github.com/prasetyodwi/user-auth-service/internal/application"
	"github.com/prasetyodwi/user-auth-service/internal/container"
	pginfra "github.com/prasetyodwi/user-auth-service/internal/infrastructure/postgres"
	handlers "github.com/prasetyodwi/user-auth-service/internal/interface/http"
	"github.com/prasetyodwi/user-auth-service/internal/router/modules"
)

// InitModules constructs every feature module from the container
// singletons and adds them to the registry. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	service := userapp.NewService(
		repo,
		container.GetJWT(),
		container.GetLogger(),
		container.GetES(),
		cfg.ESUsersIndex,
	)

	userHandler := handlers.NewUserHandler(
		service,
		container.GetLogger(),
		cfg,
		container.GetRabbitPub(),
	)
	authHandler := handlers.NewAuthHandler(
		repo,
		container.GetRedis(),
		container.GetLogger(),
		cfg,
		container.GetRabbitPub(),
	)

	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	r.Add(modules.NewAuthModule(authHandler))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
