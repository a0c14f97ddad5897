package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/prasetyodwi/user-auth-service/internal/interface/http"
	"github.com/prasetyodwi/user-auth-service/internal/interface/middleware"
	"github.com/prasetyodwi/user-auth-service/pkg/helpers"
)

// UserModule wires the account endpoints.
// Public: POST /api/register, POST /api/login
// Protected: POST /api/logout, GET /api/profile, PUT /api/profile,
// GET /api/users/search

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Handler.Register)
	rg.POST("/login", m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.JWTAuth(m.JWT))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.GET("/users/search", m.Handler.Search)
	}
}
