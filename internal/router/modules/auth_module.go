package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/prasetyodwi/user-auth-service/internal/interface/http"
)

// AuthModule wires the password-reset endpoints.
// Public: POST /api/auth/reset/init, POST /api/auth/reset/confirm

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/reset/init", m.Handler.ResetInit)
	rg.POST("/auth/reset/confirm", m.Handler.ResetConfirm)
}
