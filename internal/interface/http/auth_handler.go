package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/prasetyodwi/user-auth-service/config"
	repo "github.com/prasetyodwi/user-auth-service/internal/domain/repository"
	"github.com/prasetyodwi/user-auth-service/pkg/helpers"
	"github.com/prasetyodwi/user-auth-service/pkg/mailer"
	"github.com/prasetyodwi/user-auth-service/pkg/response"
	"github.com/prasetyodwi/user-auth-service/pkg/validation"
)

const resetTokenTTL = 30 * time.Minute

// AuthHandler owns the password-reset flow. Reset tokens live in Redis
// with a short TTL; the users table is only touched on confirm.
type AuthHandler struct {
	Repo   repo.UserRepository
	RDB    *redis.Client
	Logger *logrus.Logger
	Cfg    *config.Config
	Pub    *helpers.RabbitPublisher
}

func NewAuthHandler(r repo.UserRepository, rdb *redis.Client, logger *logrus.Logger, cfg *config.Config, pub *helpers.RabbitPublisher) *AuthHandler {
	return &AuthHandler{Repo: r, RDB: rdb, Logger: logger, Cfg: cfg, Pub: pub}
}

func keyResetToken(t string) string { return "pwd:reset:token:" + t }

func genToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ResetInit POST /api/auth/reset/init {email}
// Always responds OK so callers cannot enumerate registered emails.
func (h *AuthHandler) ResetInit(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if h.RDB == nil {
		response.Error[any](c, http.StatusInternalServerError, "reset unavailable", nil)
		return
	}

	u, err := h.Repo.GetByEmail(c.Request.Context(), req.Email)
	if err == nil && u != nil {
		tok, terr := genToken(32)
		if terr != nil {
			response.Error[any](c, http.StatusInternalServerError, "token generation failed", nil)
			return
		}
		h.RDB.Set(c.Request.Context(), keyResetToken(tok), strconv.FormatInt(u.ID, 10), resetTokenTTL)

		if h.Pub != nil && h.Cfg != nil && h.Cfg.MailSendEnabled {
			link := h.Cfg.ResetPasswordURL + "?token=" + tok
			job := mailer.EmailJob{
				To:       u.Email,
				Template: mailer.TemplateResetPassword,
				Data: map[string]any{
					"Name":      u.Name,
					"Email":     u.Email,
					"ResetURL":  link,
					"ExpiresIn": resetTokenTTL.String(),
				},
			}
			_ = h.Pub.PublishJSON(c.Request.Context(), job)
		}
	}

	response.Success[any](c, http.StatusOK, gin.H{"sent": true}, "if the email is registered, a reset link has been sent")
}

// ResetConfirm POST /api/auth/reset/confirm {token, new_password}
func (h *AuthHandler) ResetConfirm(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if h.RDB == nil {
		response.Error[any](c, http.StatusInternalServerError, "reset unavailable", nil)
		return
	}

	uidStr, err := h.RDB.Get(c.Request.Context(), keyResetToken(req.Token)).Result()
	if err != nil || uidStr == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		return
	}
	uid, err := strconv.ParseInt(uidStr, 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		return
	}

	hash, err := helpers.HashPassword(req.NewPassword)
	if err != nil {
		h.logErr(c, "password hash failed", err)
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	if err := h.Repo.UpdatePassword(c.Request.Context(), uid, hash); err != nil {
		h.logErr(c, "password update failed", err)
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	h.RDB.Del(c.Request.Context(), keyResetToken(req.Token))

	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password updated")
}

func (h *AuthHandler) logErr(c *gin.Context, msg string, err error) {
	if h.Logger == nil {
		return
	}
	h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(msg)
}
