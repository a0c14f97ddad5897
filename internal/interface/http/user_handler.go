package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/prasetyodwi/user-auth-service/config"
	userapp "github.com/prasetyodwi/user-auth-service/internal/application"
	"github.com/prasetyodwi/user-auth-service/internal/interface/middleware"
	"github.com/prasetyodwi/user-auth-service/pkg/helpers"
	"github.com/prasetyodwi/user-auth-service/pkg/mailer"
	"github.com/prasetyodwi/user-auth-service/pkg/response"
	"github.com/prasetyodwi/user-auth-service/pkg/validation"
)

// UserHandler maps the account use cases onto HTTP. Business outcomes
// come back from the service as sentinel errors; anything unexpected is
// logged and surfaced as a generic internal error.
type UserHandler struct {
	Svc     *userapp.Service
	Logger  *logrus.Logger
	Cfg     *config.Config
	Pub     *helpers.RabbitPublisher
	Cookies *helpers.Manager
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger, cfg *config.Config, pub *helpers.RabbitPublisher) *UserHandler {
	h := &UserHandler{Svc: svc, Logger: logger, Cfg: cfg, Pub: pub}
	if cfg != nil {
		h.Cookies = helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)
	}
	return h
}

const dateLayout = "2006-01-02"

type registerRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	DateOfBirth string `json:"date_of_birth" binding:"required,dob"`
	Phone       string `json:"phone" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name        string `json:"name" binding:"required"`
	DateOfBirth string `json:"date_of_birth" binding:"required,dob"`
	Phone       string `json:"phone" binding:"required"`
}

// Register POST /api/register
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "all fields are required", validation.ToDetails(err))
		return
	}
	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"date_of_birth": "must be a date in YYYY-MM-DD format"})
		return
	}

	id, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		DateOfBirth: dob,
		Phone:       req.Phone,
	})
	if err != nil {
		if errors.Is(err, userapp.ErrEmailTaken) {
			response.Error[any](c, http.StatusConflict, "email already registered", nil)
			return
		}
		h.logErr(c, "registration failed", err)
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}

	h.enqueueEmail(c, req.Email, mailer.TemplateWelcome, map[string]any{
		"Name":  req.Name,
		"Email": req.Email,
	})

	response.Success(c, http.StatusCreated, gin.H{"user_id": id}, "registration successful")
}

// Login POST /api/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "email and password are required", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userapp.ErrInvalidCredentials) {
			response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		h.logErr(c, "login failed", err)
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}

	if h.Cookies != nil {
		h.Cookies.SetAccessToken(c, res.Token, res.TokenExpiry)
	}

	h.enqueueEmail(c, res.User.Email, mailer.TemplateLoginNotification, map[string]any{
		"Name":  res.User.Name,
		"Email": res.User.Email,
		"IP":    middleware.ClientIP(c),
		"Time":  time.Now().UTC().Format(time.RFC3339),
	})

	response.Success(c, http.StatusOK, gin.H{
		"token": res.Token,
		"user": gin.H{
			"id":    res.User.ID,
			"name":  res.User.Name,
			"email": res.User.Email,
			"role":  res.User.Role,
		},
	}, "login successful")
}

// Logout POST /api/logout — clears the browser cookie. The token itself
// stays valid until it expires; there is no server-side revocation.
func (h *UserHandler) Logout(c *gin.Context) {
	if h.Cookies != nil {
		h.Cookies.Clear(c)
	}
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out")
}

// GetProfile GET /api/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := middleware.UserID(c)
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.logErr(c, "get profile failed", err)
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.Success(c, http.StatusOK, u.Public(), "profile")
}

// UpdateProfile PUT /api/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := middleware.UserID(c)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "all fields are required", validation.ToDetails(err))
		return
	}
	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"date_of_birth": "must be a date in YYYY-MM-DD format"})
		return
	}

	err = h.Svc.UpdateProfile(c.Request.Context(), uid, userapp.UpdateProfileInput{
		Name:        req.Name,
		DateOfBirth: dob,
		Phone:       req.Phone,
	})
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.logErr(c, "update profile failed", err)
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "profile updated successfully")
}

// Search GET /api/users/search?q=...&size=...
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "query is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		h.logErr(c, "user search failed", err)
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results")
}

func (h *UserHandler) logErr(c *gin.Context, msg string, err error) {
	if h.Logger == nil {
		return
	}
	h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(msg)
}

// enqueueEmail publishes an email job, best-effort. Account operations
// never fail because the mail pipeline is down.
func (h *UserHandler) enqueueEmail(c *gin.Context, to, template string, data map[string]any) {
	if h.Pub == nil || h.Cfg == nil || !h.Cfg.MailSendEnabled {
		return
	}
	job := mailer.EmailJob{To: to, Template: template, Data: data}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil && h.Logger != nil {
		h.Logger.WithError(err).WithField("template", template).Warn("email enqueue failed")
	}
}
