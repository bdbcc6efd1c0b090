package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sneakerhub-api/internal/application"
	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
	"github.com/oksasatya/sneakerhub-api/internal/interface/middleware"
	"github.com/oksasatya/sneakerhub-api/pkg/response"
)

// AuthUsecase is the part of application.AuthService the handler drives.
type AuthUsecase interface {
	Register(ctx context.Context, in application.RegisterInput) (*entity.User, error)
	VerifyOtp(ctx context.Context, in application.VerifyOTPInput) (*entity.User, error)
	ResendOtp(ctx context.Context, in application.ResendOTPInput) error
	Login(ctx context.Context, in application.LoginInput) (*application.Session, error)
	Me(ctx context.Context, userID string) (*entity.User, error)
	LoginGoogle(ctx context.Context, idToken string) (*application.Session, error)
}

type AuthHandler struct {
	Svc    AuthUsecase
	Logger *logrus.Logger
}

func NewAuthHandler(svc AuthUsecase, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type googleLoginRequest struct {
	IDToken string `json:"idToken"`
}

type sessionMeta struct {
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *AuthHandler) session(c *gin.Context, s *application.Session) {
	response.Success(c, http.StatusOK, s.Token, "Success Login", sessionMeta{ExpiresAt: s.ExpiresAt.UTC()})
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var in application.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "Success Registration", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in application.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	s, err := h.Svc.Login(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.session(c, s)
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Svc.Me(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "Success get user profile", nil)
}

// VerifyOtp POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOtp(c *gin.Context) {
	var in application.VerifyOTPInput
	if !bindJSON(c, &in) {
		return
	}
	u, err := h.Svc.VerifyOtp(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "Account verified", nil)
}

// ResendOtp POST /api/auth/resend-otp
func (h *AuthHandler) ResendOtp(c *gin.Context) {
	var in application.ResendOTPInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.Svc.ResendOtp(c.Request.Context(), in); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Verification code sent", nil)
}

// LoginGoogle POST /api/auth/login-google
func (h *AuthHandler) LoginGoogle(c *gin.Context) {
	var req googleLoginRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.Svc.LoginGoogle(c.Request.Context(), req.IDToken)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.session(c, s)
}
