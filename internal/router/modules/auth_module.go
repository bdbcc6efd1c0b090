package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	handlers "github.com/oksasatya/sneakerhub-api/internal/interface/http"
	"github.com/oksasatya/sneakerhub-api/internal/interface/middleware"
)

// AuthModule serves /api/auth.
// Public: register, verify-otp, resend-otp, login, login-google (rate limited per IP and route)
// Protected: GET /auth/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     middleware.TokenParser
	Redis   *redis.Client
	Logger  *logrus.Logger
}

func NewAuthModule(h *handlers.AuthHandler, jwt middleware.TokenParser, rdb *redis.Client, logger *logrus.Logger) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, Redis: rdb, Logger: logger}
}

func (m *AuthModule) limit(name string, max int) gin.HandlerFunc {
	return middleware.RateLimit(m.Redis, middleware.Policy{
		Name:   name,
		Max:    max,
		Window: time.Minute,
		Key:    middleware.KeyByIPAndRoute(),
	}, m.Logger)
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")

	auth.POST("/register", m.limit("auth.register", 10), m.Handler.Register)
	auth.POST("/verify-otp", m.limit("auth.verify", 30), m.Handler.VerifyOtp)
	auth.POST("/resend-otp", m.limit("auth.resend", 5), m.Handler.ResendOtp)
	auth.POST("/login", m.limit("auth.login", 10), m.Handler.Login)
	auth.POST("/login-google", m.limit("auth.google", 10), m.Handler.LoginGoogle)

	auth.GET("/me",
		middleware.Auth(m.JWT),
		middleware.RateLimit(m.Redis, middleware.Policy{Name: "auth.me", Max: 120, Window: time.Minute, Key: middleware.KeyByUserID()}, m.Logger),
		m.Handler.Me,
	)
}
