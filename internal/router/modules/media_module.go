package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
	handlers "github.com/oksasatya/sneakerhub-api/internal/interface/http"
	"github.com/oksasatya/sneakerhub-api/internal/interface/middleware"
)

// MediaModule serves /api/media for any signed-in account.
type MediaModule struct {
	Handler *handlers.MediaHandler
	JWT     middleware.TokenParser
	Redis   *redis.Client
	Logger  *logrus.Logger
}

func NewMediaModule(h *handlers.MediaHandler, jwt middleware.TokenParser, rdb *redis.Client, logger *logrus.Logger) *MediaModule {
	return &MediaModule{Handler: h, JWT: jwt, Redis: rdb, Logger: logger}
}

func (m *MediaModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/media")
	g.Use(
		middleware.Auth(m.JWT),
		middleware.RequireRoles(entity.RoleAdmin, entity.RoleUser),
		middleware.RateLimit(m.Redis, middleware.Policy{
			Name:   "media",
			Max:    60,
			Window: time.Minute,
			Key:    middleware.KeyByUserID(),
			Allow:  middleware.AllowRoles(entity.RoleAdmin),
		}, m.Logger),
	)
	{
		g.POST("/upload-single", m.Handler.UploadSingle)
		g.POST("/upload-multiple", m.Handler.UploadMultiple)
		g.DELETE("/remove", m.Handler.Remove)
	}
}
