package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sneakerhub-api/internal/interface/middleware"
)

type DebugModule struct {
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewDebugModule(rdb *redis.Client, logger *logrus.Logger) *DebugModule {
	return &DebugModule{Redis: rdb, Logger: logger}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar metrics, rate-limited per IP
	rl := middleware.RateLimit(m.Redis, middleware.Policy{Name: "debug", Max: 120, Window: time.Minute, Key: middleware.KeyByIP()}, m.Logger)
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
