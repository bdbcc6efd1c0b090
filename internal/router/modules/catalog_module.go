package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
	"github.com/oksasatya/sneakerhub-api/internal/interface/middleware"
)

// Resource paths under /api. Brand and category keep the singular paths existing clients call.
const (
	BrandPath    = "/brand"
	CategoryPath = "/category"
	SneakerPath  = "/sneakers"
)

// CatalogHandler is the CRUD surface shared by brand, category and sneaker handlers.
type CatalogHandler interface {
	Create(c *gin.Context)
	FindAll(c *gin.Context)
	FindOne(c *gin.Context)
	Update(c *gin.Context)
	Remove(c *gin.Context)
}

// CatalogModule mounts a resource: reads are public, writes need an admin token.
type CatalogModule struct {
	Path    string
	Handler CatalogHandler
	JWT     middleware.TokenParser
	Redis   *redis.Client
	Logger  *logrus.Logger

	// Extra registers additional public read routes on the resource group.
	Extra func(g *gin.RouterGroup)
}

func NewCatalogModule(path string, h CatalogHandler, jwt middleware.TokenParser, rdb *redis.Client, logger *logrus.Logger) *CatalogModule {
	return &CatalogModule{Path: path, Handler: h, JWT: jwt, Redis: rdb, Logger: logger}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	g := rg.Group(m.Path)
	g.Use(middleware.RateLimit(m.Redis, middleware.Policy{
		Name:   m.Path,
		Max:    300,
		Window: time.Minute,
		Key:    middleware.KeyByIP(),
		Allow:  middleware.AllowPrivateIP(),
	}, m.Logger))

	g.GET("", m.Handler.FindAll)
	if m.Extra != nil {
		m.Extra(g)
	}
	g.GET("/:id", m.Handler.FindOne)

	admin := g.Group("")
	admin.Use(middleware.Auth(m.JWT), middleware.RequireRoles(entity.RoleAdmin))
	{
		admin.POST("", m.Handler.Create)
		admin.PUT("/:id", m.Handler.Update)
		admin.PATCH("/:id", m.Handler.Update)
		admin.DELETE("/:id", m.Handler.Remove)
	}
}
