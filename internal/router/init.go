package router

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/sneakerhub-api/internal/application"
	"github.com/oksasatya/sneakerhub-api/internal/container"
	pginfra "github.com/oksasatya/sneakerhub-api/internal/infrastructure/postgres"
	"github.com/oksasatya/sneakerhub-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/sneakerhub-api/internal/interface/http"
	"github.com/oksasatya/sneakerhub-api/internal/router/modules"
)

// services groups the application layer built from the container.
type services struct {
	Auth     *application.AuthService
	Brand    *application.BrandService
	Category *application.CategoryService
	Sneaker  *application.SneakerService
	Media    *application.MediaService
}

func buildServices() services {
	pool := container.GetPGPool()
	logger := container.GetLogger()
	cfg := container.GetConfig()

	// nil interfaces, not typed nils, when a component is not configured
	var store application.ObjectStore
	if gcs := container.GetGCS(); gcs != nil {
		store = gcs
	}
	var index application.SneakerIndex
	if es := container.GetES(); es != nil {
		index = search.NewSneakerIndex(es, cfg.ESSneakersIndex)
	}
	var google application.IdentityVerifier
	if g := container.GetGoogle(); g != nil {
		google = g
	}

	return services{
		Auth: application.NewAuthService(
			pginfra.NewUserRepository(pool),
			container.GetHasher(),
			container.GetJWT(),
			container.GetMailer(),
			google,
			cfg.OTPTTL,
			logger,
		),
		Brand:    application.NewBrandService(pginfra.NewBrandRepository(pool), logger),
		Category: application.NewCategoryService(pginfra.NewCategoryRepository(pool), logger),
		Sneaker:  application.NewSneakerService(pginfra.NewSneakerRepository(pool), index, store, logger),
		Media:    application.NewMediaService(store, logger),
	}
}

// InitModules builds every feature module from the container and adds it to the registry.
// Call once during startup, after the container is populated.
func InitModules(r *Registry) {
	svc := buildServices()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	jwt := container.GetJWT()

	sneakers := handlers.NewSneakerHandler(svc.Sneaker, logger)
	sneakerModule := modules.NewCatalogModule(modules.SneakerPath, sneakers, jwt, rdb, logger)
	sneakerModule.Extra = func(g *gin.RouterGroup) {
		g.GET("/slug/:slug", sneakers.FindBySlug)
	}

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, logger), jwt, rdb, logger))
	r.Add(modules.NewCatalogModule(modules.BrandPath, handlers.NewBrandHandler(svc.Brand, logger), jwt, rdb, logger))
	r.Add(modules.NewCatalogModule(modules.CategoryPath, handlers.NewCategoryHandler(svc.Category, logger), jwt, rdb, logger))
	r.Add(sneakerModule)
	r.Add(modules.NewMediaModule(handlers.NewMediaHandler(svc.Media, logger), jwt, rdb, logger))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb, logger))
	}
}
