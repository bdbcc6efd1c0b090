package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sneakerhub-api/config"
	"github.com/oksasatya/sneakerhub-api/internal/application"
	"github.com/oksasatya/sneakerhub-api/internal/container"
	pginfra "github.com/oksasatya/sneakerhub-api/internal/infrastructure/postgres"
	"github.com/oksasatya/sneakerhub-api/internal/interface/middleware"
	"github.com/oksasatya/sneakerhub-api/internal/router"
	"github.com/oksasatya/sneakerhub-api/pkg/helpers"
	"github.com/oksasatya/sneakerhub-api/pkg/identity"
	"github.com/oksasatya/sneakerhub-api/pkg/mailer"
	tpl "github.com/oksasatya/sneakerhub-api/pkg/mailer/templates"
	"github.com/oksasatya/sneakerhub-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
		MaxConns:    cfg.DBMaxConns,
		MinConns:    cfg.DBMinConns,
		MaxConnLife: cfg.DBMaxConnLife,
	})
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}

	// Redis backs rate limiting only; the API keeps serving (unlimited) when it is down.
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			logger.WithError(err).Warn("redis unreachable; rate limits fail open")
		}
	} else {
		logger.Warn("REDIS_ADDR empty; rate limiting disabled")
	}

	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetGCS(helpers.NewGCSStore(gcsClient, cfg.GCSBucket))
	} else {
		logger.Warn("GCS_BUCKET not set; media endpoints return 503")
	}

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.Fatalf("failed to init elasticsearch client: %v", err)
	}
	if es == nil {
		logger.Info("elasticsearch not configured; sneaker search uses postgres")
	}
	container.SetES(es)

	google, err := identity.NewGoogleVerifier(ctx, cfg.GoogleClientID)
	if err != nil {
		logger.Fatalf("failed to init google verifier: %v", err)
	}

	verifier, closeMail, err := buildMailer(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init mailer: %v", err)
	}
	defer closeMail()

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetRedis(rdb)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL))
	container.SetHasher(helpers.NewPasswordHasher(cfg.BcryptCost))
	container.SetGoogle(google)
	container.SetMailer(verifier)

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	if err := middleware.ConfigureClientIP(r, cfg.TrustedProxyList()); err != nil {
		logger.Fatalf("invalid TRUSTED_PROXIES: %v", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID, "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
		return
	}
	logger.Info("server exited properly")
}

// buildMailer picks the verification mail transport. The returned func releases it.
func buildMailer(cfg *config.Config, logger *logrus.Logger) (application.VerificationMailer, func(), error) {
	noop := func() {}
	if !cfg.MailSendEnabled {
		return mailer.DisabledMailer{Logger: logger}, noop, nil
	}
	brand := tpl.Brand{CompanyName: cfg.CompanyName, AppName: cfg.AppName, SupportURL: cfg.SupportURL}
	switch cfg.MailTransport {
	case "queue":
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			return nil, noop, err
		}
		logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("verification mail queued for email worker")
		return mailer.NewQueueMailer(pub, brand, cfg.OTPTTL), pub.Close, nil
	default:
		mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
		return mailer.NewDirectMailer(mg, brand, cfg.OTPTTL), noop, nil
	}
}
