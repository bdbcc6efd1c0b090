package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sneakerhub-api/config"
	"github.com/oksasatya/sneakerhub-api/internal/application"
	"github.com/oksasatya/sneakerhub-api/pkg/helpers"
	"github.com/oksasatya/sneakerhub-api/pkg/identity"
)

// app-level container to share constructed components across packages
// Router wires modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsStore    *helpers.GCSStore
	esClient    *elasticsearch.Client

	jwtManager *helpers.JWTManager
	hasher     *helpers.PasswordHasher
	google     *identity.GoogleVerifier
	mail       application.VerificationMailer
)

func SetConfig(c *config.Config)    { cfg = c }
func GetConfig() *config.Config     { return cfg }
func SetLogger(l *logrus.Logger)    { logger = l }
func GetLogger() *logrus.Logger     { return logger }
func SetPGPool(p *pgxpool.Pool)     { pgPool = p }
func GetPGPool() *pgxpool.Pool      { return pgPool }
func SetRedis(r *redis.Client)      { redisClient = r }
func GetRedis() *redis.Client       { return redisClient }
func SetGCS(s *helpers.GCSStore)    { gcsStore = s }
func GetGCS() *helpers.GCSStore     { return gcsStore }
func SetES(c *elasticsearch.Client) { esClient = c }
func GetES() *elasticsearch.Client  { return esClient }
func SetJWT(m *helpers.JWTManager)  { jwtManager = m }
func GetJWT() *helpers.JWTManager   { return jwtManager }

func SetHasher(h *helpers.PasswordHasher)        { hasher = h }
func GetHasher() *helpers.PasswordHasher         { return hasher }
func SetGoogle(v *identity.GoogleVerifier)       { google = v }
func GetGoogle() *identity.GoogleVerifier        { return google }
func SetMailer(m application.VerificationMailer) { mail = m }
func GetMailer() application.VerificationMailer  { return mail }
