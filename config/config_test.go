package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_TTL", "")
	t.Setenv("OTP_TTL", "")
	t.Setenv("MAIL_TRANSPORT", "")

	cfg := Load()
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, "mailgun", cfg.MailTransport)
	assert.Equal(t, "db/migrations", cfg.MigrationsDir)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("OTP_TTL", "ten minutes")
	cfg := Load()
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
}

func TestValidate_RequiresSecrets(t *testing.T) {
	cfg := &Config{JWTTTL: time.Hour, OTPTTL: time.Minute}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "GOOGLE_CLIENT_ID")
}

func TestValidate_MailTransport(t *testing.T) {
	base := Config{JWTSecret: "s", JWTTTL: time.Hour, OTPTTL: time.Minute, GoogleClientID: "cid", MailSendEnabled: true}

	mg := base
	mg.MailTransport = "mailgun"
	assert.Error(t, mg.Validate())
	mg.MailgunDomain, mg.MailgunAPIKey, mg.MailgunSender = "mg.example.com", "key", "no-reply@example.com"
	assert.NoError(t, mg.Validate())

	q := base
	q.MailTransport = "queue"
	q.RabbitMQURL, q.RabbitMQEmailQueue = "amqp://localhost", "emails"
	assert.NoError(t, q.Validate())

	bad := base
	bad.MailTransport = "smtp"
	assert.Error(t, bad.Validate())

	off := base
	off.MailSendEnabled = false
	assert.NoError(t, off.Validate())
}

func TestSplitLists(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " http://a.test, ,http://b.test", ElasticsearchAddrs: ""}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	assert.Empty(t, cfg.ESAddrs())
	assert.Empty(t, cfg.TrustedProxyList())

	cfg.TrustedProxies = "10.0.0.0/8, 173.245.48.0/20"
	assert.Equal(t, []string{"10.0.0.0/8", "173.245.48.0/20"}, cfg.TrustedProxyList())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())
}
