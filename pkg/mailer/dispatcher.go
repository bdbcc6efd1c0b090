package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	tpl "github.com/oksasatya/sneakerhub-api/pkg/mailer/templates"
)

// Sender delivers an already rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// JobPublisher enqueues an EmailJob for cmd/email_worker.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// DirectMailer renders the verification email and sends it synchronously.
type DirectMailer struct {
	Sender Sender
	Brand  tpl.Brand
	TTL    time.Duration
}

func NewDirectMailer(s Sender, brand tpl.Brand, ttl time.Duration) *DirectMailer {
	return &DirectMailer{Sender: s, Brand: brand, TTL: ttl}
}

func (m *DirectMailer) SendVerificationCode(ctx context.Context, to, name, code string, expiresAt time.Time) error {
	data := verifyData(m.Brand, to, name, code, expiresAt, m.TTL)
	subject, text, html, err := tpl.Render(tpl.VerifyOTP, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", tpl.VerifyOTP, err)
	}
	return m.Sender.Send(ctx, to, subject, text, html)
}

// QueueMailer publishes the verification email as a templated job; the publish is awaited.
type QueueMailer struct {
	Pub   JobPublisher
	Brand tpl.Brand
	TTL   time.Duration
}

func NewQueueMailer(pub JobPublisher, brand tpl.Brand, ttl time.Duration) *QueueMailer {
	return &QueueMailer{Pub: pub, Brand: brand, TTL: ttl}
}

func (m *QueueMailer) SendVerificationCode(ctx context.Context, to, name, code string, expiresAt time.Time) error {
	data := verifyData(m.Brand, to, name, code, expiresAt, m.TTL)
	exp := expiresAt.UTC()
	job := EmailJob{To: to, Template: tpl.VerifyOTP, Data: tpl.ToMap(data), ExpiresAt: &exp}
	return m.Pub.PublishJSON(ctx, job)
}

// DisabledMailer stands in when MAIL_SEND_ENABLED=false. The code is never logged.
type DisabledMailer struct {
	Logger *logrus.Logger
}

func (m DisabledMailer) SendVerificationCode(_ context.Context, to, _, _ string, expiresAt time.Time) error {
	if m.Logger != nil {
		m.Logger.WithFields(logrus.Fields{"to": to, "expires_at": expiresAt}).Warn("mail sending disabled; verification code not delivered")
	}
	return nil
}

func verifyData(b tpl.Brand, to, name, code string, expiresAt time.Time, ttl time.Duration) tpl.EmailData {
	return tpl.NewVerifyOTPData(b, name, to, code,
		tpl.WithTime(time.Now()),
		tpl.WithExpiresAt(expiresAt),
		tpl.WithExpiresIn(ttl),
	)
}
