package templates

import (
	"fmt"
	"time"
)

// Brand is the sender-side branding rendered into every email.
type Brand struct {
	CompanyName string
	AppName     string
	SupportURL  string
}

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04 MST") }
}

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
	}
}

func WithExpiresIn(ttl time.Duration) Option {
	return func(d *EmailData) { d.ExpiresInText = humanDuration(ttl) }
}

// NewVerifyOTPData builds the data for the registration code email.
func NewVerifyOTPData(b Brand, name, email, code string, opts ...Option) EmailData {
	d := EmailData{
		Name:        name,
		Email:       email,
		Type:        VerifyOTP,
		CompanyName: b.CompanyName,
		AppName:     b.AppName,
		SupportURL:  b.SupportURL,
		Code:        code,
	}
	for _, o := range opts {
		o(&d)
	}
	return d
}

func humanDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	if d%time.Hour == 0 {
		h := int(d / time.Hour)
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	}
	m := int(d.Round(time.Minute) / time.Minute)
	if m <= 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}
