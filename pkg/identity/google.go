// Package identity verifies identity tokens issued by external providers.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

// ErrInvalidGoogleToken is returned for every verification failure; callers must not inspect partial payloads.
var ErrInvalidGoogleToken = errors.New("invalid google id token")

// GoogleProfile is the verified subset of a Google ID token.
type GoogleProfile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

type payloadValidator interface {
	Validate(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)
}

// GoogleVerifier checks signature, issuer, expiry and audience of Google ID tokens.
type GoogleVerifier struct {
	audience  string
	validator payloadValidator
}

// NewGoogleVerifier builds a verifier for tokens minted for clientID.
func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	v, err := idtoken.NewValidator(ctx, option.WithoutAuthentication())
	if err != nil {
		return nil, fmt.Errorf("init google token validator: %w", err)
	}
	return &GoogleVerifier{audience: clientID, validator: v}, nil
}

// Verify validates idToken against the configured audience.
func (g *GoogleVerifier) Verify(ctx context.Context, idToken string) (*GoogleProfile, error) {
	if strings.TrimSpace(idToken) == "" || g.audience == "" {
		return nil, ErrInvalidGoogleToken
	}
	payload, err := g.validator.Validate(ctx, idToken, g.audience)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}
	return ProfileFromPayload(payload)
}

// ProfileFromPayload extracts the profile and rejects payloads without a verified email.
func ProfileFromPayload(p *idtoken.Payload) (*GoogleProfile, error) {
	if p == nil || p.Claims == nil {
		return nil, ErrInvalidGoogleToken
	}
	email := strings.ToLower(strings.TrimSpace(claimString(p.Claims, "email")))
	if email == "" {
		return nil, ErrInvalidGoogleToken
	}
	if v, ok := p.Claims["email_verified"]; ok {
		verified, isBool := v.(bool)
		if isBool && !verified {
			return nil, ErrInvalidGoogleToken
		}
		if s, isStr := v.(string); isStr && !strings.EqualFold(s, "true") {
			return nil, ErrInvalidGoogleToken
		}
	}
	return &GoogleProfile{
		Subject: p.Subject,
		Email:   email,
		Name:    strings.TrimSpace(claimString(p.Claims, "name")),
		Picture: strings.TrimSpace(claimString(p.Claims, "picture")),
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}
