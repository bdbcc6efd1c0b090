package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
	repo "github.com/oksasatya/sneakerhub-api/internal/domain/repository"
	"github.com/oksasatya/sneakerhub-api/pkg/helpers"
	"github.com/oksasatya/sneakerhub-api/pkg/identity"
	"github.com/oksasatya/sneakerhub-api/pkg/validation"
)

// VerificationMailer delivers the plaintext OTP to the account's email address.
type VerificationMailer interface {
	SendVerificationCode(ctx context.Context, to, name, code string, expiresAt time.Time) error
}

// IdentityVerifier validates third-party ID tokens.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*identity.GoogleProfile, error)
}

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Generate(userID, role string) (string, time.Time, error)
}

// CredentialHasher hashes and checks passwords.
type CredentialHasher interface {
	Hash(plain string) (string, error)
	Matches(plain, digest string) bool
}

type AuthService struct {
	Repo   repo.UserRepository
	Hasher CredentialHasher
	Tokens TokenIssuer
	Mailer VerificationMailer
	Google IdentityVerifier
	OTPTTL time.Duration
	Logger *logrus.Logger

	validate *validator.Validate
	now      func() time.Time
}

func NewAuthService(r repo.UserRepository, hasher CredentialHasher, tokens TokenIssuer, mailer VerificationMailer, google IdentityVerifier, otpTTL time.Duration, logger *logrus.Logger) *AuthService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuthService{
		Repo:     r,
		Hasher:   hasher,
		Tokens:   tokens,
		Mailer:   mailer,
		Google:   google,
		OTPTTL:   otpTTL,
		Logger:   logger,
		validate: validation.New(),
		now:      time.Now,
	}
}

type RegisterInput struct {
	FullName        string `json:"fullName" validate:"required"`
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,pwdcomplex"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type LoginInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type VerifyOTPInput struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type ResendOTPInput struct {
	Email string `json:"email" validate:"required,email"`
}

// Session is an issued bearer token.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *AuthService) check(in any) error {
	if err := s.validate.Struct(in); err != nil {
		return &ValidationError{Fields: validation.ToDetails(err)}
	}
	return nil
}

func (s *AuthService) storageErr(op string, err error) error {
	s.Logger.WithError(err).WithField("op", op).Error("user store failure")
	return fmt.Errorf("%w: %s", ErrStorageUnavailable, op)
}

// Register creates a pending account and mails its verification code.
// If the mail cannot be sent the account still exists and ErrMailDispatch is returned.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := s.check(in); err != nil {
		return nil, err
	}

	code, err := helpers.GenerateOTP()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}
	digest, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	exp := helpers.OTPExpiresAt(s.now(), s.OTPTTL)

	u := &entity.User{
		FullName:       in.FullName,
		Username:       in.Username,
		Email:          in.Email,
		Password:       digest,
		Role:           entity.RoleUser,
		ProfilePicture: entity.DefaultProfilePicture,
		IsActive:       false,
		OTP:            helpers.HashOTP(code),
		OTPExpiration:  &exp,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, conflictError(err)
		}
		return nil, s.storageErr("create user", err)
	}

	if err := s.Mailer.SendVerificationCode(ctx, u.Email, u.FullName, code, exp); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("verification mail dispatch failed")
		return nil, ErrMailDispatch
	}
	s.Logger.WithField("user_id", u.ID).Info("user registered")
	return u, nil
}

// conflictError names the taken field when the constraint tells us which one it was.
func conflictError(err error) error {
	switch {
	case strings.Contains(err.Error(), "email"):
		return fmt.Errorf("%w: email already registered", ErrConflict)
	case strings.Contains(err.Error(), "username"):
		return fmt.Errorf("%w: username already taken", ErrConflict)
	default:
		return ErrConflict
	}
}

// VerifyOtp activates a pending account when code matches and has not expired.
func (s *AuthService) VerifyOtp(ctx context.Context, in VerifyOTPInput) (*entity.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.OTP = strings.TrimSpace(in.OTP)
	if err := s.check(in); err != nil {
		return nil, err
	}

	u, err := s.Repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, s.storageErr("get user by email", err)
	}
	if u.IsActive {
		return nil, ErrAlreadyActive
	}
	if !u.OTPValidAt(s.now()) || !helpers.OTPMatches(in.OTP, u.OTP) {
		return nil, ErrInvalidOTP
	}

	activated, err := s.Repo.Activate(ctx, u.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// a concurrent verification won
			return nil, ErrAlreadyActive
		}
		return nil, s.storageErr("activate user", err)
	}
	s.Logger.WithField("user_id", activated.ID).Info("user verified")
	return activated, nil
}

// ResendOtp replaces the outstanding challenge of a pending account and mails the new code.
func (s *AuthService) ResendOtp(ctx context.Context, in ResendOTPInput) error {
	in.Email = normalizeEmail(in.Email)
	if err := s.check(in); err != nil {
		return err
	}

	u, err := s.Repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return s.storageErr("get user by email", err)
	}
	if u.IsActive {
		return ErrAlreadyActive
	}

	code, err := helpers.GenerateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	exp := helpers.OTPExpiresAt(s.now(), s.OTPTTL)
	if err := s.Repo.ReplaceOTP(ctx, u.ID, helpers.HashOTP(code), exp); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAlreadyActive
		}
		return s.storageErr("replace otp", err)
	}
	if err := s.Mailer.SendVerificationCode(ctx, u.Email, u.FullName, code, exp); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("verification mail dispatch failed")
		return ErrMailDispatch
	}
	return nil
}

// Login authenticates by email or username. Unknown identifiers and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Identifier = strings.TrimSpace(in.Identifier)
	if strings.Contains(in.Identifier, "@") {
		in.Identifier = normalizeEmail(in.Identifier)
	}
	if err := s.check(in); err != nil {
		return nil, err
	}

	u, err := s.Repo.GetByIdentifier(ctx, in.Identifier)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, s.storageErr("get user by identifier", err)
	}
	if !s.Hasher.Matches(in.Password, u.Password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrEmailNotVerified
	}
	return s.issue(u)
}

// Me returns the account behind an authenticated session.
func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, s.storageErr("get user by id", err)
	}
	return u, nil
}

// LoginGoogle exchanges a Google ID token for a session, creating an active account on first sign-in.
func (s *AuthService) LoginGoogle(ctx context.Context, idToken string) (*Session, error) {
	profile, err := s.Google.Verify(ctx, idToken)
	if err != nil {
		s.Logger.WithError(err).Warn("google token rejected")
		return nil, ErrInvalidGoogleToken
	}

	u, err := s.Repo.GetByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		if !u.IsActive {
			// the provider vouches for the address
			if activated, aErr := s.Repo.Activate(ctx, u.ID); aErr == nil {
				u = activated
			} else if !errors.Is(aErr, repo.ErrNotFound) {
				return nil, s.storageErr("activate user", aErr)
			}
		}
	case errors.Is(err, repo.ErrNotFound):
		u, err = s.createGoogleUser(ctx, profile)
		if err != nil {
			return nil, err
		}
	default:
		return nil, s.storageErr("get user by email", err)
	}
	return s.issue(u)
}

const maxUsernameAttempts = 3

func (s *AuthService) createGoogleUser(ctx context.Context, p *identity.GoogleProfile) (*entity.User, error) {
	picture := p.Picture
	if picture == "" {
		picture = entity.DefaultProfilePicture
	}
	fullName := p.Name
	if fullName == "" {
		fullName = usernameBase(p.Email)
	}

	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		username, err := s.availableUsername(ctx, usernameBase(p.Email))
		if err != nil {
			return nil, err
		}
		u := &entity.User{
			FullName:       fullName,
			Username:       username,
			Email:          p.Email,
			Role:           entity.RoleUser,
			ProfilePicture: picture,
			IsActive:       true,
		}
		err = s.Repo.Create(ctx, u)
		if err == nil {
			s.Logger.WithField("user_id", u.ID).Info("user created from google sign-in")
			return u, nil
		}
		if !errors.Is(err, repo.ErrDuplicate) {
			return nil, s.storageErr("create user", err)
		}
		// lost a race: either the email now exists or the username was taken meanwhile
		existing, gErr := s.Repo.GetByEmail(ctx, p.Email)
		if gErr == nil {
			return existing, nil
		}
		if !errors.Is(gErr, repo.ErrNotFound) {
			return nil, s.storageErr("get user by email", gErr)
		}
	}
	return nil, fmt.Errorf("%w: could not allocate a username", ErrConflict)
}

func (s *AuthService) availableUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 0; i < maxUsernameAttempts; i++ {
		taken, err := s.Repo.UsernameExists(ctx, candidate)
		if err != nil {
			return "", s.storageErr("check username", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + uuid.NewString()[:8]
	}
	return candidate, nil
}

// usernameBase derives a username from the local part of an email address.
func usernameBase(email string) string {
	local, _, _ := strings.Cut(email, "@")
	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

func (s *AuthService) issue(u *entity.User) (*Session, error) {
	token, exp, err := s.Tokens.Generate(u.ID, string(u.Role))
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate session token failed")
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: exp, User: u}, nil
}
