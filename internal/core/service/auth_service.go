package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/anu235shka/movies-task/internal/core/domain"
	"github.com/anu235shka/movies-task/internal/core/ports"
)

// AuthService drives the account lifecycle: signup → OTP verification → login.
type AuthService struct {
	repo     ports.AuthRepository
	hasher   ports.PasswordHasher
	otp      ports.OTPGenerator
	notifier ports.OTPNotifier
	tokens   ports.TokenIssuer
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	repo ports.AuthRepository,
	hasher ports.PasswordHasher,
	otp ports.OTPGenerator,
	notifier ports.OTPNotifier,
	tokens ports.TokenIssuer,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		otp:      otp,
		notifier: notifier,
		tokens:   tokens,
		log:      log,
		now:      time.Now,
	}
}

// Signup creates an unverified account holding a fresh OTP and hands the code
// to the notifier. The code is never returned to the caller.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) error {
	if in.Email == "" || in.Password == "" {
		return fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	// Fast path only; the store's unique index decides races.
	_, err := s.repo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return domain.ErrDuplicateAccount
	case !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("signup: lookup: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return err
	}

	code, err := s.otp.Generate()
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}

	name := in.Name
	if name == "" {
		name = domain.DefaultUserName
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Email:        in.Email,
		Name:         name,
		PasswordHash: hash,
		OTP:          code,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) {
			return err
		}
		return fmt.Errorf("signup: create: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("account created")

	if err := s.notifier.NotifyOTP(ctx, created.Email, code); err != nil {
		s.log.Error().Err(err).Str("user_id", created.ID).Msg("otp notification failed")
	}
	return nil
}

// VerifyOTP completes signup. An unknown email and a wrong code are
// indistinguishable to the caller.
func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) (*ports.AuthResult, error) {
	if email == "" || otp == "" {
		return nil, fmt.Errorf("%w: email and otp are required", domain.ErrValidation)
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidOTP
		}
		return nil, fmt.Errorf("verify otp: lookup: %w", err)
	}

	if user.Verified || !otpMatches(user.OTP, otp) {
		return nil, domain.ErrInvalidOTP
	}

	verified, err := s.repo.MarkVerified(ctx, user.ID, otp)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Lost a race with another verification of the same account.
			return nil, domain.ErrInvalidOTP
		}
		return nil, fmt.Errorf("verify otp: update: %w", err)
	}

	s.log.Info().Str("user_id", verified.ID).Msg("account verified")
	return s.authenticated(verified)
}

// Login authenticates a verified account. Unknown emails and wrong passwords
// share ErrInvalidCredentials; unverified accounts get ErrNotVerified.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: lookup: %w", err)
	}

	if user.Pending() {
		return nil, domain.ErrNotVerified
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	s.log.Debug().Str("user_id", user.ID).Msg("login succeeded")
	return s.authenticated(user)
}

func (s *AuthService) authenticated(user *domain.User) (*ports.AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &ports.AuthResult{User: user.Public(), Token: token}, nil
}

func otpMatches(stored, supplied string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
