package ports

import (
	"context"

	"github.com/anu235shka/movies-task/internal/core/domain"
)

// SignupInput carries the fields accepted by Signup. Name is optional.
type SignupInput struct {
	Email    string
	Password string
	Name     string
}

// AuthResult is returned by a successful verification or login.
type AuthResult struct {
	User  domain.PublicUser
	Token string
}

// AuthService is the account lifecycle: signup creates an unverified account,
// VerifyOTP moves it to verified, Login authenticates verified accounts.
type AuthService interface {
	Signup(ctx context.Context, input SignupInput) error
	VerifyOTP(ctx context.Context, email, otp string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}
