package ports

import (
	"context"

	"github.com/anu235shka/movies-task/internal/core/domain"
)

// AuthRepository is the credential store. Email lookups are exact-match and
// the store's uniqueness constraint on email is the final arbiter of
// duplicates: Create must return domain.ErrDuplicateAccount on a conflicting
// write even if an earlier lookup found nothing.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// MarkVerified sets verified and clears the OTP of the user with the given
	// id, but only while that user is unverified and still holds otp.
	// It returns domain.ErrUserNotFound when no record matched.
	MarkVerified(ctx context.Context, id, otp string) (*domain.User, error)
}
