package ports

import "context"

// PasswordHasher hashes passwords one-way and checks candidates against a digest.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// OTPGenerator produces one-time passcodes.
type OTPGenerator interface {
	Generate() (string, error)
}

// OTPNotifier delivers a freshly issued passcode to its owner.
type OTPNotifier interface {
	NotifyOTP(ctx context.Context, email, code string) error
}

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// TokenIssuer mints bearer tokens.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// TokenVerifier resolves a bearer token back into an Identity.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

// Sanitizer strips markup from user-supplied text.
type Sanitizer interface {
	Sanitize(s string) string
}

// PosterValidator checks that a poster URL is acceptable for storage.
type PosterValidator interface {
	ValidatePoster(ctx context.Context, rawURL string) error
}
