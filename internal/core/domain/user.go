package domain

import "time"

// DefaultUserName is stored when signup omits a display name.
const DefaultUserName = "User"

// User is a credential record. OTP is non-empty only while the account is
// still waiting for its first verification; Verified never reverts.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Verified     bool      `json:"verified"`
	OTP          string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the view of a user that is safe to return to callers.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name}
}

// Pending reports whether the account is still in the unverified state.
func (u *User) Pending() bool {
	return !u.Verified
}
