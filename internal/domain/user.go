package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered user together with their profile.
// MaxSpend is the user's spending cap; unset means the user cannot cover any share.
// swagger:model User
type User struct {
	ID           string              `json:"id"`
	Email        string              `json:"email"`
	Username     string              `json:"username"`
	Nickname     string              `json:"nickname"`
	MaxSpend     decimal.NullDecimal `json:"max_spend" swaggertype:"string"`
	PasswordHash string              `json:"-"`
	Salt         string              `json:"-"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(email, username string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:     email,
		Username:  username,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// SpendingCap returns the user's maximum contribution, zero when unset.
func (u *User) SpendingCap() decimal.Decimal {
	if u == nil || !u.MaxSpend.Valid {
		return decimal.Zero
	}
	return u.MaxSpend.Decimal
}

// DisplayName returns the nickname, falling back to the username and then the email.
func (u *User) DisplayName() string {
	switch {
	case u.Nickname != "":
		return u.Nickname
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	ListNotInGroup(ctx context.Context, groupID string) ([]*User, error)
}

// AuthService handles registration and password login.
type AuthService interface {
	SignUp(ctx context.Context, email, username, password string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
}

// UserService defines profile operations for the authenticated user.
type UserService interface {
	GetByID(ctx context.Context, id string) (*User, error)
	// UpdateProfile sets the nickname and/or spending cap. Nil fields are left unchanged.
	UpdateProfile(ctx context.Context, id string, nickname *string, maxSpend *decimal.Decimal) (*User, error)
}
