// Package identity bridges an external identity provider to the web
// session: who is signed in, and with which email.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already in use")
	ErrWeakPassword       = errors.New("password too weak")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrNotSignedIn        = errors.New("not signed in")
	ErrProviderFailure    = errors.New("identity provider failure")
)

const (
	ProviderFirebase = "firebase"
	ProviderLocal    = "local"
	ProviderMock     = "mock"
	ProviderGoogle   = "google"
)

// MinPasswordLength matches Firebase's email/password rule.
const MinPasswordLength = 6

// MaxPasswordBytes is the most bcrypt will hash.
const MaxPasswordBytes = 72

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Provider    string `json:"provider"`
}

// Provider is an email/password identity backend.
type Provider interface {
	Name() string
	SignUp(ctx context.Context, email, password string) (User, error)
	SignIn(ctx context.Context, email, password string) (User, error)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: '%s'", ErrInvalidEmail, email)
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrWeakPassword, MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("%w: must be at most %d bytes", ErrWeakPassword, MaxPasswordBytes)
	}
	return nil
}
