package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/creditnote/backend/internal/infrastructure/config"
)

// ErrInvalidCredentials is returned for any username/password mismatch.
// The cause is deliberately not distinguished.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// CredentialVerifier checks login attempts against the configured
// operator account. The tool serves a small back-office team behind a
// shared service account; there is no user store.
type CredentialVerifier struct {
	username     string
	passwordHash string
}

// NewCredentialVerifier creates a verifier from the auth configuration
func NewCredentialVerifier(cfg config.AuthConfig) *CredentialVerifier {
	return &CredentialVerifier{
		username:     cfg.Username,
		passwordHash: cfg.PasswordHash,
	}
}

// Verify checks the supplied credentials. The bcrypt comparison runs
// even on a username mismatch to keep response timing uniform.
func (v *CredentialVerifier) Verify(username, password string) error {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1

	if err := bcrypt.CompareHashAndPassword([]byte(v.passwordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	if !usernameOK {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword produces a bcrypt hash for configuration bootstrap
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
