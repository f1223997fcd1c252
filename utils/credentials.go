package utils

import (
	"context"
	"crypto/subtle"
	"errors"

	"laundromat-backend/models"
)

// CredentialStore decides whether a username/password pair may log in.
type CredentialStore interface {
	Authenticate(ctx context.Context, username, password string) error
}

// StaticCredentials is the single shared staff account from config.
type StaticCredentials struct {
	username     string
	passwordHash string
}

// NewStaticCredentials builds the account from a bcrypt hash, or hashes the
// plain password when no hash is configured.
func NewStaticCredentials(username, password, passwordHash string, cost int) (*StaticCredentials, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}
	if passwordHash == "" {
		if password == "" {
			return nil, errors.New("password or password hash is required")
		}
		hashed, err := HashPassword(password, cost)
		if err != nil {
			return nil, err
		}
		passwordHash = hashed
	}
	return &StaticCredentials{username: username, passwordHash: passwordHash}, nil
}

func (s *StaticCredentials) Authenticate(_ context.Context, username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	// bcrypt runs even when the username is wrong
	passOK := CheckPasswordHash(password, s.passwordHash)
	if !userOK || !passOK {
		return models.ErrInvalidCredentials
	}
	return nil
}

var _ CredentialStore = (*StaticCredentials)(nil)
