// Package credentials stores the GitHub token in the OS keyring.
package credentials

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/zalando/go-keyring"
)

// Service is the keyring service name.
const Service = "pobre"

// Store reads and writes the token for one keyring user.
type Store struct {
	user string
}

// NewStore creates a store for the current system user.
func NewStore() *Store {
	return &Store{user: systemUser()}
}

// Token returns the saved token, or "" when none is saved.
func (s *Store) Token() (string, error) {
	token, err := keyring.Get(Service, s.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to read token from keyring")
	}
	return token, nil
}

// SetToken saves token, replacing any previous one.
func (s *Store) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is empty")
	}
	if err := keyring.Set(Service, s.user, token); err != nil {
		return errors.Wrap(err, "failed to save token to keyring")
	}
	zlog.Debug().Msgf("credentials: token saved for user=%s", s.user)
	return nil
}

// ClearToken removes the saved token. Removing a missing token is not an error.
func (s *Store) ClearToken() error {
	err := keyring.Delete(Service, s.user)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return errors.Wrap(err, "failed to delete token from keyring")
	}
	return nil
}

func systemUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u := os.Getenv("USERNAME"); u != "" {
		return u
	}
	return "anon"
}
