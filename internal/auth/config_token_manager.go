package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// ErrNoConfigPersister is reported when a token should be written back but
// no persister was configured.
var ErrNoConfigPersister = errors.New("no config persister configured")

// ConfigPersister writes an extended token back to durable configuration,
// keyed by profile name.
type ConfigPersister interface {
	UpdateAccessToken(profileName, token string, expiresAt time.Time) error
}

// ConfigTokenManager wraps an OAuthTokenManager and writes every token
// change through to the CLI configuration, so extended tokens survive
// process restarts.
type ConfigTokenManager struct {
	oauth       *OAuthTokenManager
	persister   ConfigPersister
	profileName string

	mu          sync.Mutex
	savedToken  string
	savedExpiry time.Time
}

// NewConfigTokenManager creates a manager seeded with the profile's current
// token. The seed token counts as already saved.
func NewConfigTokenManager(config *OAuthConfig, persister ConfigPersister, profileName string, initialToken string, initialExpiry time.Time) *ConfigTokenManager {
	oauth := NewOAuthTokenManager(config)
	if initialToken != "" {
		oauth.SetToken(initialToken, initialExpiry)
	}

	return &ConfigTokenManager{
		oauth:       oauth,
		persister:   persister,
		profileName: profileName,
		savedToken:  initialToken,
		savedExpiry: initialExpiry,
	}
}

// GetToken returns a valid access token, extending it when needed. A token
// that changed since the last save is written back in the background.
func (m *ConfigTokenManager) GetToken(ctx context.Context) (string, error) {
	token, err := m.oauth.GetToken(ctx)
	if err != nil {
		return "", err
	}

	m.saveIfChanged()

	return token, nil
}

// RefreshToken forces a new token exchange and writes the result back
// before returning.
func (m *ConfigTokenManager) RefreshToken(ctx context.Context) error {
	err := m.oauth.RefreshToken(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.oauth.store.Get()
	if current == nil {
		return nil
	}

	err = m.save(current)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to persist extended token: %v\n", err)
	}

	m.savedToken = current.AccessToken
	m.savedExpiry = current.ExpiresAt

	return nil
}

// SetToken stores a token directly and records it as saved.
func (m *ConfigTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.oauth.SetToken(token, expiresAt)
	m.savedToken = token
	m.savedExpiry = expiresAt
}

// IsTokenExpiringSoon reports whether the token expires within the given
// window. A missing token counts as expiring, a token without expiry never
// does.
func (m *ConfigTokenManager) IsTokenExpiringSoon(within time.Duration) bool {
	token := m.oauth.store.Get()
	if token == nil {
		return true
	}

	if token.ExpiresAt.IsZero() {
		return false
	}

	return time.Now().Add(within).After(token.ExpiresAt)
}

// GetTokenExpiry returns the current token's expiry, zero when no token is
// stored or the token does not expire.
func (m *ConfigTokenManager) GetTokenExpiry() time.Time {
	token := m.oauth.store.Get()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

// saveIfChanged writes the current token back when it differs from the
// last saved one. The write runs in the background and warns on failure
// instead of failing the request.
func (m *ConfigTokenManager) saveIfChanged() {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.oauth.store.Get()
	if current == nil {
		return
	}

	if current.AccessToken == m.savedToken && current.ExpiresAt.Equal(m.savedExpiry) {
		return
	}

	m.savedToken = current.AccessToken
	m.savedExpiry = current.ExpiresAt

	go func(token *Token) {
		err := m.save(token)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to persist extended token: %v\n", err)
		}
	}(current)
}

// save writes one token through the persister.
func (m *ConfigTokenManager) save(token *Token) error {
	if m.persister == nil {
		return ErrNoConfigPersister
	}

	err := m.persister.UpdateAccessToken(m.profileName, token.AccessToken, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to update access token: %w", err)
	}

	return nil
}
