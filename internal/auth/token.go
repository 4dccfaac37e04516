package auth

import (
	"context"
	"sync"
	"time"

	"github.com/fivetwenty-io/graph-client/internal/constants"
)

// TokenManager handles access token lifecycle for Graph API requests.
type TokenManager interface {
	// GetToken returns a valid access token, acquiring or extending one as needed.
	GetToken(ctx context.Context) (string, error)
	// RefreshToken forces a new token acquisition.
	RefreshToken(ctx context.Context) error
	// SetToken stores a token directly with its expiry.
	SetToken(token string, expiresAt time.Time)
}

// Token represents a Facebook access token with its expiry metadata.
// Token endpoints answer with JSON in current API versions; the legacy
// query string form is normalized into the same fields.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	ExpiresAt   time.Time `json:"-"`
}

// Valid returns true when the token is usable: non-empty and not within
// the expiration buffer of its expiry. A zero ExpiresAt means the token
// does not expire.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(constants.TokenExpirationBuffer).Before(t.ExpiresAt)
}

// TokenStore provides thread-safe token storage.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates a new token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the stored token, or nil when none is stored.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set stores a token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear removes the stored token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
}
