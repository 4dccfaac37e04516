package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
)

// Static errors for err113 compliance.
var (
	ErrNoValidCredentials = errors.New("no valid credentials available")
	ErrEmptyTokenResponse = errors.New("token endpoint returned no access token")
)

// OAuthConfig holds the configuration for Facebook token management.
type OAuthConfig struct {
	// AccessToken is a static user or page token supplied by the caller.
	AccessToken string
	// AppID and AppSecret identify the app for app access tokens and
	// token exchange.
	AppID     string
	AppSecret string
	// TokenURL overrides the token endpoint, primarily for tests.
	TokenURL string
	// HTTPClient overrides the HTTP client used for token requests.
	HTTPClient *http.Client
}

// OAuthTokenManager manages Facebook access tokens. A stored token is
// served while valid; an expiring user token is exchanged for a
// long-lived one via the fb_exchange_token grant; with only app
// credentials configured it falls back to an app access token.
type OAuthTokenManager struct {
	config     *OAuthConfig
	store      *TokenStore
	httpClient *http.Client
}

// NewOAuthTokenManager creates a new OAuth token manager.
func NewOAuthTokenManager(config *OAuthConfig) *OAuthTokenManager {
	if config == nil {
		config = &OAuthConfig{}
	}

	if config.TokenURL == "" {
		config.TokenURL = constants.DefaultGraphEndpoint + "/oauth/access_token"
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.DefaultHTTPTimeout}
	}

	manager := &OAuthTokenManager{
		config:     config,
		store:      NewTokenStore(),
		httpClient: httpClient,
	}

	// A configured static token has no known expiry and is served as-is
	// until something replaces it.
	if config.AccessToken != "" {
		manager.store.Set(&Token{AccessToken: config.AccessToken, TokenType: "bearer"})
	}

	return manager
}

// NewAppTokenManager creates a manager that authenticates with an app
// access token derived from the app credentials.
func NewAppTokenManager(appID, appSecret string) *OAuthTokenManager {
	return NewOAuthTokenManager(&OAuthConfig{
		AppID:     appID,
		AppSecret: appSecret,
	})
}

// NewStaticTokenManager creates a manager that always serves the given
// token and cannot refresh it.
func NewStaticTokenManager(accessToken string) *OAuthTokenManager {
	return NewOAuthTokenManager(&OAuthConfig{
		AccessToken: accessToken,
	})
}

// GetToken returns a valid access token, acquiring or extending one
// when the stored token is missing or about to expire.
func (m *OAuthTokenManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	err := m.acquireToken(ctx)
	if err != nil {
		return "", err
	}

	return m.store.Get().AccessToken, nil
}

// RefreshToken forces a new token acquisition, replacing the stored
// token even when it is still valid.
func (m *OAuthTokenManager) RefreshToken(ctx context.Context) error {
	if m.config.AppID == "" || m.config.AppSecret == "" {
		return graph.ErrStaticTokenCannotRefresh
	}

	return m.acquireToken(ctx)
}

// SetToken manually sets the access token.
func (m *OAuthTokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}

func (m *OAuthTokenManager) acquireToken(ctx context.Context) error {
	if m.config.AppID == "" || m.config.AppSecret == "" {
		return ErrNoValidCredentials
	}

	var (
		token *Token
		err   error
	)

	if m.config.AccessToken != "" {
		// Re-extending the stored long-lived token refreshes its
		// window, so it is preferred over the original configured one.
		current := m.config.AccessToken
		if stored := m.store.Get(); stored != nil && stored.AccessToken != "" {
			current = stored.AccessToken
		}

		token, err = m.exchangeToken(ctx, current)
	} else {
		token, err = m.appToken(ctx)
	}

	if err != nil {
		return err
	}

	m.store.Set(token)

	return nil
}

func (m *OAuthTokenManager) exchangeToken(ctx context.Context, accessToken string) (*Token, error) {
	return m.requestToken(ctx, url.Values{
		"grant_type":        []string{constants.GrantTypeExchangeToken},
		"client_id":         []string{m.config.AppID},
		"client_secret":     []string{m.config.AppSecret},
		"fb_exchange_token": []string{accessToken},
	})
}

func (m *OAuthTokenManager) appToken(ctx context.Context) (*Token, error) {
	return m.requestToken(ctx, url.Values{
		"grant_type":    []string{constants.GrantTypeClientCredentials},
		"client_id":     []string{m.config.AppID},
		"client_secret": []string{m.config.AppSecret},
	})
}

// requestToken calls the token endpoint. The endpoint takes its
// parameters on the query string and never sees a request body.
func (m *OAuthTokenManager) requestToken(ctx context.Context, params url.Values) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.config.TokenURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr, parseErr := graph.ParseResponseError(body)
		if parseErr != nil {
			return nil, fmt.Errorf("token request failed with status %d: %s",
				resp.StatusCode, strings.TrimSpace(string(body)))
		}

		return nil, fmt.Errorf("token request failed: %w", apiErr)
	}

	return parseTokenResponse(body)
}

// parseTokenResponse decodes a token endpoint response. API versions
// before 2.3 answer with a query string (access_token=...&expires=...);
// later versions answer with JSON.
func parseTokenResponse(body []byte) (*Token, error) {
	trimmed := strings.TrimSpace(string(body))

	if strings.HasPrefix(trimmed, "{") {
		var token Token

		err := json.Unmarshal(body, &token)
		if err != nil {
			return nil, fmt.Errorf("failed to decode token response: %w", err)
		}

		if token.AccessToken == "" {
			return nil, ErrEmptyTokenResponse
		}

		if token.TokenType == "" {
			token.TokenType = "bearer"
		}

		if token.ExpiresIn > 0 {
			token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
		}

		return &token, nil
	}

	values, err := url.ParseQuery(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	token := &Token{
		AccessToken: values.Get("access_token"),
		TokenType:   "bearer",
	}

	if token.AccessToken == "" {
		return nil, ErrEmptyTokenResponse
	}

	if expires := values.Get("expires"); expires != "" {
		seconds, err := strconv.ParseInt(expires, 10, 64)
		if err == nil && seconds > 0 {
			token.ExpiresIn = seconds
			token.ExpiresAt = time.Now().Add(time.Duration(seconds) * time.Second)
		}
	}

	return token, nil
}

// AppSecretProof computes the appsecret_proof request parameter: a hex
// encoded HMAC-SHA256 of the access token keyed with the app secret.
func AppSecretProof(accessToken, appSecret string) string {
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write([]byte(accessToken))

	return hex.EncodeToString(mac.Sum(nil))
}
