package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/fivetwenty-io/graph-client/internal/http"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
)

// Static errors for err113 compliance.
var (
	ErrNoAccessTokenInResponse = errors.New("no access token in response")
)

// TokensClient implements graph.TokensClient
type TokensClient struct {
	httpClient *http.Client
	version    string
	config     *graph.Config
}

// NewTokensClient creates a new tokens client
func NewTokensClient(httpClient *http.Client, version string, config *graph.Config) *TokensClient {
	return &TokensClient{
		httpClient: httpClient,
		version:    version,
		config:     config,
	}
}

// AppToken implements graph.TokensClient.AppToken
func (c *TokensClient) AppToken(ctx context.Context) (*graph.AccessToken, error) {
	if err := c.requireAppCredentials(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("grant_type", constants.GrantTypeClientCredentials)
	query.Set("client_id", c.config.AppID)
	query.Set("client_secret", c.config.AppSecret)

	resp, err := c.httpClient.Get(ctx, versionedPath(c.version, "oauth/access_token"), query)
	if err != nil {
		return nil, fmt.Errorf("getting app token: %w", err)
	}

	return parseAccessToken(resp.Body)
}

// ExchangeCode implements graph.TokensClient.ExchangeCode. The redirect
// URI must match the one the login dialog was opened with; the login
// cookie flow uses an empty string.
func (c *TokensClient) ExchangeCode(ctx context.Context, code, redirectURI string) (*graph.AccessToken, error) {
	if err := c.requireAppCredentials(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("code", code)
	query.Set("redirect_uri", redirectURI)
	query.Set("client_id", c.config.AppID)
	query.Set("client_secret", c.config.AppSecret)

	resp, err := c.httpClient.Get(ctx, versionedPath(c.version, "oauth/access_token"), query)
	if err != nil {
		return nil, fmt.Errorf("exchanging code: %w", err)
	}

	return parseAccessToken(resp.Body)
}

// Extend implements graph.TokensClient.Extend
func (c *TokensClient) Extend(ctx context.Context, token string) (*graph.AccessToken, error) {
	if err := c.requireAppCredentials(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("grant_type", constants.GrantTypeExchangeToken)
	query.Set("client_id", c.config.AppID)
	query.Set("client_secret", c.config.AppSecret)
	query.Set("fb_exchange_token", token)

	resp, err := c.httpClient.Get(ctx, versionedPath(c.version, "oauth/access_token"), query)
	if err != nil {
		return nil, fmt.Errorf("extending token: %w", err)
	}

	return parseAccessToken(resp.Body)
}

// Debug implements graph.TokensClient.Debug. The session token must
// belong to the same application as the inspected token; an app token
// obtained through client credentials satisfies that.
func (c *TokensClient) Debug(ctx context.Context, inputToken string) (*graph.DebugTokenInfo, error) {
	query := url.Values{}
	query.Set("input_token", inputToken)

	resp, err := c.httpClient.Get(ctx, versionedPath(c.version, "debug_token"), query)
	if err != nil {
		return nil, fmt.Errorf("debugging token: %w", err)
	}

	var envelope struct {
		Data graph.DebugTokenInfo `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, fmt.Errorf("parsing debug_token response: %w", err)
	}

	return &envelope.Data, nil
}

// FromCookie implements graph.TokensClient.FromCookie. The JavaScript
// SDK stores a signed request in an fbsr_<app id> cookie; its payload
// carries a login code that can be exchanged for an access token.
func (c *TokensClient) FromCookie(ctx context.Context, cookies []*nethttp.Cookie, validate bool) (*graph.SignedRequestPayload, error) {
	if c.config.AppID == "" {
		return nil, graph.ErrAppIDRequired
	}

	if c.config.AppSecret == "" {
		return nil, graph.ErrAppSecretRequired
	}

	name := constants.SignedRequestCookiePrefix + c.config.AppID

	var cookie *nethttp.Cookie

	for _, candidate := range cookies {
		if candidate.Name == name {
			cookie = candidate

			break
		}
	}

	if cookie == nil || cookie.Value == "" {
		return nil, graph.ErrNoLoginCookie
	}

	payload, err := graph.ParseSignedRequest(cookie.Value, c.config.AppSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", graph.ErrParsingCookie, err)
	}

	if validate && payload.Code != "" {
		token, err := c.ExchangeCode(ctx, payload.Code, "")
		if err != nil {
			return nil, fmt.Errorf("exchanging login code: %w", err)
		}

		payload.AccessToken = token
	}

	return payload, nil
}

func (c *TokensClient) requireAppCredentials() error {
	if c.config == nil || c.config.AppID == "" {
		return graph.ErrAppIDRequired
	}

	if c.config.AppSecret == "" {
		return graph.ErrAppSecretRequired
	}

	return nil
}

// parseAccessToken decodes a token grant response. Current API versions
// answer with JSON; older versions answer with a bare
// access_token=...&expires=... query string.
func parseAccessToken(body []byte) (*graph.AccessToken, error) {
	token := &graph.AccessToken{}

	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(body, token); err != nil {
			return nil, fmt.Errorf("parsing token response: %w", err)
		}
	} else {
		values, err := url.ParseQuery(trimmed)
		if err != nil {
			return nil, fmt.Errorf("parsing token response: %w", err)
		}

		token.Value = values.Get("access_token")

		if expires := values.Get("expires"); expires != "" {
			if seconds, err := strconv.ParseInt(expires, 10, 64); err == nil {
				token.ExpiresIn = seconds
			}
		}
	}

	if token.Value == "" {
		return nil, ErrNoAccessTokenInResponse
	}

	if token.Type == "" {
		token.Type = "bearer"
	}

	if token.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	return token, nil
}
