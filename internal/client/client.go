// Package client implements the graph.Client interface against the
// Facebook Graph API.
package client

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/graph-client/internal/auth"
	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/fivetwenty-io/graph-client/internal/http"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
)

// Static errors for err113 compliance.
var (
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
)

// Client implements the graph.Client interface.
type Client struct {
	config       *graph.Config
	httpClient   *http.Client
	tokenManager auth.TokenManager
	version      string
	usage        *graph.UsageTracker

	// Resource clients
	objects  *ObjectsClient
	edges    *EdgesClient
	feed     *FeedClient
	comments *CommentsClient
	likes    *LikesClient
	photos   *PhotosClient
	requests *RequestsClient
	search   *SearchClient
	tokens   *TokensClient
	fql      *FQLClient
	batch    *BatchClient
}

// createTokenManager builds the token manager for the configured
// credentials. The precedence mirrors how applications hold Facebook
// credentials: a user token that can be extended when app credentials
// are present, a plain static token, an app token from client
// credentials, or no authentication at all.
func createTokenManager(config *graph.Config, endpoint string) auth.TokenManager {
	tokenURL := endpoint + "/oauth/access_token"

	switch {
	case config.AccessToken != "" && config.AppID != "" && config.AppSecret != "":
		return auth.NewOAuthTokenManager(&auth.OAuthConfig{
			AccessToken: config.AccessToken,
			AppID:       config.AppID,
			AppSecret:   config.AppSecret,
			TokenURL:    tokenURL,
		})
	case config.AccessToken != "":
		return auth.NewStaticTokenManager(config.AccessToken)
	case config.AppID != "" && config.AppSecret != "":
		return auth.NewOAuthTokenManager(&auth.OAuthConfig{
			AppID:     config.AppID,
			AppSecret: config.AppSecret,
			TokenURL:  tokenURL,
		})
	default:
		// Unauthenticated clients can still read public nodes.
		return nil
	}
}

// createHTTPClientOptions builds HTTP client options from the config.
func createHTTPClientOptions(config *graph.Config) []http.Option {
	httpOpts := []http.Option{}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 {
		retryWaitMin := config.RetryWaitMin
		if retryWaitMin == 0 {
			retryWaitMin = constants.DefaultRetryWaitMin
		}

		retryWaitMax := config.RetryWaitMax
		if retryWaitMax == 0 {
			retryWaitMax = constants.ExtendedRetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.EnableAppSecretProof && config.AppSecret != "" {
		httpOpts = append(httpOpts, http.WithAppSecret(config.AppSecret))
	}

	if config.SkipTLSVerify {
		httpOpts = append(httpOpts, http.WithHTTPClient(&nethttp.Client{
			Timeout: constants.DefaultHTTPTimeout,
			Transport: &nethttp.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402 -- Gated on FBGRAPH_DEV_MODE in pkg/fbclient
			},
		}))
	}

	// Applied after any client replacement so the timeout always sticks.
	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithHTTPTimeout(config.HTTPTimeout))
	}

	return httpOpts
}

// New creates a new Graph API client.
func New(ctx context.Context, config *graph.Config) (*Client, error) {
	if config == nil {
		return nil, graph.ErrConfigRequired
	}

	endpoint := strings.TrimSuffix(config.Endpoint, "/")
	if endpoint == "" {
		endpoint = constants.DefaultGraphEndpoint
	}

	return NewWithTokenManager(config, createTokenManager(config, endpoint))
}

// NewWithTokenManager creates a new client with a custom token manager.
func NewWithTokenManager(config *graph.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, graph.ErrConfigRequired
	}

	endpoint := strings.TrimSuffix(config.Endpoint, "/")
	if endpoint == "" {
		endpoint = constants.DefaultGraphEndpoint
	}

	usage := graph.NewUsageTracker()

	chain := graph.NewInterceptorChain()
	chain.AddResponseInterceptor(graph.UsageTrackingInterceptor(usage))

	httpOpts := createHTTPClientOptions(config)
	httpOpts = append(httpOpts, http.WithInterceptorChain(chain))

	client := &Client{
		config:       config,
		httpClient:   http.NewClient(endpoint, tokenManager, httpOpts...),
		tokenManager: tokenManager,
		version:      normalizeVersion(config.APIVersion),
		usage:        usage,
	}

	client.initializeResourceClients()

	return client, nil
}

// normalizeVersion strips an optional "v" prefix and applies the default
// version.
func normalizeVersion(version string) string {
	version = strings.TrimPrefix(version, "v")
	if version == "" {
		return constants.DefaultAPIVersion
	}

	return version
}

// versionedPath prefixes a Graph path with the API version.
func versionedPath(version, path string) string {
	return "/v" + version + "/" + strings.TrimLeft(path, "/")
}

// Version implements graph.Client.Version.
func (c *Client) Version() string {
	return c.version
}

// DiscoverVersion implements graph.Client.DiscoverVersion. It probes the
// live API and reads the version it reports in the facebook-api-version
// response header.
func (c *Client) DiscoverVersion(ctx context.Context) (string, error) {
	query := url.Values{}
	query.Set("fields", "id")

	resp, err := c.httpClient.Get(ctx, versionedPath(c.version, "me"), query)
	if resp == nil {
		return "", fmt.Errorf("getting version: %w", err)
	}

	// The header is present even on error responses, so an
	// unauthenticated probe still learns the version.
	header := resp.Headers.Get(constants.VersionHeader)
	if header == "" {
		return "", graph.ErrVersionNotAvailable
	}

	return strings.TrimPrefix(header, "v"), nil
}

// Usage implements graph.Client.Usage.
func (c *Client) Usage() graph.UsageStats {
	return c.usage.App()
}

// Objects implements graph.Client.Objects.
func (c *Client) Objects() graph.ObjectsClient {
	return c.objects
}

// Edges implements graph.Client.Edges.
func (c *Client) Edges() graph.EdgesClient {
	return c.edges
}

// Feed implements graph.Client.Feed.
func (c *Client) Feed() graph.FeedClient {
	return c.feed
}

// Comments implements graph.Client.Comments.
func (c *Client) Comments() graph.CommentsClient {
	return c.comments
}

// Likes implements graph.Client.Likes.
func (c *Client) Likes() graph.LikesClient {
	return c.likes
}

// Photos implements graph.Client.Photos.
func (c *Client) Photos() graph.PhotosClient {
	return c.photos
}

// Requests implements graph.Client.Requests.
func (c *Client) Requests() graph.RequestsClient {
	return c.requests
}

// Search implements graph.Client.Search.
func (c *Client) Search() graph.SearchClient {
	return c.search
}

// Tokens implements graph.Client.Tokens.
func (c *Client) Tokens() graph.TokensClient {
	return c.tokens
}

// FQL implements graph.Client.FQL.
func (c *Client) FQL() graph.FQLClient {
	return c.fql
}

// Batch implements graph.Client.Batch.
func (c *Client) Batch() graph.BatchClient {
	return c.batch
}

// UsageTracker exposes the tracker so callers can register threshold
// callbacks.
func (c *Client) UsageTracker() *graph.UsageTracker {
	return c.usage
}

// GetTokenManager returns the token manager used by this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// GetToken returns the current access token from the token manager.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", ErrNoTokenManagerConfigured
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.objects = NewObjectsClient(c.httpClient, c.version)
	c.edges = NewEdgesClient(c.httpClient, c.version)
	c.feed = NewFeedClient(c.httpClient, c.version)
	c.comments = NewCommentsClient(c.httpClient, c.version)
	c.likes = NewLikesClient(c.httpClient, c.version)
	c.photos = NewPhotosClient(c.httpClient, c.version)
	c.requests = NewRequestsClient(c.httpClient, c.version)
	c.search = NewSearchClient(c.httpClient, c.version)
	c.tokens = NewTokensClient(c.httpClient, c.version, c.config)
	c.fql = NewFQLClient(c.httpClient, c.version)
	c.batch = NewBatchClient(c.httpClient, c.version)
}
