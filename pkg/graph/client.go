package graph

import (
	"context"
	"errors"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrDeprecatedClientConstructor = errors.New("use github.com/fivetwenty-io/graph-client/pkg/fbclient.New to create a client")
)

// NodeClients provides access to node read and lookup clients.
type NodeClients interface {
	Objects() ObjectsClient
	Edges() EdgesClient
	Search() SearchClient
}

// PublishingClients provides access to content publishing clients.
type PublishingClients interface {
	Feed() FeedClient
	Comments() CommentsClient
	Likes() LikesClient
	Photos() PhotosClient
	Requests() RequestsClient
}

// PlatformClients provides access to token and platform service clients.
type PlatformClients interface {
	Tokens() TokensClient
	FQL() FQLClient
	Batch() BatchClient
}

// ResourceClients provides access to all resource-specific clients.
type ResourceClients interface {
	// Composite interfaces for resource groups
	NodeClients
	PublishingClients
	PlatformClients
}

// VersionClient provides access to API version information.
type VersionClient interface {
	// Version returns the configured API version without the "v" prefix.
	Version() string
	// DiscoverVersion asks the live API which version it is serving by
	// reading the facebook-api-version response header.
	DiscoverVersion(ctx context.Context) (string, error)
}

// UsageClient reports rate limit usage from the most recent response.
type UsageClient interface {
	Usage() UsageStats
}

type Client interface {
	// Composite interfaces for related resource groups
	ResourceClients
	VersionClient
	UsageClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a graph.Client.
//
// # Authentication precedence
//
// The following precedence is applied by the concrete client implementation
// (see pkg/fbclient and internal/client):
//  1. AccessToken: if set, it is used directly as a static Bearer token.
//  2. AccessToken + AppID/AppSecret: the token is tried first; when it nears
//     expiry the client extends it with the fb_exchange_token grant, falling
//     back to an app access token if the exchange fails.
//  3. AppID/AppSecret: obtains an app access token with the
//     client_credentials grant.
//  4. No credentials: requests are sent without authentication; read access
//     to public nodes may work but write operations fail before sending.
//
// # API versions
//
// APIVersion accepts "2.2" or "v2.2" forms and must name a published Graph
// API version (1.0, 2.0, 2.1, or 2.2). When empty, the newest supported
// version is used. All request paths are prefixed with "v<version>".
//
// # Timeouts, retries, and TLS
//
// Per-request timeouts should generally be controlled via context passed to
// client methods. Retry behavior can be tuned via RetryMax/RetryWaitMin/
// RetryWaitMax. SkipTLSVerify is only honored when the environment variable
// FBGRAPH_DEV_MODE is set to "true" or "1"; do not use it in production.
type Config struct {
	// Required fields
	// Endpoint: base URL for the Graph API. Defaults to
	// "https://graph.facebook.com". fbclient.New normalizes this value by
	// trimming a trailing slash and adding "https://" if no scheme is present.
	Endpoint string

	// Authentication options (provide one)
	// AccessToken: if set, used directly as a Bearer token. When combined
	// with AppID/AppSecret, the client can extend or replace the token when
	// it expires.
	AccessToken string
	// AppID: application ID used for app tokens, token exchange, and
	// signed request validation.
	AppID string
	// AppSecret: application secret used with AppID.
	AppSecret string
	// RedirectURI: OAuth redirect URI used when exchanging login codes.
	RedirectURI string

	// Optional configurations
	// APIVersion: Graph API version to send requests against ("2.2" or
	// "v2.2"). When empty the newest supported version is used.
	APIVersion string
	// EnableAppSecretProof: when true and AppSecret is set, every request
	// carries an appsecret_proof parameter (HMAC-SHA256 of the access token).
	EnableAppSecretProof bool
	// HTTPTimeout: overrides the default timeout applied to each HTTP
	// request. Context deadlines still apply on top.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of retries for transient failures (>=500, 429,
	// and connection errors). If 0, a sensible default is used by the client.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer and helpers.
	Logger Logger
	// SkipTLSVerify: if true, TLS verification is skipped, and only when
	// FBGRAPH_DEV_MODE is set. Intended for local development proxies.
	SkipTLSVerify bool
	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string
}

// NewClient creates a new Graph API client
// Deprecated: Use github.com/fivetwenty-io/graph-client/pkg/fbclient.New instead.
func NewClient(config *Config) (Client, error) {
	return nil, ErrDeprecatedClientConstructor
}
