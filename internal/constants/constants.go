package constants

import "time"

// Graph API endpoints.
const (
	// DefaultGraphEndpoint is the base URL for Graph API requests.
	DefaultGraphEndpoint = "https://graph.facebook.com"

	// DialogOAuthURL is the base URL for the Facebook login dialog.
	DialogOAuthURL = "https://www.facebook.com/dialog/oauth"

	// DefaultUserAgent identifies this client in request headers.
	DefaultUserAgent = "graph-client/1.0.0"
)

// API versioning.
const (
	// DefaultAPIVersion is the Graph API version used when none is configured.
	DefaultAPIVersion = "2.2"

	// MaxFQLVersion is the newest Graph API version that still supports FQL.
	MaxFQLVersion = "2.0"

	// VersionHeader is the response header carrying the served API version.
	VersionHeader = "Facebook-Api-Version"
)

// SupportedAPIVersions lists the Graph API versions this client accepts.
var SupportedAPIVersions = []string{"1.0", "2.0", "2.1", "2.2"}

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ExtendedHTTPTimeout is used for longer operations such as uploads.
	ExtendedHTTPTimeout = 45 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry and concurrency limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second

	// ExtendedRetryWaitMax is used for operations that need longer waits.
	ExtendedRetryWaitMax = 30 * time.Second

	// DefaultConcurrencyLimit limits concurrent batch chunk execution.
	DefaultConcurrencyLimit = 3

	// BufferSize is the default buffer size for channels.
	BufferSize = 100
)

// Tokens and signing.
const (
	// TokenExpirationBuffer is the buffer time before token expiration.
	TokenExpirationBuffer = 30 * time.Second

	// SignedRequestAlgorithm is the only algorithm accepted in signed requests.
	SignedRequestAlgorithm = "HMAC-SHA256"

	// SignedRequestCookiePrefix prefixes the cookie set by the JavaScript SDK.
	SignedRequestCookiePrefix = "fbsr_"

	// Base64PaddingLength is used for base64 padding calculations.
	Base64PaddingLength = 4
)

// OAuth grant types.
const (
	// GrantTypeClientCredentials requests an application access token.
	GrantTypeClientCredentials = "client_credentials"

	// GrantTypeExchangeToken exchanges a short-lived token for a long-lived one.
	GrantTypeExchangeToken = "fb_exchange_token"
)

// Usage headers emitted by the Graph API.
const (
	// AppUsageHeader reports application-level rate limit usage.
	AppUsageHeader = "X-App-Usage"

	// PageUsageHeader reports page-level rate limit usage.
	PageUsageHeader = "X-Page-Usage"
)

// Pagination and display limits.
const (
	// DefaultPageLimit is the default number of items requested per edge page.
	DefaultPageLimit = 25

	// LargePageLimit is used for efficient bulk operations.
	LargePageLimit = 100

	// MaxPages is used to prevent infinite loops in pagination.
	MaxPages = 50

	// DemoDisplayLimit limits items shown in examples.
	DemoDisplayLimit = 3
)

// Cache sizes and lifetimes.
const (
	// DefaultCacheSize is the default cache size limit.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default cache time-to-live.
	DefaultCacheTTL = 5 * time.Minute

	// CacheMinTTL is the minimum cache time-to-live.
	CacheMinTTL = 30 * time.Second

	// MaxCacheValueSize is the maximum size for cached values (1MB).
	MaxCacheValueSize = 1024 * 1024

	// ObjectsCacheTTL is the TTL for cached object reads.
	ObjectsCacheTTL = 2 * time.Minute
)

// Circuit breaker tuning.
const (
	// CircuitBreakerThreshold is the failure threshold for the circuit breaker.
	CircuitBreakerThreshold = 5

	// CircuitBreakerSuccessThreshold is the success threshold for the circuit breaker.
	CircuitBreakerSuccessThreshold = 2

	// CircuitBreakerTimeout is the timeout for the circuit breaker.
	CircuitBreakerTimeout = 30 * time.Second
)

// State and status constants.
const (
	// StatusOpen indicates an open circuit state.
	StatusOpen = "open"

	// StatusHalfOpen indicates a half-open circuit state.
	StatusHalfOpen = "half-open"

	// StatusClosed indicates a closed circuit state.
	StatusClosed = "closed"
)

// UI and display constants.
const (
	// CheckMarkSymbol is used to indicate current/active items.
	CheckMarkSymbol = "✓"

	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// None is used when no value is present.
	None = "none"

	// RedactedValue is used to hide sensitive information.
	RedactedValue = "[REDACTED]"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2

	// MessageDisplayLength is the default length for truncating messages.
	MessageDisplayLength = 60

	// PercentageMultiplier converts decimals to percentages.
	PercentageMultiplier = 100
)

// Boolean string constants.
const (
	// BooleanTrue string representation.
	BooleanTrue = "true"

	// BooleanFalse string representation.
	BooleanFalse = "false"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)

// Confirmation constants.
const (
	// ConfirmationYes for positive confirmations.
	ConfirmationYes = "yes"
)

// Command argument counts.
const (
	// TwoArgumentsRequired indicates commands requiring exactly 2 arguments.
	TwoArgumentsRequired = 2

	// KeyValueSplitParts is the number of parts when splitting key=value strings.
	KeyValueSplitParts = 2
)

// Multipart upload constants.
const (
	// PhotoSourceField is the multipart field name for photo uploads.
	PhotoSourceField = "source"

	// DefaultAlbumPath is the edge photos are uploaded to by default.
	DefaultAlbumPath = "me/photos"
)
