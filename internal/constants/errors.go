package constants

import "errors"

// Client and configuration errors.
var (
	ErrNoProfilesConfigured = errors.New("no profiles configured, use 'fbgraph profiles add' to add one")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrNoEndpoint           = errors.New("no Graph API endpoint provided")
	ErrSSLOnlyInDev         = errors.New("skipSSL is only allowed in development environments (set FBGRAPH_DEV_MODE=true)")
	ErrNotAuthenticated     = errors.New("not authenticated. Use 'fbgraph login' to authenticate first")
	ErrNoAppCredentials     = errors.New("no app credentials configured, set app_id and app_secret")
	ErrNoStoredToken        = errors.New("no access token stored for this profile, please run 'fbgraph login' again")
	ErrFailedRetrieveToken  = errors.New("failed to retrieve refreshed token")
)

// Validation errors.
var (
	ErrInvalidOutputFormat = errors.New("invalid output format, expected json, yaml, or table")
	ErrInvalidBooleanFlag  = errors.New("flag must be 'true' or 'false'")
	ErrMessageRequired     = errors.New("message is required")
	ErrObjectIDRequired    = errors.New("object ID is required")
	ErrFileRequired        = errors.New("file path is required")
	ErrEmptyBatchFile      = errors.New("batch file contains no requests")
)

// File system errors.
var (
	ErrNotRegularFile             = errors.New("path is not a regular file")
	ErrDirectoryTraversalDetected = errors.New("directory traversal detected in file path")
)
