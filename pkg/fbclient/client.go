// Package fbclient provides the main entry point for creating Facebook Graph API clients
package fbclient

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fivetwenty-io/graph-client/internal/client"
	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
)

// New creates a new Graph API client from the given config.
func New(ctx context.Context, config *graph.Config) (graph.Client, error) {
	if config == nil {
		return nil, graph.ErrConfigRequired
	}

	// Normalize the endpoint
	endpoint := strings.TrimSuffix(config.Endpoint, "/")
	if endpoint == "" {
		endpoint = constants.DefaultGraphEndpoint
	}

	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	config.Endpoint = endpoint

	if config.APIVersion != "" && !isSupportedVersion(config.APIVersion) {
		return nil, fmt.Errorf("%w: got %s", graph.ErrInvalidVersion, config.APIVersion)
	}

	// Only allow insecure TLS in explicit development environments
	if config.SkipTLSVerify && !isDevelopmentEnvironment() {
		return nil, fmt.Errorf("%w (set FBGRAPH_DEV_MODE=true)", graph.ErrSkipTLSOnlyInDev)
	}

	client, err := client.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return client, nil
}

// isSupportedVersion checks the configured version against the versions
// this client knows how to talk to.
func isSupportedVersion(version string) bool {
	version = strings.TrimPrefix(version, "v")

	for _, supported := range constants.SupportedAPIVersions {
		if version == supported {
			return true
		}
	}

	return false
}

// isDevelopmentEnvironment checks if we're in a development environment.
func isDevelopmentEnvironment() bool {
	devMode := os.Getenv("FBGRAPH_DEV_MODE")

	return devMode == "true" || devMode == "1"
}

// NewWithToken creates a new client with an access token against the
// default endpoint.
func NewWithToken(ctx context.Context, accessToken string) (graph.Client, error) {
	return New(ctx, &graph.Config{
		AccessToken: accessToken,
	})
}

// NewWithAppCredentials creates a new client that authenticates with an
// application access token obtained through client credentials.
func NewWithAppCredentials(ctx context.Context, appID, appSecret string) (graph.Client, error) {
	return New(ctx, &graph.Config{
		AppID:     appID,
		AppSecret: appSecret,
	})
}

// NewWithVersion creates a new client pinned to a specific API version.
func NewWithVersion(ctx context.Context, version, accessToken string) (graph.Client, error) {
	return New(ctx, &graph.Config{
		APIVersion:  version,
		AccessToken: accessToken,
	})
}

// NewUnauthenticated creates a client without credentials. Only public
// nodes are readable; write operations fail until a token is supplied.
func NewUnauthenticated(ctx context.Context) (graph.Client, error) {
	return New(ctx, &graph.Config{})
}
