package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/graph-client/internal/http"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
)

// RequestsClient implements graph.RequestsClient
type RequestsClient struct {
	httpClient *http.Client
	version    string
}

// NewRequestsClient creates a new requests client
func NewRequestsClient(httpClient *http.Client, version string) *RequestsClient {
	return &RequestsClient{
		httpClient: httpClient,
		version:    version,
	}
}

// Delete implements graph.RequestsClient.Delete. App requests are
// addressed as a composite "<request id>_<user id>" node.
func (c *RequestsClient) Delete(ctx context.Context, requestID, userID string) error {
	if !c.httpClient.Authenticated() {
		return graph.ErrAccessTokenRequired
	}

	path := versionedPath(c.version, requestID+"_"+userID)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting request %s for user %s: %w", requestID, userID, err)
	}

	return nil
}
