package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/graph-client/internal/http"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
)

// LikesClient implements graph.LikesClient
type LikesClient struct {
	httpClient *http.Client
	version    string
}

// NewLikesClient creates a new likes client
func NewLikesClient(httpClient *http.Client, version string) *LikesClient {
	return &LikesClient{
		httpClient: httpClient,
		version:    version,
	}
}

// Create implements graph.LikesClient.Create. The likes edge answers
// with a success envelope rather than a node ID.
func (c *LikesClient) Create(ctx context.Context, objectID string) error {
	if !c.httpClient.Authenticated() {
		return graph.ErrAccessTokenRequired
	}

	path := versionedPath(c.version, objectID+"/likes")

	_, err := c.httpClient.Post(ctx, path, url.Values{})
	if err != nil {
		return fmt.Errorf("liking %s: %w", objectID, err)
	}

	return nil
}

// Delete implements graph.LikesClient.Delete
func (c *LikesClient) Delete(ctx context.Context, objectID string) error {
	if !c.httpClient.Authenticated() {
		return graph.ErrAccessTokenRequired
	}

	path := versionedPath(c.version, objectID+"/likes")

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("unliking %s: %w", objectID, err)
	}

	return nil
}

// List implements graph.LikesClient.List
func (c *LikesClient) List(ctx context.Context, objectID string, params *graph.Params) (*graph.Edge[graph.Object], error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	path := versionedPath(c.version, objectID+"/likes")

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("listing likes for %s: %w", objectID, err)
	}

	var result graph.Edge[graph.Object]
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing likes response: %w", err)
	}

	return &result, nil
}
