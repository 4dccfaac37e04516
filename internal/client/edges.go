package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/graph-client/internal/http"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
)

// EdgesClient implements graph.EdgesClient
type EdgesClient struct {
	httpClient *http.Client
	version    string
}

// NewEdgesClient creates a new edges client
func NewEdgesClient(httpClient *http.Client, version string) *EdgesClient {
	return &EdgesClient{
		httpClient: httpClient,
		version:    version,
	}
}

// List implements graph.EdgesClient.List
func (c *EdgesClient) List(ctx context.Context, id, edge string, params *graph.Params) (*graph.Edge[graph.Object], error) {
	return c.ListWithPath(ctx, id+"/"+edge, params)
}

// ListWithPath implements graph.EdgesClient.ListWithPath
func (c *EdgesClient) ListWithPath(ctx context.Context, path string, params *graph.Params) (*graph.Edge[graph.Object], error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, versionedPath(c.version, path), query)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", path, err)
	}

	var result graph.Edge[graph.Object]
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", path, err)
	}

	return &result, nil
}

// Publish implements graph.EdgesClient.Publish
func (c *EdgesClient) Publish(ctx context.Context, id, edge string, form url.Values) (*graph.ID, error) {
	if !c.httpClient.Authenticated() {
		return nil, graph.ErrAccessTokenRequired
	}

	path := versionedPath(c.version, id+"/"+edge)

	resp, err := c.httpClient.Post(ctx, path, form)
	if err != nil {
		return nil, fmt.Errorf("publishing to %s/%s: %w", id, edge, err)
	}

	var result graph.ID
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing publish response: %w", err)
	}

	return &result, nil
}
