package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/graph-client/internal/http"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
)

// SearchClient implements graph.SearchClient
type SearchClient struct {
	httpClient *http.Client
	version    string
}

// NewSearchClient creates a new search client
func NewSearchClient(httpClient *http.Client, version string) *SearchClient {
	return &SearchClient{
		httpClient: httpClient,
		version:    version,
	}
}

// Search implements graph.SearchClient.Search
func (c *SearchClient) Search(ctx context.Context, query, objectType string, params *graph.Params) (*graph.Edge[graph.Object], error) {
	values := url.Values{}
	if params != nil {
		values = params.ToValues()
	}

	values.Set("q", query)
	values.Set("type", objectType)

	resp, err := c.httpClient.Get(ctx, versionedPath(c.version, "search"), values)
	if err != nil {
		return nil, fmt.Errorf("searching for %s: %w", objectType, err)
	}

	var result graph.Edge[graph.Object]
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	return &result, nil
}
