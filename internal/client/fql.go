package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/fivetwenty-io/graph-client/internal/http"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
)

// FQLClient implements graph.FQLClient
type FQLClient struct {
	httpClient *http.Client
	version    string
}

// NewFQLClient creates a new FQL client
func NewFQLClient(httpClient *http.Client, version string) *FQLClient {
	return &FQLClient{
		httpClient: httpClient,
		version:    version,
	}
}

// Query implements graph.FQLClient.Query. FQL was removed after API
// version 2.0, so newer configured versions are rejected before sending.
func (c *FQLClient) Query(ctx context.Context, query string) (*graph.Edge[graph.Object], error) {
	if !versionSupportsFQL(c.version) {
		return nil, graph.ErrFQLUnsupported
	}

	values := url.Values{}
	values.Set("q", query)

	resp, err := c.httpClient.Get(ctx, versionedPath(c.version, "fql"), values)
	if err != nil {
		return nil, fmt.Errorf("running fql query: %w", err)
	}

	var result graph.Edge[graph.Object]
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing fql response: %w", err)
	}

	return &result, nil
}

func versionSupportsFQL(version string) bool {
	current, err := strconv.ParseFloat(version, 64)
	if err != nil {
		return false
	}

	maxVersion, err := strconv.ParseFloat(constants.MaxFQLVersion, 64)
	if err != nil {
		return false
	}

	return current <= maxVersion
}
