package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/graph-client/internal/http"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
)

// CommentsClient implements graph.CommentsClient
type CommentsClient struct {
	httpClient *http.Client
	version    string
}

// NewCommentsClient creates a new comments client
func NewCommentsClient(httpClient *http.Client, version string) *CommentsClient {
	return &CommentsClient{
		httpClient: httpClient,
		version:    version,
	}
}

// Create implements graph.CommentsClient.Create
func (c *CommentsClient) Create(ctx context.Context, objectID, message string) (*graph.ID, error) {
	if !c.httpClient.Authenticated() {
		return nil, graph.ErrAccessTokenRequired
	}

	path := versionedPath(c.version, objectID+"/comments")
	form := url.Values{"message": []string{message}}

	resp, err := c.httpClient.Post(ctx, path, form)
	if err != nil {
		return nil, fmt.Errorf("creating comment on %s: %w", objectID, err)
	}

	var result graph.ID
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing comment response: %w", err)
	}

	return &result, nil
}

// List implements graph.CommentsClient.List
func (c *CommentsClient) List(ctx context.Context, objectID string, params *graph.Params) (*graph.Edge[graph.Comment], error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	path := versionedPath(c.version, objectID+"/comments")

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("listing comments for %s: %w", objectID, err)
	}

	var result graph.Edge[graph.Comment]
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing comments response: %w", err)
	}

	return &result, nil
}
