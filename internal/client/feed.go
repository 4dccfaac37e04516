package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/fivetwenty-io/graph-client/internal/http"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
)

// FeedClient implements graph.FeedClient
type FeedClient struct {
	httpClient *http.Client
	version    string
}

// NewFeedClient creates a new feed client
func NewFeedClient(httpClient *http.Client, version string) *FeedClient {
	return &FeedClient{
		httpClient: httpClient,
		version:    version,
	}
}

// PublishPost implements graph.FeedClient.PublishPost
func (c *FeedClient) PublishPost(ctx context.Context, profileID string, request *graph.PostCreateRequest) (*graph.ID, error) {
	if !c.httpClient.Authenticated() {
		return nil, graph.ErrAccessTokenRequired
	}

	if profileID == "" {
		profileID = "me"
	}

	path := versionedPath(c.version, profileID+"/feed")

	resp, err := c.httpClient.Post(ctx, path, postForm(request))
	if err != nil {
		return nil, fmt.Errorf("publishing post: %w", err)
	}

	var result graph.ID
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing post response: %w", err)
	}

	return &result, nil
}

// List implements graph.FeedClient.List
func (c *FeedClient) List(ctx context.Context, profileID string, params *graph.Params) (*graph.Edge[graph.Post], error) {
	if profileID == "" {
		profileID = "me"
	}

	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	path := versionedPath(c.version, profileID+"/feed")

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("listing feed: %w", err)
	}

	var result graph.Edge[graph.Post]
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing feed response: %w", err)
	}

	return &result, nil
}

// postForm encodes a post request into the form fields the feed edge
// accepts.
func postForm(request *graph.PostCreateRequest) url.Values {
	form := url.Values{}

	if request == nil {
		return form
	}

	if request.Message != "" {
		form.Set("message", request.Message)
	}

	if request.Link != "" {
		form.Set("link", request.Link)
	}

	if request.Name != "" {
		form.Set("name", request.Name)
	}

	if request.Caption != "" {
		form.Set("caption", request.Caption)
	}

	if request.Description != "" {
		form.Set("description", request.Description)
	}

	if request.Picture != "" {
		form.Set("picture", request.Picture)
	}

	if request.Place != "" {
		form.Set("place", request.Place)
	}

	if len(request.Tags) > 0 {
		form.Set("tags", strings.Join(request.Tags, ","))
	}

	if request.Published != nil {
		if *request.Published {
			form.Set("published", constants.BooleanTrue)
		} else {
			form.Set("published", constants.BooleanFalse)
		}
	}

	return form
}
