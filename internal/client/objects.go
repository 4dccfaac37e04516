package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/graph-client/internal/http"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
)

// ObjectsClient implements graph.ObjectsClient
type ObjectsClient struct {
	httpClient *http.Client
	version    string
}

// NewObjectsClient creates a new objects client
func NewObjectsClient(httpClient *http.Client, version string) *ObjectsClient {
	return &ObjectsClient{
		httpClient: httpClient,
		version:    version,
	}
}

// Get implements graph.ObjectsClient.Get
func (c *ObjectsClient) Get(ctx context.Context, id string, params *graph.Params) (graph.Object, error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	path := versionedPath(c.version, id)

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("getting object %s: %w", id, err)
	}

	var object graph.Object
	if err := json.Unmarshal(resp.Body, &object); err != nil {
		return nil, fmt.Errorf("parsing object response: %w", err)
	}

	return object, nil
}

// GetInto implements graph.ObjectsClient.GetInto
func (c *ObjectsClient) GetInto(ctx context.Context, id string, params *graph.Params, v interface{}) error {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	path := versionedPath(c.version, id)

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return fmt.Errorf("getting object %s: %w", id, err)
	}

	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("parsing object response: %w", err)
	}

	return nil
}

// GetMany implements graph.ObjectsClient.GetMany. The API reads multiple
// nodes in one call when their IDs arrive comma-joined on the version
// root.
func (c *ObjectsClient) GetMany(ctx context.Context, ids []string, params *graph.Params) (map[string]graph.Object, error) {
	if len(ids) == 0 {
		return nil, graph.ErrObjectIDRequired
	}

	query := url.Values{}
	if params != nil {
		query = params.ToValues()
	}

	query.Set("ids", strings.Join(ids, ","))

	resp, err := c.httpClient.Get(ctx, versionedPath(c.version, ""), query)
	if err != nil {
		return nil, fmt.Errorf("getting objects: %w", err)
	}

	var objects map[string]graph.Object
	if err := json.Unmarshal(resp.Body, &objects); err != nil {
		return nil, fmt.Errorf("parsing objects response: %w", err)
	}

	return objects, nil
}

// GetPicture implements graph.ObjectsClient.GetPicture. The picture edge
// redirects to the image itself, so a successful response carries raw
// image bytes; with redirect=false it answers with a JSON envelope
// naming the URL instead.
func (c *ObjectsClient) GetPicture(ctx context.Context, id string, params *graph.Params) (*graph.Picture, error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	path := versionedPath(c.version, id+"/picture")

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("getting picture for %s: %w", id, err)
	}

	contentType := resp.Headers.Get("Content-Type")

	switch {
	case strings.HasPrefix(contentType, "image/"):
		return &graph.Picture{
			Data:     resp.Body,
			MimeType: contentType,
			URL:      resp.RequestURL,
		}, nil
	case strings.HasPrefix(contentType, "application/json"), strings.HasPrefix(contentType, "text/javascript"):
		var envelope struct {
			Data struct {
				URL          string `json:"url"`
				IsSilhouette bool   `json:"is_silhouette"`
			} `json:"data"`
		}

		if err := json.Unmarshal(resp.Body, &envelope); err != nil {
			return nil, fmt.Errorf("parsing picture response: %w", err)
		}

		return &graph.Picture{URL: envelope.Data.URL}, nil
	default:
		return nil, graph.ErrUnexpectedContentType
	}
}

// Delete implements graph.ObjectsClient.Delete
func (c *ObjectsClient) Delete(ctx context.Context, id string) error {
	if !c.httpClient.Authenticated() {
		return graph.ErrAccessTokenRequired
	}

	path := versionedPath(c.version, id)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting object %s: %w", id, err)
	}

	return nil
}
