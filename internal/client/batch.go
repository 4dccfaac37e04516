package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/fivetwenty-io/graph-client/internal/http"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
)

// BatchClient implements graph.BatchClient
type BatchClient struct {
	httpClient *http.Client
	version    string
}

// NewBatchClient creates a new batch client
func NewBatchClient(httpClient *http.Client, version string) *BatchClient {
	return &BatchClient{
		httpClient: httpClient,
		version:    version,
	}
}

// Execute implements graph.BatchClient.Execute. The batch endpoint
// accepts at most graph.MaxBatchSize requests per call, so larger sets
// are split and the responses stitched back together in order.
func (c *BatchClient) Execute(ctx context.Context, requests []*graph.BatchRequest) ([]*graph.BatchResponse, error) {
	if !c.httpClient.Authenticated() {
		return nil, graph.ErrAccessTokenRequired
	}

	if len(requests) == 0 {
		return nil, graph.ErrBatchEmpty
	}

	responses := make([]*graph.BatchResponse, 0, len(requests))

	for start := 0; start < len(requests); start += graph.MaxBatchSize {
		end := start + graph.MaxBatchSize
		if end > len(requests) {
			end = len(requests)
		}

		chunk, err := c.executeChunk(ctx, requests[start:end])
		if err != nil {
			return nil, err
		}

		responses = append(responses, chunk...)
	}

	return responses, nil
}

func (c *BatchClient) executeChunk(ctx context.Context, requests []*graph.BatchRequest) ([]*graph.BatchResponse, error) {
	encoded, err := json.Marshal(requests)
	if err != nil {
		return nil, fmt.Errorf("encoding batch: %w", err)
	}

	form := url.Values{}
	form.Set("batch", string(encoded))
	form.Set("include_headers", constants.BooleanFalse)

	resp, err := c.httpClient.Post(ctx, versionedPath(c.version, ""), form)
	if err != nil {
		return nil, fmt.Errorf("executing batch: %w", err)
	}

	var result []*graph.BatchResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing batch response: %w", err)
	}

	// A null entry stays nil: it means the request was skipped because a
	// dependency failed, or its response was omitted on success.
	return result, nil
}
