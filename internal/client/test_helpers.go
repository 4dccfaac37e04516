package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/graph-client/internal/auth"
	"github.com/fivetwenty-io/graph-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/graph-client/internal/http"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
)

// NewTestClient creates a test client pointed at the given base URL,
// authenticated with a static test token.
func NewTestClient(baseURL string) *Client {
	return newTestClient(baseURL, auth.NewStaticTokenManager("test-token"))
}

// NewUnauthenticatedTestClient creates a test client without a token
// manager for exercising unauthenticated behavior.
func NewUnauthenticatedTestClient(baseURL string) *Client {
	return newTestClient(baseURL, nil)
}

// NewAppTestClient creates a test client carrying app credentials for
// exercising token grant operations.
func NewAppTestClient(baseURL, appID, appSecret string) *Client {
	client := newTestClient(baseURL, auth.NewStaticTokenManager("test-token"))
	client.config.AppID = appID
	client.config.AppSecret = appSecret

	return client
}

func newTestClient(baseURL string, tokenManager auth.TokenManager) *Client {
	client := &Client{
		config:       &graph.Config{Endpoint: baseURL},
		httpClient:   internalhttp.NewClient(baseURL, tokenManager),
		tokenManager: tokenManager,
		version:      constants.DefaultAPIVersion,
		usage:        graph.NewUsageTracker(),
	}

	client.initializeResourceClients()

	return client
}

// GraphErrorResponse builds the error envelope the API answers with.
func GraphErrorResponse(code int, errorType, message string) map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
			"type":    errorType,
			"code":    code,
		},
	}
}

// TestEdgeListOperation represents a generic edge list test case.
type TestEdgeListOperation[T any] struct {
	Name         string
	ExpectedPath string
	StatusCode   int
	Response     *graph.Edge[T]
	WantErr      bool
	ErrMessage   string
}

// RunEdgeListTests runs a series of edge list operation tests.
func RunEdgeListTests[T any](
	t *testing.T,
	tests []TestEdgeListOperation[T],
	listFunc func(*Client) func(context.Context) (*graph.Edge[T], error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, http.MethodGet, request.Method)

				writer.Header().Set("Content-Type", "application/json")
				writer.WriteHeader(testCase.StatusCode)

				if testCase.WantErr {
					_ = json.NewEncoder(writer).Encode(GraphErrorResponse(
						graph.ErrorCodeUnknownObject, graph.ErrorTypeGraphMethod, "Unsupported get request",
					))
				} else if testCase.Response != nil {
					_ = json.NewEncoder(writer).Encode(testCase.Response)
				}
			}))
			defer server.Close()

			client := NewTestClient(server.URL)

			listFn := listFunc(client)
			result, err := listFn(context.Background())

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
			}
		})
	}
}
