package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/fivetwenty-io/graph-client/internal/client"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestNew(t *testing.T) {
	t.Parallel()
	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), nil)
		require.ErrorIs(t, err, graph.ErrConfigRequired)
	})

	t.Run("defaults the endpoint", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &graph.Config{})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("creates client with access token", func(t *testing.T) {
		t.Parallel()

		config := &graph.Config{
			Endpoint:    "https://graph.example.com",
			AccessToken: "test-token",
		}

		client, err := New(context.Background(), config)
		require.NoError(t, err)
		assert.NotNil(t, client)
		assert.NotNil(t, client.GetTokenManager())
	})

	t.Run("creates client with app credentials", func(t *testing.T) {
		t.Parallel()

		config := &graph.Config{
			Endpoint:  "https://graph.example.com",
			AppID:     "123456",
			AppSecret: "app-secret",
		}

		client, err := New(context.Background(), config)
		require.NoError(t, err)
		assert.NotNil(t, client)
		assert.NotNil(t, client.GetTokenManager())
	})

	t.Run("creates client without authentication", func(t *testing.T) {
		t.Parallel()

		config := &graph.Config{
			Endpoint: "https://graph.example.com",
		}

		client, err := New(context.Background(), config)
		require.NoError(t, err)
		assert.NotNil(t, client)
		assert.Nil(t, client.GetTokenManager())
	})
}

func TestClient_Version(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		configured string
		want       string
	}{
		{name: "default", configured: "", want: "2.2"},
		{name: "plain", configured: "2.1", want: "2.1"},
		{name: "v prefix", configured: "v2.0", want: "2.0"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			client, err := New(context.Background(), &graph.Config{APIVersion: testCase.configured})
			require.NoError(t, err)
			assert.Equal(t, testCase.want, client.Version())
		})
	}
}

func TestClient_DiscoverVersion(t *testing.T) {
	t.Parallel()
	t.Run("reads the version header", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v2.2/me", request.URL.Path)
			assert.Equal(t, "id", request.URL.Query().Get("fields"))

			writer.Header().Set("Facebook-Api-Version", "v2.2")
			writer.Header().Set("Content-Type", "application/json")
			// An unauthenticated probe fails, but the header is still set.
			writer.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(writer).Encode(GraphErrorResponse(
				graph.ErrorCodeAccessToken, graph.ErrorTypeOAuth, "An access token is required",
			))
		}))
		defer server.Close()

		client, err := New(context.Background(), &graph.Config{Endpoint: server.URL})
		require.NoError(t, err)

		version, err := client.DiscoverVersion(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "2.2", version)
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_, _ = writer.Write([]byte(`{"id": "100"}`))
		}))
		defer server.Close()

		client, err := New(context.Background(), &graph.Config{Endpoint: server.URL})
		require.NoError(t, err)

		_, err = client.DiscoverVersion(context.Background())
		require.ErrorIs(t, err, graph.ErrVersionNotAvailable)
	})
}

func TestClient_Usage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("X-App-Usage", `{"call_count": 25, "total_time": 10, "total_cputime": 5}`)
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"id": "100"}`))
	}))
	defer server.Close()

	client, err := New(context.Background(), &graph.Config{Endpoint: server.URL, AccessToken: "test-token"})
	require.NoError(t, err)

	_, err = client.Objects().Get(context.Background(), "100", nil)
	require.NoError(t, err)

	usage := client.Usage()
	assert.Equal(t, 25, usage.CallCount)
	assert.Equal(t, 10, usage.TotalTime)
	assert.Equal(t, 5, usage.TotalCPUTime)
}

func TestClient_GetToken(t *testing.T) {
	t.Parallel()
	t.Run("returns the managed token", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &graph.Config{AccessToken: "test-token"})
		require.NoError(t, err)

		token, err := client.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "test-token", token)
	})

	t.Run("without token manager", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &graph.Config{})
		require.NoError(t, err)

		_, err = client.GetToken(context.Background())
		require.ErrorIs(t, err, ErrNoTokenManagerConfigured)
	})
}

func TestClient_ResourceAccessors(t *testing.T) {
	t.Parallel()

	client, err := New(context.Background(), &graph.Config{AccessToken: "test-token"})
	require.NoError(t, err)

	assert.NotNil(t, client.Objects())
	assert.NotNil(t, client.Edges())
	assert.NotNil(t, client.Feed())
	assert.NotNil(t, client.Comments())
	assert.NotNil(t, client.Likes())
	assert.NotNil(t, client.Photos())
	assert.NotNil(t, client.Requests())
	assert.NotNil(t, client.Search())
	assert.NotNil(t, client.Tokens())
	assert.NotNil(t, client.FQL())
	assert.NotNil(t, client.Batch())
}
