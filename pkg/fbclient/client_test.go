package fbclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fivetwenty-io/graph-client/pkg/fbclient"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("creates client with config", func(t *testing.T) {
		config := &graph.Config{
			AccessToken: "test-token",
		}

		client, err := fbclient.New(context.Background(), config)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("requires config", func(t *testing.T) {
		_, err := fbclient.New(context.Background(), nil)
		require.ErrorIs(t, err, graph.ErrConfigRequired)
	})

	t.Run("normalizes the endpoint", func(t *testing.T) {
		config := &graph.Config{
			Endpoint: "graph.example.com/",
		}

		_, err := fbclient.New(context.Background(), config)
		require.NoError(t, err)
		assert.Equal(t, "https://graph.example.com", config.Endpoint)
	})

	t.Run("accepts supported versions", func(t *testing.T) {
		for _, version := range []string{"1.0", "2.0", "2.1", "2.2", "v2.2"} {
			client, err := fbclient.New(context.Background(), &graph.Config{APIVersion: version})
			require.NoError(t, err, version)
			assert.NotNil(t, client)
		}
	})

	t.Run("rejects unknown versions", func(t *testing.T) {
		_, err := fbclient.New(context.Background(), &graph.Config{APIVersion: "2.9"})
		require.ErrorIs(t, err, graph.ErrInvalidVersion)
	})

	t.Run("rejects skip TLS outside development", func(t *testing.T) {
		t.Setenv("FBGRAPH_DEV_MODE", "")

		_, err := fbclient.New(context.Background(), &graph.Config{SkipTLSVerify: true})
		require.ErrorIs(t, err, graph.ErrSkipTLSOnlyInDev)
	})

	t.Run("allows skip TLS in development mode", func(t *testing.T) {
		t.Setenv("FBGRAPH_DEV_MODE", "true")

		client, err := fbclient.New(context.Background(), &graph.Config{SkipTLSVerify: true})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestNewWithToken(t *testing.T) {
	t.Parallel()

	client, err := fbclient.NewWithToken(context.Background(), "test-token")
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewWithAppCredentials(t *testing.T) {
	t.Parallel()

	client, err := fbclient.NewWithAppCredentials(context.Background(), "123456", "app-secret")
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewWithVersion(t *testing.T) {
	t.Parallel()

	client, err := fbclient.NewWithVersion(context.Background(), "2.1", "test-token")
	require.NoError(t, err)
	assert.Equal(t, "2.1", client.Version())

	_, err = fbclient.NewWithVersion(context.Background(), "3.0", "test-token")
	require.ErrorIs(t, err, graph.ErrInvalidVersion)
}

func TestNewUnauthenticated(t *testing.T) {
	t.Parallel()

	client, err := fbclient.NewUnauthenticated(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestClientIntegration(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/v2.2/me":
			assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))

			writer.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"id":   "100",
				"name": "Alice Example",
			})
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := fbclient.New(context.Background(), &graph.Config{
		Endpoint:    server.URL,
		AccessToken: "test-token",
	})
	require.NoError(t, err)

	me, err := client.Objects().Get(context.Background(), "me", nil)
	require.NoError(t, err)
	assert.Equal(t, "100", me.ID())
	assert.Equal(t, "Alice Example", me["name"])
}
