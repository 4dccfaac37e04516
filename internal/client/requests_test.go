package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fivetwenty-io/graph-client/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestsClient_Delete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2.2/request-id_100", r.URL.Path)
		assert.Equal(t, "DELETE", r.Method)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	err := client.Requests().Delete(context.Background(), "request-id", "100")
	require.NoError(t, err)
}

func TestRequestsClient_DeleteRequiresToken(t *testing.T) {
	client := NewUnauthenticatedTestClient("http://graph.invalid")

	err := client.Requests().Delete(context.Background(), "request-id", "100")
	require.ErrorIs(t, err, graph.ErrAccessTokenRequired)
}
