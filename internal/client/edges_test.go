package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/fivetwenty-io/graph-client/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdgesClient_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2.2/me/friends", r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"id": "100", "name": "Alice Example"},
				{"id": "200", "name": "Bob Example"},
			},
			"paging": map[string]interface{}{
				"cursors": map[string]interface{}{"after": "cursor-after"},
				"next":    "https://graph.example.com/v2.2/me/friends?after=cursor-after",
			},
		})
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	result, err := client.Edges().List(context.Background(), "me", "friends", graph.NewParams().WithLimit(25))
	require.NoError(t, err)
	assert.Len(t, result.Data, 2)
	assert.Equal(t, "Alice Example", result.Data[0]["name"])
	require.NotNil(t, result.Paging)
	assert.Equal(t, "cursor-after", result.Paging.Cursors.After)
	assert.NotEmpty(t, result.Paging.Next)
}

func TestEdgesClient_ListWithSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2.2/post-id/likes", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("summary"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data":    []map[string]interface{}{},
			"summary": map[string]interface{}{"total_count": 42},
		})
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	result, err := client.Edges().List(context.Background(), "post-id", "likes", graph.NewParams().WithSummary())
	require.NoError(t, err)
	require.NotNil(t, result.Summary)
	assert.Equal(t, 42, result.Summary.TotalCount)
}

func TestEdgesClient_ListWithPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2.2/me/friends", r.URL.Path)
		assert.Equal(t, "cursor-after", r.URL.Query().Get("after"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"id": "300", "name": "Carol Example"},
			},
		})
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	result, err := client.Edges().ListWithPath(context.Background(), "me/friends", graph.NewParams().WithAfter("cursor-after"))
	require.NoError(t, err)
	assert.Len(t, result.Data, 1)
	assert.Equal(t, "300", result.Data[0]["id"])
}

func TestEdgesClient_Publish(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2.2/100/feed", r.URL.Path)
		assert.Equal(t, "POST", r.Method)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Hello from the edge", r.PostForm.Get("message"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "100_900"})
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	result, err := client.Edges().Publish(context.Background(), "100", "feed", url.Values{
		"message": []string{"Hello from the edge"},
	})
	require.NoError(t, err)
	assert.Equal(t, "100_900", result.ID)
}

func TestEdgesClient_PublishRequiresToken(t *testing.T) {
	client := NewUnauthenticatedTestClient("http://graph.invalid")

	_, err := client.Edges().Publish(context.Background(), "100", "feed", url.Values{})
	require.ErrorIs(t, err, graph.ErrAccessTokenRequired)
}
