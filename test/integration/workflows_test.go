//go:build integration
// +build integration

package integration

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/fivetwenty-io/graph-client/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPublishWorkflow_CompleteContentJourney publishes a post and walks it
// through the full comment, like, and delete lifecycle.
func TestPublishWorkflow_CompleteContentJourney(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingToken(t)
	config.SkipIfWritesDisabled(t)

	client := NewTestClient(t, config)
	ctx := context.Background()

	// 1. Publish a post to the test account's wall
	message := GenerateTestMessage("Integration workflow post")
	post, err := client.Feed().PublishPost(ctx, "me", &graph.PostCreateRequest{
		Message: message,
	})
	require.NoError(t, err, "Failed to publish post")
	require.NotEmpty(t, post.ID)

	defer CleanupObject(t, client, post.ID)

	// 2. Read the post back and verify the message round-tripped
	fetched, err := client.Objects().Get(ctx, post.ID, graph.NewParams().WithFields("id", "message"))
	require.NoError(t, err, "Failed to read back post %s", post.ID)
	assert.Equal(t, message, fetched.GetString("message"))

	// 3. Comment on the post
	comment, err := client.Comments().Create(ctx, post.ID, GenerateTestMessage("Workflow comment"))
	require.NoError(t, err, "Failed to create comment")
	require.NotEmpty(t, comment.ID)

	// 4. Verify the comment appears on the comments edge
	comments, err := client.Comments().List(ctx, post.ID, nil)
	require.NoError(t, err, "Failed to list comments")

	found := false

	for _, c := range comments.Data {
		if c.ID == comment.ID {
			found = true

			break
		}
	}

	assert.True(t, found, "Created comment %s not found on post", comment.ID)

	// 5. Like the post, then remove the like
	require.NoError(t, client.Likes().Create(ctx, post.ID), "Failed to like post")
	require.NoError(t, client.Likes().Delete(ctx, post.ID), "Failed to unlike post")

	// 6. Delete the comment
	require.NoError(t, client.Objects().Delete(ctx, comment.ID), "Failed to delete comment")

	// 7. Delete the post itself; the deferred cleanup then becomes a no-op
	require.NoError(t, client.Objects().Delete(ctx, post.ID), "Failed to delete post")
}

// TestBatchWorkflow_PublishAndReadBack exercises the batch endpoint with a
// publish followed by a dependent read in the same round trip.
func TestBatchWorkflow_PublishAndReadBack(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingToken(t)
	config.SkipIfWritesDisabled(t)

	client := NewTestClient(t, config)
	ctx := context.Background()

	message := GenerateTestMessage("Batch workflow post")

	// 1. Build a batch that publishes a post and reads it back by reference
	requests := []*graph.BatchRequest{
		{
			Method:      http.MethodPost,
			RelativeURL: "me/feed",
			Body:        url.Values{"message": {message}}.Encode(),
			Name:        "create",
		},
		{
			Method:      http.MethodGet,
			RelativeURL: "{result=create:$.id}?fields=id,message",
		},
	}

	responses, err := client.Batch().Execute(ctx, requests)
	require.NoError(t, err, "Batch execution failed")
	require.Len(t, responses, 2)

	// 2. The publish must succeed and yield an object ID
	require.NotNil(t, responses[0])
	require.True(t, responses[0].Succeeded(), "Publish failed: %v", responses[0].Err())

	created, err := responses[0].Object()
	require.NoError(t, err)
	require.NotEmpty(t, created.ID())

	defer CleanupObject(t, client, created.ID())

	// 3. The dependent read resolves the reference to the new post
	require.NotNil(t, responses[1], "Dependent request was skipped")
	require.True(t, responses[1].Succeeded(), "Read-back failed: %v", responses[1].Err())

	readBack, err := responses[1].Object()
	require.NoError(t, err)
	assert.Equal(t, created.ID(), readBack.ID())
}

// TestTokenWorkflow_ExtendAndDebug extends the test token and inspects the
// long-lived replacement through the debug endpoint.
func TestTokenWorkflow_ExtendAndDebug(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingToken(t)
	config.SkipIfMissingAppCredentials(t)

	client := NewAppTestClient(t, config)
	ctx := context.Background()

	// 1. Exchange the short-lived token for a long-lived one
	extended, err := client.Tokens().Extend(ctx, config.AccessToken)
	require.NoError(t, err, "Failed to extend token")
	require.NotEmpty(t, extended.Value)

	// 2. Inspect the extended token
	info, err := client.Tokens().Debug(ctx, extended.Value)
	require.NoError(t, err, "Failed to debug extended token")
	assert.True(t, info.IsValid)
	assert.Equal(t, config.AppID, info.AppID)
	assert.NotEmpty(t, info.UserID)
}

// TestPaginationWorkflow_ReadAllPages pages through an edge three different
// ways and checks the strategies agree on the totals.
func TestPaginationWorkflow_ReadAllPages(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingToken(t)

	client := NewTestClient(t, config)
	ctx := context.Background()

	options := &graph.PaginationOptions{PageSize: 10, MaxPages: 5}

	// 1. Collect everything through the iterator
	iterator := graph.NewEdgeIterator[graph.Object](ctx, client.Edges(), "me/permissions", graph.NewParams().WithLimit(10))
	fromIterator, err := iterator.All()
	require.NoError(t, err, "Iterator failed")

	// 2. Collect the same edge through FetchAllEdges
	fromFetch, err := graph.FetchAllEdges[graph.Object](ctx, client.Edges(), "me/permissions", nil, options)
	require.NoError(t, err, "FetchAllEdges failed")
	assert.Len(t, fromFetch, len(fromIterator))

	// 3. Stream pages over a channel and count the items
	streamed := 0

	for result := range graph.StreamPages[graph.Object](ctx, client.Edges(), "me/permissions", nil, options) {
		require.NoError(t, result.Err, "Streaming failed")

		streamed += len(result.Items)
	}

	assert.Equal(t, len(fromIterator), streamed)
}
