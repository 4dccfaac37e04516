package graph_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/fivetwenty-io/graph-client/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient implements graph.Client for testing
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Objects() graph.ObjectsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(graph.ObjectsClient)
}

func (m *MockClient) Edges() graph.EdgesClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(graph.EdgesClient)
}

func (m *MockClient) Search() graph.SearchClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(graph.SearchClient)
}

func (m *MockClient) Feed() graph.FeedClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(graph.FeedClient)
}

func (m *MockClient) Comments() graph.CommentsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(graph.CommentsClient)
}

func (m *MockClient) Likes() graph.LikesClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(graph.LikesClient)
}

func (m *MockClient) Photos() graph.PhotosClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(graph.PhotosClient)
}

func (m *MockClient) Requests() graph.RequestsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(graph.RequestsClient)
}

func (m *MockClient) Tokens() graph.TokensClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(graph.TokensClient)
}

func (m *MockClient) FQL() graph.FQLClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(graph.FQLClient)
}

func (m *MockClient) Batch() graph.BatchClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(graph.BatchClient)
}

func (m *MockClient) Version() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) DiscoverVersion(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockClient) Usage() graph.UsageStats {
	args := m.Called()
	return args.Get(0).(graph.UsageStats)
}

// MockObjectsClient implements graph.ObjectsClient for testing
type MockObjectsClient struct {
	mock.Mock
}

func (m *MockObjectsClient) Get(ctx context.Context, id string, params *graph.Params) (graph.Object, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(graph.Object), args.Error(1)
}

func (m *MockObjectsClient) GetInto(ctx context.Context, id string, params *graph.Params, v interface{}) error {
	args := m.Called(ctx, id, params, v)
	return args.Error(0)
}

func (m *MockObjectsClient) GetMany(ctx context.Context, ids []string, params *graph.Params) (map[string]graph.Object, error) {
	args := m.Called(ctx, ids, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]graph.Object), args.Error(1)
}

func (m *MockObjectsClient) GetPicture(ctx context.Context, id string, params *graph.Params) (*graph.Picture, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*graph.Picture), args.Error(1)
}

func (m *MockObjectsClient) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockFeedClient implements graph.FeedClient for testing
type MockFeedClient struct {
	mock.Mock
}

func (m *MockFeedClient) PublishPost(ctx context.Context, profileID string, request *graph.PostCreateRequest) (*graph.ID, error) {
	args := m.Called(ctx, profileID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*graph.ID), args.Error(1)
}

func (m *MockFeedClient) List(ctx context.Context, profileID string, params *graph.Params) (*graph.Edge[graph.Post], error) {
	args := m.Called(ctx, profileID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*graph.Edge[graph.Post]), args.Error(1)
}

// MockCommentsClient implements graph.CommentsClient for testing
type MockCommentsClient struct {
	mock.Mock
}

func (m *MockCommentsClient) Create(ctx context.Context, objectID, message string) (*graph.ID, error) {
	args := m.Called(ctx, objectID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*graph.ID), args.Error(1)
}

func (m *MockCommentsClient) List(ctx context.Context, objectID string, params *graph.Params) (*graph.Edge[graph.Comment], error) {
	args := m.Called(ctx, objectID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*graph.Edge[graph.Comment]), args.Error(1)
}

// MockLikesClient implements graph.LikesClient for testing
type MockLikesClient struct {
	mock.Mock
}

func (m *MockLikesClient) Create(ctx context.Context, objectID string) error {
	args := m.Called(ctx, objectID)
	return args.Error(0)
}

func (m *MockLikesClient) Delete(ctx context.Context, objectID string) error {
	args := m.Called(ctx, objectID)
	return args.Error(0)
}

func (m *MockLikesClient) List(ctx context.Context, objectID string, params *graph.Params) (*graph.Edge[graph.Object], error) {
	args := m.Called(ctx, objectID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*graph.Edge[graph.Object]), args.Error(1)
}

// MockPhotosClient implements graph.PhotosClient for testing
type MockPhotosClient struct {
	mock.Mock
}

func (m *MockPhotosClient) Upload(ctx context.Context, request *graph.PhotoUploadRequest) (*graph.ID, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*graph.ID), args.Error(1)
}

func (m *MockPhotosClient) List(ctx context.Context, albumID string, params *graph.Params) (*graph.Edge[graph.Photo], error) {
	args := m.Called(ctx, albumID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*graph.Edge[graph.Photo]), args.Error(1)
}

func TestBatch_Requests(t *testing.T) {
	form := url.Values{}
	form.Set("message", "hello")

	batch := graph.NewBatch().
		Get("profile", "me", graph.NewParams().WithFields("id", "name")).
		Post("post", "me/feed", form).
		Delete("cleanup", "123")

	requests := batch.Requests()
	require.Len(t, requests, 3)

	assert.Equal(t, http.MethodGet, requests[0].Method)
	assert.Equal(t, "me?fields=id%2Cname", requests[0].RelativeURL)
	assert.Equal(t, "profile", requests[0].Name)

	assert.Equal(t, http.MethodPost, requests[1].Method)
	assert.Equal(t, "me/feed", requests[1].RelativeURL)
	assert.Equal(t, "message=hello", requests[1].Body)

	assert.Equal(t, http.MethodDelete, requests[2].Method)
	assert.Equal(t, "123", requests[2].RelativeURL)
}

func TestBatchResponse_Succeeded(t *testing.T) {
	ok := &graph.BatchResponse{Code: 200, Body: `{"id": "123"}`}
	assert.True(t, ok.Succeeded())
	assert.NoError(t, ok.Err())

	obj, err := ok.Object()
	require.NoError(t, err)
	assert.Equal(t, "123", obj.ID())

	failed := &graph.BatchResponse{
		Code: 400,
		Body: `{"error": {"message": "Unsupported get request", "type": "GraphMethodException", "code": 100}}`,
	}
	assert.False(t, failed.Succeeded())

	apiErr := &graph.Error{}
	require.ErrorAs(t, failed.Err(), &apiErr)
	assert.Equal(t, 100, apiErr.Code)
	assert.Equal(t, "GraphMethodException", apiErr.Type)

	garbled := &graph.BatchResponse{Code: 500, Body: `<html>`}
	require.Error(t, garbled.Err())
	assert.Contains(t, garbled.Err().Error(), "batch response failed with status 500")
}

func TestBatchExecutor_Execute(t *testing.T) {
	mockClient := &MockClient{}
	mockObjects := &MockObjectsClient{}
	mockClient.On("Objects").Return(mockObjects)

	executor := graph.NewBatchExecutor(mockClient, 2)
	ctx := context.Background()

	// Set up mock expectations
	user1 := graph.Object{"id": "100", "name": "Test User 1"}
	user2 := graph.Object{"id": "200", "name": "Test User 2"}

	mockObjects.On("Get", mock.Anything, "100", mock.Anything).Return(user1, nil)
	mockObjects.On("Get", mock.Anything, "200", mock.Anything).Return(user2, nil)

	operations := []graph.BatchOperation{
		{
			ID:       "op1",
			Type:     "get",
			Resource: "object",
			Data:     "100",
		},
		{
			ID:       "op2",
			Type:     "get",
			Resource: "object",
			Data:     "200",
		},
	}

	results, err := executor.Execute(ctx, operations)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// Check results
	for _, result := range results {
		assert.True(t, result.Success)
		assert.NoError(t, result.Error)
		assert.NotNil(t, result.Data)
		assert.True(t, result.Duration > 0)
	}

	mockClient.AssertExpectations(t)
	mockObjects.AssertExpectations(t)
}

func TestBatchExecutor_WithCallback(t *testing.T) {
	mockClient := &MockClient{}
	mockObjects := &MockObjectsClient{}
	mockClient.On("Objects").Return(mockObjects)

	executor := graph.NewBatchExecutor(mockClient, 1)
	ctx := context.Background()

	user := graph.Object{"id": "100", "name": "Test User"}
	mockObjects.On("Get", mock.Anything, "100", mock.Anything).Return(user, nil)

	var callbackCalled bool
	var callbackResult *graph.BatchResult

	operation := graph.BatchOperation{
		ID:       "op1",
		Type:     "get",
		Resource: "object",
		Data:     "100",
		Callback: func(result *graph.BatchResult) {
			callbackCalled = true
			callbackResult = result
		},
	}

	_, err := executor.Execute(ctx, []graph.BatchOperation{operation})
	require.NoError(t, err)

	assert.True(t, callbackCalled)
	assert.NotNil(t, callbackResult)
	assert.True(t, callbackResult.Success)
	assert.Equal(t, "op1", callbackResult.ID)

	mockClient.AssertExpectations(t)
	mockObjects.AssertExpectations(t)
}

func TestBatchExecutor_WithError(t *testing.T) {
	mockClient := &MockClient{}
	mockObjects := &MockObjectsClient{}
	mockClient.On("Objects").Return(mockObjects)

	executor := graph.NewBatchExecutor(mockClient, 1)
	ctx := context.Background()

	mockObjects.On("Get", mock.Anything, "100", mock.Anything).Return(nil, graph.ErrObjectNotFound)

	operation := graph.BatchOperation{
		ID:       "op1",
		Type:     "get",
		Resource: "object",
		Data:     "100",
	}

	results, err := executor.Execute(ctx, []graph.BatchOperation{operation})
	require.NoError(t, err) // Execute itself shouldn't fail
	assert.Len(t, results, 1)

	result := results[0]
	assert.False(t, result.Success)
	assert.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "object not found")

	mockClient.AssertExpectations(t)
	mockObjects.AssertExpectations(t)
}

func TestBatchBuilder(t *testing.T) {
	builder := graph.NewBatchBuilder()

	postReq := &graph.PostCreateRequest{
		Message: "hello world",
	}

	builder.
		AddPublishPost("publish-1", "me", postReq).
		AddCreateComment("comment-1", "post-id", "nice").
		AddCreateLike("like-1", "post-id").
		AddGetObject("get-1", "object-to-get").
		AddDeleteObject("delete-1", "object-to-delete")

	operations := builder.Build()
	assert.Len(t, operations, 5)

	assert.Equal(t, "publish-1", operations[0].ID)
	assert.Equal(t, "publish", operations[0].Type)
	assert.Equal(t, "post", operations[0].Resource)

	assert.Equal(t, "comment-1", operations[1].ID)
	assert.Equal(t, "create", operations[1].Type)
	assert.Equal(t, "comment", operations[1].Resource)

	assert.Equal(t, "like-1", operations[2].ID)
	assert.Equal(t, "create", operations[2].Type)
	assert.Equal(t, "like", operations[2].Resource)

	assert.Equal(t, "get-1", operations[3].ID)
	assert.Equal(t, "get", operations[3].Type)

	assert.Equal(t, "delete-1", operations[4].ID)
	assert.Equal(t, "delete", operations[4].Type)
}

func TestBatchExecutor_UnsupportedResource(t *testing.T) {
	mockClient := &MockClient{}
	executor := graph.NewBatchExecutor(mockClient, 1)
	executor.SetTimeout(1 * time.Millisecond)

	operation := graph.BatchOperation{
		ID:       "op1",
		Type:     "get",
		Resource: "unsupported",
		Data:     "test",
	}

	ctx := context.Background()
	results, err := executor.Execute(ctx, []graph.BatchOperation{operation})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	result := results[0]
	assert.False(t, result.Success)
	assert.Error(t, result.Error)
}

func TestBatchTransaction_Rollback(t *testing.T) {
	mockClient := &MockClient{}
	mockObjects := &MockObjectsClient{}
	mockFeed := &MockFeedClient{}
	mockComments := &MockCommentsClient{}
	mockClient.On("Objects").Return(mockObjects)
	mockClient.On("Feed").Return(mockFeed)
	mockClient.On("Comments").Return(mockComments)

	executor := graph.NewBatchExecutor(mockClient, 1)
	transaction := graph.NewBatchTransaction(executor)
	ctx := context.Background()

	// The publish succeeds, the comment fails, and the rollback deletes
	// what the publish created.
	published := &graph.ID{ID: "100_200"}
	mockFeed.On("PublishPost", mock.Anything, "me", mock.Anything).Return(published, nil)
	mockComments.On("Create", mock.Anything, "100_200", "first").Return(nil, graph.ErrSomeError)
	mockObjects.On("Delete", mock.Anything, "100_200").Return(nil)

	transaction.
		Add(graph.BatchOperation{
			ID:       "publish-1",
			Type:     "publish",
			Resource: "post",
			Data: &graph.BatchPostData{
				ProfileID: "me",
				Request:   &graph.PostCreateRequest{Message: "hello"},
			},
		}).
		Add(graph.BatchOperation{
			ID:       "comment-1",
			Type:     "create",
			Resource: "comment",
			Data: &graph.BatchCommentData{
				ObjectID: "100_200",
				Message:  "first",
			},
		})

	results, err := transaction.Execute(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction failed")
	assert.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)

	mockObjects.AssertCalled(t, "Delete", mock.Anything, "100_200")
}
