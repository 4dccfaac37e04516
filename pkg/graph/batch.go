package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/fivetwenty-io/graph-client/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrUnsupportedResourceType  = errors.New("unsupported resource type")
	ErrUnsupportedOperationType = errors.New("unsupported operation type")
	ErrInvalidDataTypeObject    = errors.New("invalid data type for object operation")
	ErrInvalidDataTypePost      = errors.New("invalid data type for post operation")
	ErrInvalidDataTypeComment   = errors.New("invalid data type for comment operation")
	ErrInvalidDataTypeLike      = errors.New("invalid data type for like operation")
	ErrInvalidDataTypePhoto     = errors.New("invalid data type for photo operation")
	ErrTransactionFailed        = errors.New("transaction failed")
)

// MaxBatchSize is the largest number of requests the batch endpoint
// accepts in one call; larger sets are split by the client.
const MaxBatchSize = 50

// BatchRequest represents one request inside a server-side batch call.
// Requests are serialized into the batch form field as a JSON array.
type BatchRequest struct {
	Method                string `json:"method"                             yaml:"method"`
	RelativeURL           string `json:"relative_url"                       yaml:"relative_url"`
	Body                  string `json:"body,omitempty"                     yaml:"body,omitempty"`
	Name                  string `json:"name,omitempty"                     yaml:"name,omitempty"`
	OmitResponseOnSuccess *bool  `json:"omit_response_on_success,omitempty" yaml:"omit_response_on_success,omitempty"`
}

// BatchHeader represents one response header inside a batch response.
type BatchHeader struct {
	Name  string `json:"name"  yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// BatchResponse represents the outcome of one batched request. A null
// entry in the response array decodes to the zero value and means the
// request was skipped because a dependency failed.
type BatchResponse struct {
	Code    int           `json:"code"              yaml:"code"`
	Headers []BatchHeader `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    string        `json:"body,omitempty"    yaml:"body,omitempty"`
}

// Succeeded reports whether the batched request returned a 2xx status.
func (r *BatchResponse) Succeeded() bool {
	return r.Code >= http.StatusOK && r.Code < http.StatusMultipleChoices
}

// Err returns the API error carried in the body for failed requests, or
// nil for successful ones.
func (r *BatchResponse) Err() error {
	if r.Succeeded() {
		return nil
	}

	apiErr, err := ParseResponseError([]byte(r.Body))
	if err != nil {
		return fmt.Errorf("batch response failed with status %d: %w", r.Code, err)
	}

	return apiErr
}

// DecodeBody unmarshals the response body into v.
func (r *BatchResponse) DecodeBody(v interface{}) error {
	err := json.Unmarshal([]byte(r.Body), v)
	if err != nil {
		return fmt.Errorf("decoding batch response body: %w", err)
	}

	return nil
}

// Object decodes the response body as a generic Object.
func (r *BatchResponse) Object() (Object, error) {
	var obj Object

	err := r.DecodeBody(&obj)
	if err != nil {
		return nil, err
	}

	return obj, nil
}

// Batch accumulates requests for BatchClient.Execute.
type Batch struct {
	requests []*BatchRequest
}

// NewBatch creates an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Get appends a GET request for path. The name labels the request so
// later requests can reference its result with {result=name:$.field}.
func (b *Batch) Get(name, path string, params *Params) *Batch {
	rel := path

	if params != nil {
		if encoded := params.ToValues().Encode(); encoded != "" {
			rel += "?" + encoded
		}
	}

	b.requests = append(b.requests, &BatchRequest{Method: http.MethodGet, RelativeURL: rel, Name: name})

	return b
}

// Post appends a POST request with a form-encoded body.
func (b *Batch) Post(name, path string, form url.Values) *Batch {
	b.requests = append(b.requests, &BatchRequest{
		Method:      http.MethodPost,
		RelativeURL: path,
		Body:        form.Encode(),
		Name:        name,
	})

	return b
}

// Delete appends a DELETE request.
func (b *Batch) Delete(name, path string) *Batch {
	b.requests = append(b.requests, &BatchRequest{Method: http.MethodDelete, RelativeURL: path, Name: name})

	return b
}

// Requests returns the accumulated requests in insertion order.
func (b *Batch) Requests() []*BatchRequest {
	return b.requests
}

// BatchOperation represents a single operation in a batch.
type BatchOperation struct {
	ID       string
	Type     string // "get", "delete", "publish", "create", "upload"
	Resource string // "object", "post", "comment", "like", "photo"
	Data     interface{}
	Callback func(result *BatchResult)
}

// BatchResult represents the result of a batch operation.
type BatchResult struct {
	ID       string
	Success  bool
	Data     interface{}
	Error    error
	Duration time.Duration
}

// BatchPostData carries the inputs of a feed publish operation.
type BatchPostData struct {
	ProfileID string
	Request   *PostCreateRequest
}

// BatchCommentData carries the inputs of a comment create operation.
type BatchCommentData struct {
	ObjectID string
	Message  string
}

// BatchExecutor executes batch operations concurrently against a Client.
// Unlike BatchClient it issues ordinary requests, so each operation keeps
// full response fidelity (headers, typed decoding, retries).
type BatchExecutor struct {
	client      Client
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(client Client, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	return &BatchExecutor{
		client:      client,
		concurrency: concurrency,
		timeout:     constants.DefaultHTTPTimeout,
	}
}

// SetTimeout sets the timeout for batch operations.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs a batch of operations.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) ([]BatchResult, error) {
	results := make([]BatchResult, len(operations))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, b.concurrency)

	for index, operation := range operations {
		waitGroup.Add(1)

		go func(index int, operation BatchOperation) {
			defer waitGroup.Done()

			// Acquire semaphore
			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			// Execute operation with timeout
			opCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			start := time.Now()
			result := b.executeOperation(opCtx, operation)
			result.Duration = time.Since(start)
			results[index] = *result

			// Call callback if provided
			if operation.Callback != nil {
				operation.Callback(result)
			}
		}(index, operation)
	}

	waitGroup.Wait()

	return results, nil
}

// executeOperation executes a single operation.
func (b *BatchExecutor) executeOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	result := &BatchResult{
		ID: operation.ID,
	}

	switch operation.Resource {
	case "object":
		result = b.executeObjectOperation(ctx, operation)
	case "post":
		result = b.executePostOperation(ctx, operation)
	case "comment":
		result = b.executeCommentOperation(ctx, operation)
	case "like":
		result = b.executeLikeOperation(ctx, operation)
	case "photo":
		result = b.executePhotoOperation(ctx, operation)
	default:
		result.Success = false
		result.Error = fmt.Errorf("%w: %s", ErrUnsupportedResourceType, operation.Resource)
	}

	return result
}

// executeObjectOperation handles get and delete on arbitrary nodes.
func (b *BatchExecutor) executeObjectOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	result := &BatchResult{ID: operation.ID}

	objectID, ok := operation.Data.(string)
	if !ok {
		result.Error = fmt.Errorf("%w %s", ErrInvalidDataTypeObject, operation.Type)

		return result
	}

	switch operation.Type {
	case "get":
		data, err := b.client.Objects().Get(ctx, objectID, nil)
		result.Success = err == nil
		result.Data = data
		result.Error = err
	case "delete":
		err := b.client.Objects().Delete(ctx, objectID)
		result.Success = err == nil
		result.Error = err
	default:
		result.Error = fmt.Errorf("%w: %s", ErrUnsupportedOperationType, operation.Type)
	}

	return result
}

// executePostOperation handles feed publishes.
func (b *BatchExecutor) executePostOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	result := &BatchResult{ID: operation.ID}

	data, ok := operation.Data.(*BatchPostData)
	if !ok {
		result.Error = fmt.Errorf("%w %s", ErrInvalidDataTypePost, operation.Type)

		return result
	}

	if operation.Type != "publish" {
		result.Error = fmt.Errorf("%w: %s", ErrUnsupportedOperationType, operation.Type)

		return result
	}

	published, err := b.client.Feed().PublishPost(ctx, data.ProfileID, data.Request)
	result.Success = err == nil
	result.Data = published
	result.Error = err

	return result
}

// executeCommentOperation handles comment creation.
func (b *BatchExecutor) executeCommentOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	result := &BatchResult{ID: operation.ID}

	data, ok := operation.Data.(*BatchCommentData)
	if !ok {
		result.Error = fmt.Errorf("%w %s", ErrInvalidDataTypeComment, operation.Type)

		return result
	}

	if operation.Type != "create" {
		result.Error = fmt.Errorf("%w: %s", ErrUnsupportedOperationType, operation.Type)

		return result
	}

	created, err := b.client.Comments().Create(ctx, data.ObjectID, data.Message)
	result.Success = err == nil
	result.Data = created
	result.Error = err

	return result
}

// executeLikeOperation handles like create and delete.
func (b *BatchExecutor) executeLikeOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	result := &BatchResult{ID: operation.ID}

	objectID, ok := operation.Data.(string)
	if !ok {
		result.Error = fmt.Errorf("%w %s", ErrInvalidDataTypeLike, operation.Type)

		return result
	}

	switch operation.Type {
	case "create":
		err := b.client.Likes().Create(ctx, objectID)
		result.Success = err == nil
		result.Error = err
	case "delete":
		err := b.client.Likes().Delete(ctx, objectID)
		result.Success = err == nil
		result.Error = err
	default:
		result.Error = fmt.Errorf("%w: %s", ErrUnsupportedOperationType, operation.Type)
	}

	return result
}

// executePhotoOperation handles photo uploads.
func (b *BatchExecutor) executePhotoOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	result := &BatchResult{ID: operation.ID}

	request, ok := operation.Data.(*PhotoUploadRequest)
	if !ok {
		result.Error = fmt.Errorf("%w %s", ErrInvalidDataTypePhoto, operation.Type)

		return result
	}

	if operation.Type != "upload" {
		result.Error = fmt.Errorf("%w: %s", ErrUnsupportedOperationType, operation.Type)

		return result
	}

	uploaded, err := b.client.Photos().Upload(ctx, request)
	result.Success = err == nil
	result.Data = uploaded
	result.Error = err

	return result
}

// BatchBuilder helps build batch operations.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		operations: make([]BatchOperation, 0),
	}
}

// AddGetObject adds an object fetch operation.
func (b *BatchBuilder) AddGetObject(id, objectID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "get",
		Resource: "object",
		Data:     objectID,
	})

	return b
}

// AddDeleteObject adds an object deletion operation.
func (b *BatchBuilder) AddDeleteObject(id, objectID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "delete",
		Resource: "object",
		Data:     objectID,
	})

	return b
}

// AddPublishPost adds a feed publish operation.
func (b *BatchBuilder) AddPublishPost(id, profileID string, request *PostCreateRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "publish",
		Resource: "post",
		Data: &BatchPostData{
			ProfileID: profileID,
			Request:   request,
		},
	})

	return b
}

// AddCreateComment adds a comment creation operation.
func (b *BatchBuilder) AddCreateComment(id, objectID, message string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "create",
		Resource: "comment",
		Data: &BatchCommentData{
			ObjectID: objectID,
			Message:  message,
		},
	})

	return b
}

// AddCreateLike adds a like operation.
func (b *BatchBuilder) AddCreateLike(id, objectID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "create",
		Resource: "like",
		Data:     objectID,
	})

	return b
}

// AddDeleteLike adds a like removal operation.
func (b *BatchBuilder) AddDeleteLike(id, objectID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "delete",
		Resource: "like",
		Data:     objectID,
	})

	return b
}

// AddUploadPhoto adds a photo upload operation.
func (b *BatchBuilder) AddUploadPhoto(id string, request *PhotoUploadRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "upload",
		Resource: "photo",
		Data:     request,
	})

	return b
}

// AddOperation adds a custom operation.
func (b *BatchBuilder) AddOperation(operation BatchOperation) *BatchBuilder {
	b.operations = append(b.operations, operation)

	return b
}

// Build returns the built operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return b.operations
}

// BatchTransaction represents a transactional batch of operations.
type BatchTransaction struct {
	operations []BatchOperation
	results    []BatchResult
	executor   *BatchExecutor
	rollback   bool
}

// NewBatchTransaction creates a new batch transaction.
func NewBatchTransaction(executor *BatchExecutor) *BatchTransaction {
	return &BatchTransaction{
		executor:   executor,
		operations: make([]BatchOperation, 0),
		rollback:   true,
	}
}

// Add adds an operation to the transaction.
func (t *BatchTransaction) Add(operation BatchOperation) *BatchTransaction {
	t.operations = append(t.operations, operation)

	return t
}

// SetRollback sets whether to rollback on failure.
func (t *BatchTransaction) SetRollback(rollback bool) *BatchTransaction {
	t.rollback = rollback

	return t
}

// Execute executes the transaction.
func (t *BatchTransaction) Execute(ctx context.Context) ([]BatchResult, error) {
	results, err := t.executor.Execute(ctx, t.operations)
	t.results = results

	// Check for failures
	var failedOps []string

	for _, result := range results {
		if !result.Success {
			failedOps = append(failedOps, result.ID)
		}
	}

	// If there were failures and rollback is enabled
	if len(failedOps) > 0 && t.rollback {
		// Attempt to rollback successful operations
		t.performRollback(ctx)

		return results, fmt.Errorf("%w, %d operations failed: %v", ErrTransactionFailed, len(failedOps), failedOps)
	}

	return results, err
}

// performRollback deletes what the successful publish operations created.
// Deletions and likes on pre-existing objects cannot be restored and are
// left for manual intervention.
func (t *BatchTransaction) performRollback(ctx context.Context) {
	var rollbackOps []BatchOperation

	for index, result := range t.results {
		if !result.Success {
			continue
		}

		original := t.operations[index]

		switch original.Type {
		case "publish", "create", "upload":
			if original.Resource == "like" {
				if objectID, ok := original.Data.(string); ok {
					rollbackOps = append(rollbackOps, BatchOperation{
						ID:       "rollback_" + original.ID,
						Type:     "delete",
						Resource: "like",
						Data:     objectID,
					})
				}

				continue
			}

			if created, ok := result.Data.(*ID); ok && created != nil && created.ID != "" {
				rollbackOps = append(rollbackOps, BatchOperation{
					ID:       "rollback_" + original.ID,
					Type:     "delete",
					Resource: "object",
					Data:     created.ID,
				})
			}
		case "delete", "get":
			// Nothing to undo.
		}
	}

	// Execute rollback operations if any
	if len(rollbackOps) > 0 {
		_, _ = t.executor.Execute(ctx, rollbackOps)
	}
}
