package graph

import (
	"context"
	"net/http"
	"net/url"
)

// ObjectsClient provides access to arbitrary Graph nodes.
type ObjectsClient interface {
	Get(ctx context.Context, id string, params *Params) (Object, error)
	GetInto(ctx context.Context, id string, params *Params, v interface{}) error
	GetMany(ctx context.Context, ids []string, params *Params) (map[string]Object, error)
	GetPicture(ctx context.Context, id string, params *Params) (*Picture, error)
	Delete(ctx context.Context, id string) error
}

// EdgesClient provides access to the connections of a node. It satisfies
// EdgeLister[Object], so it plugs directly into the pagination helpers.
type EdgesClient interface {
	List(ctx context.Context, id, edge string, params *Params) (*Edge[Object], error)
	ListWithPath(ctx context.Context, path string, params *Params) (*Edge[Object], error)
	Publish(ctx context.Context, id, edge string, form url.Values) (*ID, error)
}

// FeedClient provides access to feed and wall posts.
type FeedClient interface {
	PublishPost(ctx context.Context, profileID string, request *PostCreateRequest) (*ID, error)
	List(ctx context.Context, profileID string, params *Params) (*Edge[Post], error)
}

// CommentsClient provides access to comments on objects.
type CommentsClient interface {
	Create(ctx context.Context, objectID, message string) (*ID, error)
	List(ctx context.Context, objectID string, params *Params) (*Edge[Comment], error)
}

// LikesClient provides access to likes on objects. Liking does not
// create a node, so Create reports only success or failure.
type LikesClient interface {
	Create(ctx context.Context, objectID string) error
	Delete(ctx context.Context, objectID string) error
	List(ctx context.Context, objectID string, params *Params) (*Edge[Object], error)
}

// PhotosClient provides access to photo uploads and albums.
type PhotosClient interface {
	Upload(ctx context.Context, request *PhotoUploadRequest) (*ID, error)
	List(ctx context.Context, albumID string, params *Params) (*Edge[Photo], error)
}

// RequestsClient provides access to app-to-user requests.
type RequestsClient interface {
	// Delete removes the request identified by requestID for the given
	// user. The API addresses these as a composite "<request>_<user>" node.
	Delete(ctx context.Context, requestID, userID string) error
}

// SearchClient provides access to Graph search.
type SearchClient interface {
	Search(ctx context.Context, query, objectType string, params *Params) (*Edge[Object], error)
}

// TokensClient provides access to token grants and inspection.
type TokensClient interface {
	AppToken(ctx context.Context) (*AccessToken, error)
	ExchangeCode(ctx context.Context, code, redirectURI string) (*AccessToken, error)
	Extend(ctx context.Context, token string) (*AccessToken, error)
	Debug(ctx context.Context, inputToken string) (*DebugTokenInfo, error)
	// FromCookie reads the fbsr_<app id> login cookie and returns its
	// payload, exchanging the embedded code for an access token when
	// validate is true.
	FromCookie(ctx context.Context, cookies []*http.Cookie, validate bool) (*SignedRequestPayload, error)
}

// FQLClient provides access to FQL queries on API versions up to 2.0.
type FQLClient interface {
	Query(ctx context.Context, query string) (*Edge[Object], error)
}

// BatchClient executes multiple Graph requests in one round trip.
type BatchClient interface {
	Execute(ctx context.Context, requests []*BatchRequest) ([]*BatchResponse, error)
}
