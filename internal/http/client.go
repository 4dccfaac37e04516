// Package http provides the HTTP transport for Graph API requests.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/graph-client/internal/auth"
	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
	"github.com/hashicorp/go-retryablehttp"
)

// Request represents a Graph API request.
//
// Query carries URL parameters. Form carries a form-encoded body for
// publish operations. Body with ContentType carries a raw payload such
// as a multipart upload; the bytes are buffered so retries can replay
// them.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Form        url.Values
	Body        []byte
	ContentType string
	Headers     map[string]string
}

// Response represents a Graph API response. RequestURL is the URL that
// produced the response after any redirects, which picture endpoints
// answer with.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	RequestURL string
}

// Client is the HTTP client for Graph API requests.
type Client struct {
	baseURL      string
	tokenManager auth.TokenManager
	appSecret    string
	httpClient   *retryablehttp.Client
	logger       graph.Logger
	debug        bool
	userAgent    string
	interceptors *graph.InterceptorChain
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger graph.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithRetryConfig tunes the retry behavior for failed requests.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = maxRetries
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithHTTPTimeout overrides the default per-request timeout.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithHTTPClient replaces the underlying HTTP client. Used to install
// custom TLS configuration.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient = client
	}
}

// WithAppSecret enables appsecret_proof signing on every request.
func WithAppSecret(appSecret string) Option {
	return func(c *Client) {
		c.appSecret = appSecret
	}
}

// WithInterceptorChain installs an interceptor chain that runs around
// every request.
func WithInterceptorChain(chain *graph.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// Authenticated reports whether the client sends access tokens. Write
// operations are rejected by the resource clients when it returns false.
func (c *Client) Authenticated() bool {
	return c.tokenManager != nil
}

// NewClient creates a new Graph API HTTP client.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		tokenManager: tokenManager,
		httpClient:   retryClient,
		userAgent:    constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do performs an HTTP request against the Graph API.
//
// API-level failures are returned as a *graph.Error alongside the
// response so callers can inspect both.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	chainReq := &graph.Request{
		Method:   req.Method,
		Path:     req.Path,
		Headers:  make(http.Header),
		Metadata: make(map[string]interface{}),
	}

	if c.interceptors != nil {
		err := c.interceptors.ExecuteRequestInterceptors(ctx, chainReq)
		if err != nil {
			return nil, err
		}

		// A cached body short-circuits the network round trip.
		if cached, ok := chainReq.Metadata[graph.CachedResponseMetadataKey].([]byte); ok {
			return &Response{
				StatusCode: http.StatusOK,
				Headers:    make(http.Header),
				Body:       cached,
			}, nil
		}
	}

	httpReq, err := c.buildRequest(ctx, req, chainReq)
	if err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    httpReq.URL.String(),
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if httpResp.Request != nil && httpResp.Request.URL != nil {
		resp.RequestURL = httpResp.Request.URL.String()
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
		})
	}

	apiErr := c.responseError(resp)

	if c.interceptors != nil {
		chainResp := &graph.Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
			Error:      apiErr,
		}

		err = c.interceptors.ExecuteResponseInterceptors(ctx, chainReq, chainResp)
		if err != nil {
			return resp, err
		}
	}

	if apiErr != nil {
		return resp, apiErr
	}

	return resp, nil
}

// buildRequest assembles the outgoing HTTP request including
// authentication, the signed appsecret_proof, and headers contributed by
// interceptors.
func (c *Client) buildRequest(ctx context.Context, req *Request, chainReq *graph.Request) (*retryablehttp.Request, error) {
	query := make(url.Values)

	for key, values := range req.Query {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	token := ""

	if c.tokenManager != nil {
		var err error

		token, err = c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get token: %w", err)
		}
	}

	if token != "" && c.appSecret != "" {
		query.Set("appsecret_proof", auth.AppSecretProof(token, c.appSecret))
	}

	fullURL := c.baseURL + req.Path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	var (
		body        []byte
		contentType string
	)

	switch {
	case req.Form != nil:
		body = []byte(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.Body != nil:
		body = req.Body
		contentType = req.ContentType
	}

	var rawBody interface{}
	if body != nil {
		rawBody = body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	for key, values := range chainReq.Headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return httpReq, nil
}

// responseError extracts an API error from the response. The Graph API
// reports most failures with an error status, but some legacy endpoints
// answer 200 with an error envelope in the body.
func (c *Client) responseError(resp *Response) error {
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr, err := graph.ParseResponseError(resp.Body)
		if err != nil {
			return &graph.Error{
				Message: strings.TrimSpace(string(resp.Body)),
				Type:    graph.ErrorTypeGraphAPI,
				Code:    resp.StatusCode,
			}
		}

		return apiErr
	}

	if apiErr := graph.ErrorFromBody(resp.Body); apiErr != nil {
		return apiErr
	}

	return nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post performs a form-encoded POST request.
func (c *Client) Post(ctx context.Context, path string, form url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Form:   form,
	})
}

// PostMultipart performs a POST request with a prebuilt multipart body.
func (c *Client) PostMultipart(ctx context.Context, path string, contentType string, body []byte) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:      http.MethodPost,
		Path:        path,
		Body:        body,
		ContentType: contentType,
	})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodDelete,
		Path:   path,
	})
}
