package graph_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/fivetwenty-io/graph-client/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger implements graph.Logger for testing
type testLogger struct {
	debugMessages []string
	errorMessages []string
}

func (l *testLogger) Debug(msg string, fields map[string]interface{}) {
	l.debugMessages = append(l.debugMessages, msg)
}

func (l *testLogger) Info(msg string, fields map[string]interface{}) {}

func (l *testLogger) Warn(msg string, fields map[string]interface{}) {}

func (l *testLogger) Error(msg string, fields map[string]interface{}) {
	l.errorMessages = append(l.errorMessages, msg)
}

func TestInterceptorChain(t *testing.T) {
	t.Parallel()

	chain := graph.NewInterceptorChain()

	var order []string

	chain.AddRequestInterceptor(func(ctx context.Context, req *graph.Request) error {
		order = append(order, "first")

		return nil
	})
	chain.AddRequestInterceptor(func(ctx context.Context, req *graph.Request) error {
		order = append(order, "second")

		return nil
	})
	chain.AddResponseInterceptor(func(ctx context.Context, req *graph.Request, resp *graph.Response) error {
		order = append(order, "response")

		return nil
	})

	ctx := context.Background()
	req := &graph.Request{Method: "GET", Path: "/v2.2/me"}

	err := chain.ExecuteRequestInterceptors(ctx, req)
	require.NoError(t, err)

	resp := &graph.Response{StatusCode: 200}
	err = chain.ExecuteResponseInterceptors(ctx, req, resp)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "response"}, order)
}

func TestInterceptorChain_RequestError(t *testing.T) {
	t.Parallel()

	chain := graph.NewInterceptorChain()

	chain.AddRequestInterceptor(func(ctx context.Context, req *graph.Request) error {
		return graph.ErrSomeError
	})

	secondRan := false

	chain.AddRequestInterceptor(func(ctx context.Context, req *graph.Request) error {
		secondRan = true

		return nil
	})

	err := chain.ExecuteRequestInterceptors(context.Background(), &graph.Request{Method: "GET", Path: "/v2.2/me"})
	require.Error(t, err)
	require.ErrorIs(t, err, graph.ErrSomeError)
	assert.Contains(t, err.Error(), "request interceptor failed")
	assert.False(t, secondRan)
}

func TestLoggingInterceptors(t *testing.T) {
	t.Parallel()

	logger := &testLogger{}

	reqInterceptor := graph.LoggingInterceptor(logger)
	respInterceptor := graph.LoggingResponseInterceptor(logger)

	ctx := context.Background()
	req := &graph.Request{Method: "GET", Path: "/v2.2/me"}

	require.NoError(t, reqInterceptor(ctx, req))
	require.NoError(t, respInterceptor(ctx, req, &graph.Response{StatusCode: 200}))
	require.NoError(t, respInterceptor(ctx, req, &graph.Response{StatusCode: 500, Error: graph.ErrSomeError}))

	assert.Equal(t, []string{"API Request", "API Response"}, logger.debugMessages)
	assert.Equal(t, []string{"API Response Error"}, logger.errorMessages)
}

func TestRateLimitInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := graph.RateLimitInterceptor(2)

	ctx := context.Background()
	req := &graph.Request{Method: "GET", Path: "/v2.2/me"}

	// The bucket starts full
	require.NoError(t, interceptor(ctx, req))
	require.NoError(t, interceptor(ctx, req))

	// With the bucket drained, a cancelled context aborts the wait
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	err := interceptor(cancelled, req)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDefaultRetryConfig(t *testing.T) {
	t.Parallel()

	config := graph.DefaultRetryConfig()
	assert.Equal(t, 3, config.MaxRetries)
	assert.Contains(t, config.RetryOnCodes, 429)
	assert.Contains(t, config.RetryOnCodes, 503)
}

func TestRetryResponseInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := graph.RetryResponseInterceptor(nil)

	ctx := context.Background()
	req := &graph.Request{Method: "GET", Path: "/v2.2/me"}

	// Retryable status codes get flagged for the transport
	resp := &graph.Response{StatusCode: 503}
	require.NoError(t, interceptor(ctx, req, resp))
	assert.Equal(t, "true", resp.Headers.Get("X-Should-Retry"))

	// Success responses are left alone
	resp = &graph.Response{StatusCode: 200, Headers: make(http.Header)}
	require.NoError(t, interceptor(ctx, req, resp))
	assert.Empty(t, resp.Headers.Get("X-Should-Retry"))
}

func TestAuthenticationInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := graph.AuthenticationInterceptor(func(ctx context.Context) (string, error) {
		return "test-token", nil
	})

	req := &graph.Request{Method: "GET", Path: "/v2.2/me"}
	require.NoError(t, interceptor(context.Background(), req))
	assert.Equal(t, "Bearer test-token", req.Headers.Get("Authorization"))
}

func TestAuthenticationInterceptor_Error(t *testing.T) {
	t.Parallel()

	interceptor := graph.AuthenticationInterceptor(func(ctx context.Context) (string, error) {
		return "", graph.ErrSomeError
	})

	err := interceptor(context.Background(), &graph.Request{Method: "GET", Path: "/v2.2/me"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get authentication token")
}

func TestHeaderInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := graph.HeaderInterceptor(map[string]string{
		"X-Custom-Header": "custom-value",
		"User-Agent":      "graph-client-test",
	})

	req := &graph.Request{Method: "GET", Path: "/v2.2/me"}
	require.NoError(t, interceptor(context.Background(), req))

	assert.Equal(t, "custom-value", req.Headers.Get("X-Custom-Header"))
	assert.Equal(t, "graph-client-test", req.Headers.Get("User-Agent"))
}

func TestMetricsInterceptors(t *testing.T) {
	t.Parallel()

	collector := graph.NewMetricsCollector()

	var changed string

	collector.SetOnChange(func(endpoint string, metrics *graph.Metrics) {
		changed = endpoint
	})

	reqInterceptor := graph.MetricsRequestInterceptor(collector)
	respInterceptor := graph.MetricsResponseInterceptor(collector)

	ctx := context.Background()
	req := &graph.Request{Method: "GET", Path: "/v2.2/me"}

	require.NoError(t, reqInterceptor(ctx, req))
	require.Contains(t, req.Metadata, "start_time")
	require.NoError(t, respInterceptor(ctx, req, &graph.Response{StatusCode: 200}))

	require.NoError(t, reqInterceptor(ctx, req))
	require.NoError(t, respInterceptor(ctx, req, &graph.Response{StatusCode: 500}))

	metrics := collector.GetMetrics("GET /v2.2/me")
	require.NotNil(t, metrics)
	assert.Equal(t, int64(2), metrics.TotalRequests)
	assert.Equal(t, int64(1), metrics.TotalErrors)
	assert.False(t, metrics.LastRequestTime.IsZero())
	assert.Equal(t, "GET /v2.2/me", changed)

	assert.Nil(t, collector.GetMetrics("GET /v2.2/unknown"))
}

func TestUsageTrackingInterceptor(t *testing.T) {
	t.Parallel()

	tracker := graph.NewUsageTracker()
	interceptor := graph.UsageTrackingInterceptor(tracker)

	ctx := context.Background()
	req := &graph.Request{Method: "GET", Path: "/v2.2/me"}

	headers := make(http.Header)
	headers.Set("X-App-Usage", `{"call_count":25,"total_time":12,"total_cputime":5}`)
	headers.Set("X-Page-Usage", `{"call_count":4,"total_time":2,"total_cputime":1}`)

	err := interceptor(ctx, req, &graph.Response{StatusCode: 200, Headers: headers})
	require.NoError(t, err)

	app := tracker.App()
	assert.Equal(t, 25, app.CallCount)
	assert.Equal(t, 12, app.TotalTime)
	assert.Equal(t, 5, app.TotalCPUTime)
	assert.Equal(t, 4, tracker.Page().CallCount)

	// Responses without usage headers leave the tracker untouched
	err = interceptor(ctx, req, &graph.Response{StatusCode: 200})
	require.NoError(t, err)
	assert.Equal(t, 25, tracker.App().CallCount)
}

func TestUsageTracker_Threshold(t *testing.T) {
	t.Parallel()

	tracker := graph.NewUsageTracker()

	var (
		gotHeader string
		gotStats  graph.UsageStats
	)

	tracker.SetOnThreshold(90, func(header string, stats graph.UsageStats) {
		gotHeader = header
		gotStats = stats
	})

	interceptor := graph.UsageTrackingInterceptor(tracker)
	ctx := context.Background()
	req := &graph.Request{Method: "GET", Path: "/v2.2/me"}

	// Below the threshold nothing fires
	headers := make(http.Header)
	headers.Set("X-App-Usage", `{"call_count":50,"total_time":10,"total_cputime":5}`)
	require.NoError(t, interceptor(ctx, req, &graph.Response{StatusCode: 200, Headers: headers}))
	assert.Empty(t, gotHeader)

	// Any dimension crossing the threshold fires the callback
	headers = make(http.Header)
	headers.Set("X-App-Usage", `{"call_count":10,"total_time":95,"total_cputime":5}`)
	require.NoError(t, interceptor(ctx, req, &graph.Response{StatusCode: 200, Headers: headers}))
	assert.Equal(t, "X-App-Usage", gotHeader)
	assert.Equal(t, 95, gotStats.TotalTime)
}

func TestUsageTracker_MalformedHeader(t *testing.T) {
	t.Parallel()

	tracker := graph.NewUsageTracker()
	interceptor := graph.UsageTrackingInterceptor(tracker)

	headers := make(http.Header)
	headers.Set("X-App-Usage", "not json")

	req := &graph.Request{Method: "GET", Path: "/v2.2/me"}
	err := interceptor(context.Background(), req, &graph.Response{StatusCode: 200, Headers: headers})
	require.NoError(t, err)
	assert.Zero(t, tracker.App().CallCount)
}

func TestCircuitBreaker(t *testing.T) {
	t.Parallel()

	breaker := graph.NewCircuitBreaker(&graph.CircuitBreakerConfig{
		Threshold:        2,
		Timeout:          50 * time.Millisecond,
		SuccessThreshold: 1,
	})

	reqInterceptor := graph.CircuitBreakerRequestInterceptor(breaker)
	respInterceptor := graph.CircuitBreakerResponseInterceptor(breaker)

	ctx := context.Background()
	req := &graph.Request{Method: "GET", Path: "/v2.2/me"}

	// Closed circuit lets requests through
	require.NoError(t, reqInterceptor(ctx, req))

	// Two failures open the circuit
	for range 2 {
		require.NoError(t, respInterceptor(ctx, req, &graph.Response{StatusCode: 500}))
	}

	err := reqInterceptor(ctx, req)
	require.ErrorIs(t, err, graph.ErrCircuitBreakerOpen)

	// After the timeout the breaker half-opens and lets a probe through
	time.Sleep(60 * time.Millisecond)
	require.NoError(t, reqInterceptor(ctx, req))

	// A success in half-open state closes the circuit again
	require.NoError(t, respInterceptor(ctx, req, &graph.Response{StatusCode: 200}))
	require.NoError(t, reqInterceptor(ctx, req))
}
