//go:build integration
// +build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/fivetwenty-io/graph-client/pkg/fbclient"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	AccessToken string
	AppID       string
	AppSecret   string
	Endpoint    string
	APIVersion  string
	AllowWrites bool
	Verbose     bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		AccessToken: os.Getenv("FBGRAPH_TEST_TOKEN"),
		AppID:       os.Getenv("FBGRAPH_TEST_APP_ID"),
		AppSecret:   os.Getenv("FBGRAPH_TEST_APP_SECRET"),
		Endpoint:    os.Getenv("FBGRAPH_TEST_ENDPOINT"),
		APIVersion:  os.Getenv("FBGRAPH_TEST_API_VERSION"),
		AllowWrites: os.Getenv("FBGRAPH_TEST_ALLOW_WRITES") == "true",
		Verbose:     os.Getenv("FBGRAPH_TEST_VERBOSE") == "true",
	}
}

// SkipIfMissingToken skips the test when no user token is configured
func (config *TestConfig) SkipIfMissingToken(t *testing.T) {
	t.Helper()

	if config.AccessToken == "" {
		t.Skip("FBGRAPH_TEST_TOKEN not set, skipping integration test")
	}
}

// SkipIfMissingAppCredentials skips the test when no app credentials are configured
func (config *TestConfig) SkipIfMissingAppCredentials(t *testing.T) {
	t.Helper()

	if config.AppID == "" || config.AppSecret == "" {
		t.Skip("FBGRAPH_TEST_APP_ID or FBGRAPH_TEST_APP_SECRET not set, skipping integration test")
	}
}

// SkipIfWritesDisabled skips tests that publish content to the test account
func (config *TestConfig) SkipIfWritesDisabled(t *testing.T) {
	t.Helper()

	if !config.AllowWrites {
		t.Skip("FBGRAPH_TEST_ALLOW_WRITES not set to true, skipping publishing test")
	}
}

// NewTestClient creates a Graph client from the test configuration
func NewTestClient(t *testing.T, config *TestConfig) graph.Client {
	t.Helper()

	graphConfig := &graph.Config{
		Endpoint:    config.Endpoint,
		AccessToken: config.AccessToken,
		AppID:       config.AppID,
		AppSecret:   config.AppSecret,
		APIVersion:  config.APIVersion,
	}

	client, err := fbclient.New(context.Background(), graphConfig)
	if err != nil {
		t.Fatalf("Failed to create Graph client: %v", err)
	}

	return client
}

// NewAppTestClient creates a client authenticated with app credentials only
func NewAppTestClient(t *testing.T, config *TestConfig) graph.Client {
	t.Helper()

	client, err := fbclient.NewWithAppCredentials(context.Background(), config.AppID, config.AppSecret)
	if err != nil {
		t.Fatalf("Failed to create app client: %v", err)
	}

	return client
}

// GenerateTestMessage creates a unique message for published test content
func GenerateTestMessage(prefix string) string {
	return fmt.Sprintf("%s %d", prefix, time.Now().Unix())
}

// CleanupObject attempts to delete a published test object
func CleanupObject(t *testing.T, client graph.Client, objectID string) {
	t.Helper()

	if objectID == "" {
		return
	}

	err := client.Objects().Delete(context.Background(), objectID)
	if err != nil {
		t.Logf("Cleanup warning for object %s: %v", objectID, err)
	}
}

// WaitForCondition waits for a condition to be met with timeout
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, message string) {
	t.Helper()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	timeoutChan := time.After(timeout)

	for {
		select {
		case <-ticker.C:
			if condition() {
				return
			}
		case <-timeoutChan:
			t.Fatalf("Timeout waiting for condition: %s", message)
		}
	}
}
