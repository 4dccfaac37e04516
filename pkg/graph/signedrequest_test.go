package graph_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/fivetwenty-io/graph-client/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeSignedRequest forges a signed request the way Facebook does:
// base64url without padding, signature over the encoded payload.
func makeSignedRequest(t *testing.T, secret string, payload map[string]interface{}) string {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	encodedPayload := base64.RawURLEncoding.EncodeToString(data)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(encodedPayload))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	return sig + "." + encodedPayload
}

func TestParseSignedRequest(t *testing.T) {
	t.Parallel()

	signedRequest := makeSignedRequest(t, "app-secret", map[string]interface{}{
		"algorithm":   "HMAC-SHA256",
		"user_id":     "100",
		"oauth_token": "token123",
		"issued_at":   1405437085,
		"app_data":    "deep-link",
	})

	payload, err := graph.ParseSignedRequest(signedRequest, "app-secret")
	require.NoError(t, err)
	assert.Equal(t, "HMAC-SHA256", payload.Algorithm)
	assert.Equal(t, "100", payload.UserID)
	assert.Equal(t, "token123", payload.OAuthToken)
	assert.Equal(t, int64(1405437085), payload.IssuedAt)
	assert.Equal(t, "deep-link", payload.AppData)

	// The raw payload is kept for fields the typed view does not cover
	require.NotNil(t, payload.Raw)
	assert.Equal(t, "100", payload.Raw.GetString("user_id"))
}

func TestParseSignedRequest_PageContext(t *testing.T) {
	t.Parallel()

	signedRequest := makeSignedRequest(t, "app-secret", map[string]interface{}{
		"algorithm": "HMAC-SHA256",
		"page": map[string]interface{}{
			"id":    "200",
			"liked": true,
			"admin": false,
		},
	})

	payload, err := graph.ParseSignedRequest(signedRequest, "app-secret")
	require.NoError(t, err)
	require.NotNil(t, payload.Page)
	assert.Equal(t, "200", payload.Page.ID)
	assert.True(t, payload.Page.Liked)
	assert.False(t, payload.Page.Admin)
}

func TestParseSignedRequest_CaseInsensitiveAlgorithm(t *testing.T) {
	t.Parallel()

	signedRequest := makeSignedRequest(t, "app-secret", map[string]interface{}{
		"algorithm": "hmac-sha256",
		"user_id":   "100",
	})

	payload, err := graph.ParseSignedRequest(signedRequest, "app-secret")
	require.NoError(t, err)
	assert.Equal(t, "100", payload.UserID)
}

func TestParseSignedRequest_MissingSecret(t *testing.T) {
	t.Parallel()

	_, err := graph.ParseSignedRequest("sig.payload", "")
	require.ErrorIs(t, err, graph.ErrAppSecretRequired)
}

func TestParseSignedRequest_Malformed(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"nodothere",
		".payloadonly",
		"sigonly.",
	}

	for _, input := range inputs {
		_, err := graph.ParseSignedRequest(input, "app-secret")
		require.ErrorIs(t, err, graph.ErrSignedRequestMalformed, "input %q", input)
	}
}

func TestParseSignedRequest_UnknownAlgorithm(t *testing.T) {
	t.Parallel()

	signedRequest := makeSignedRequest(t, "app-secret", map[string]interface{}{
		"algorithm": "MD5",
		"user_id":   "100",
	})

	_, err := graph.ParseSignedRequest(signedRequest, "app-secret")
	require.ErrorIs(t, err, graph.ErrSignedRequestUnknownAlgorithm)
}

func TestParseSignedRequest_SignatureMismatch(t *testing.T) {
	t.Parallel()

	signedRequest := makeSignedRequest(t, "other-secret", map[string]interface{}{
		"algorithm": "HMAC-SHA256",
		"user_id":   "100",
	})

	_, err := graph.ParseSignedRequest(signedRequest, "app-secret")
	require.ErrorIs(t, err, graph.ErrSignedRequestSignatureMismatch)
}

func TestParseSignedRequest_CorruptedPayload(t *testing.T) {
	t.Parallel()

	// Not base64 at all
	_, err := graph.ParseSignedRequest("sig.!!!", "app-secret")
	require.ErrorIs(t, err, graph.ErrSignedRequestCorruptedPayload)

	// Valid base64 but not JSON
	junk := base64.RawURLEncoding.EncodeToString([]byte("not json"))
	_, err = graph.ParseSignedRequest("sig."+junk, "app-secret")
	require.ErrorIs(t, err, graph.ErrSignedRequestCorruptedPayload)
}

func TestAuthURL(t *testing.T) {
	t.Parallel()

	authURL := graph.AuthURL("123456", "https://example.com/callback",
		[]string{"email", "public_profile"},
		url.Values{"state": []string{"opaque"}})

	require.True(t, strings.HasPrefix(authURL, "https://www.facebook.com/dialog/oauth?"))

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)

	query := parsed.Query()
	assert.Equal(t, "123456", query.Get("client_id"))
	assert.Equal(t, "https://example.com/callback", query.Get("redirect_uri"))
	assert.Equal(t, "email,public_profile", query.Get("scope"))
	assert.Equal(t, "opaque", query.Get("state"))
}

func TestAuthURL_NoPerms(t *testing.T) {
	t.Parallel()

	authURL := graph.AuthURL("123456", "https://example.com/callback", nil, nil)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)

	query := parsed.Query()
	assert.Equal(t, "123456", query.Get("client_id"))
	assert.NotContains(t, query, "scope")
}

func TestNormalizeRedirectURI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare host gains trailing slash",
			input:    "https://example.com",
			expected: "https://example.com/",
		},
		{
			name:     "existing path preserved",
			input:    "https://example.com/callback",
			expected: "https://example.com/callback",
		},
		{
			name:     "query preserved",
			input:    "https://example.com?next=1",
			expected: "https://example.com/?next=1",
		},
		{
			name:     "relative value passed through",
			input:    "not-a-url",
			expected: "not-a-url",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, graph.NormalizeRedirectURI(tt.input))
		})
	}
}
