package graph

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const (
	signedRequestAlgorithm = "HMAC-SHA256"
	dialogOAuthURL         = "https://www.facebook.com/dialog/oauth"
	base64BlockSize        = 4
)

// ParseSignedRequest validates and decodes a signed_request value as
// delivered in the fbsr_<app id> cookie or the signed_request POST field.
// The signature is an HMAC-SHA256 of the encoded payload keyed with the
// app secret; payloads that fail validation are rejected.
func ParseSignedRequest(signedRequest, appSecret string) (*SignedRequestPayload, error) {
	if appSecret == "" {
		return nil, ErrAppSecretRequired
	}

	encodedSig, encodedPayload, found := strings.Cut(signedRequest, ".")
	if !found || encodedSig == "" || encodedPayload == "" {
		return nil, ErrSignedRequestMalformed
	}

	sig, err := decodeBase64URL(encodedSig)
	if err != nil {
		return nil, ErrSignedRequestCorruptedPayload
	}

	payloadBytes, err := decodeBase64URL(encodedPayload)
	if err != nil {
		return nil, ErrSignedRequestCorruptedPayload
	}

	var payload SignedRequestPayload

	err = json.Unmarshal(payloadBytes, &payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSignedRequestCorruptedPayload, err)
	}

	if !strings.EqualFold(payload.Algorithm, signedRequestAlgorithm) {
		return nil, ErrSignedRequestUnknownAlgorithm
	}

	// The signature covers the encoded payload, not the decoded JSON.
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write([]byte(encodedPayload))

	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil, ErrSignedRequestSignatureMismatch
	}

	var raw Object
	if err := json.Unmarshal(payloadBytes, &raw); err == nil {
		payload.Raw = raw
	}

	return &payload, nil
}

// decodeBase64URL decodes URL-safe base64 that may arrive without
// padding, restoring it to a multiple of four characters first.
func decodeBase64URL(input string) ([]byte, error) {
	if rem := len(input) % base64BlockSize; rem != 0 {
		input += strings.Repeat("=", base64BlockSize-rem)
	}

	data, err := base64.URLEncoding.DecodeString(input)
	if err != nil {
		return nil, fmt.Errorf("decoding base64url: %w", err)
	}

	return data, nil
}

// AuthURL builds the Facebook Login dialog URL for the given app and
// redirect URI. perms become the comma-joined scope parameter; extra
// values are appended verbatim.
func AuthURL(appID, redirectURI string, perms []string, extra url.Values) string {
	values := url.Values{}
	values.Set("client_id", appID)
	values.Set("redirect_uri", redirectURI)

	if len(perms) > 0 {
		values.Set("scope", strings.Join(perms, ","))
	}

	for key, vals := range extra {
		for _, val := range vals {
			values.Add(key, val)
		}
	}

	return dialogOAuthURL + "?" + values.Encode()
}

// NormalizeRedirectURI ensures the redirect URI has an explicit path so
// it compares equal to the value registered with the app: a bare host
// gains a trailing "/" while existing paths, queries, and fragments are
// preserved.
func NormalizeRedirectURI(redirectURI string) string {
	parsed, err := url.Parse(redirectURI)
	if err != nil || parsed.Host == "" {
		return redirectURI
	}

	if parsed.Path == "" {
		parsed.Path = "/"
	}

	return parsed.String()
}
