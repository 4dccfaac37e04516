package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error represents an error returned by the Graph API.
type Error struct {
	Message     string `json:"message"                    yaml:"message"`
	Type        string `json:"type,omitempty"             yaml:"type,omitempty"`
	Code        int    `json:"code,omitempty"             yaml:"code,omitempty"`
	Subcode     int    `json:"error_subcode,omitempty"    yaml:"error_subcode,omitempty"`
	UserTitle   string `json:"error_user_title,omitempty" yaml:"error_user_title,omitempty"`
	UserMessage string `json:"error_user_msg,omitempty"   yaml:"error_user_msg,omitempty"`
	FBTraceID   string `json:"fbtrace_id,omitempty"       yaml:"fbtrace_id,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorType := e.Type
	if errorType == "" {
		errorType = ErrorTypeGraphAPI
	}

	if e.Subcode != 0 {
		return fmt.Sprintf("%s: %s (code: %d, subcode: %d)", errorType, e.Message, e.Code, e.Subcode)
	}

	return fmt.Sprintf("%s: %s (code: %d)", errorType, e.Message, e.Code)
}

// Common error types reported by the API.
const (
	ErrorTypeGraphAPI    = "GraphAPIError"
	ErrorTypeOAuth       = "OAuthException"
	ErrorTypeGraphMethod = "GraphMethodException"
)

// Common error codes.
const (
	ErrorCodeUnknown          = 1
	ErrorCodeServiceTemporary = 2
	ErrorCodeAppThrottled     = 4
	ErrorCodePermissionDenied = 10
	ErrorCodeUserThrottled    = 17
	ErrorCodeInvalidParameter = 100
	ErrorCodeSessionInvalid   = 102
	ErrorCodeAccessToken      = 190
	ErrorCodePermissionBase   = 200
	ErrorCodePermissionMax    = 299
	ErrorCodeAccountBlocked   = 368
	ErrorCodeCustomThrottled  = 613
	ErrorCodeUnknownObject    = 803
)

// Access token error subcodes.
const (
	ErrorSubcodeAppNotInstalled = 458
	ErrorSubcodePasswordChanged = 460
	ErrorSubcodeExpired         = 463
	ErrorSubcodeInvalidated     = 467
)

// Common error types.
var (
	ErrTokenExpired  = &Error{Code: ErrorCodeAccessToken, Subcode: ErrorSubcodeExpired, Type: ErrorTypeOAuth}
	ErrTokenInvalid  = &Error{Code: ErrorCodeAccessToken, Type: ErrorTypeOAuth}
	ErrObjectMissing = &Error{Code: ErrorCodeUnknownObject, Type: ErrorTypeGraphMethod}
	ErrThrottled     = &Error{Code: ErrorCodeAppThrottled, Type: ErrorTypeGraphAPI}
	ErrPermission    = &Error{Code: ErrorCodePermissionDenied, Type: ErrorTypeGraphAPI}
)

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired           = errors.New("config is required")
	ErrInvalidVersion           = errors.New("valid API versions are 1.0, 2.0, 2.1, 2.2")
	ErrVersionNotAvailable      = errors.New("API version number not available")
	ErrFQLUnsupported           = errors.New("versions later than 2.0 don't support FQL")
	ErrAccessTokenRequired      = errors.New("write operations require an access token")
	ErrUnexpectedContentType    = errors.New("response content type was not JSON, an image, or a query string")
	ErrObjectIDRequired         = errors.New("at least one object ID is required")
	ErrFieldNotFound            = errors.New("field not found")
	ErrAppIDRequired            = errors.New("app ID is required")
	ErrAppSecretRequired        = errors.New("app secret is required")
	ErrSkipTLSOnlyInDev         = errors.New("skipTLS is only allowed in development environments")
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
	ErrCircuitBreakerOpen       = errors.New("circuit breaker is open")
	ErrNoMoreItems              = errors.New("no more items")
	ErrBatchEmpty               = errors.New("batch contains no requests")
	ErrNoLoginCookie            = errors.New("no Facebook login cookie found")
	ErrParsingCookie            = errors.New("error parsing fbsr cookie")
)

// Signed request validation errors.
var (
	ErrSignedRequestMalformed         = errors.New("signed request malformed")
	ErrSignedRequestCorruptedPayload  = errors.New("signed request had corrupted payload")
	ErrSignedRequestUnknownAlgorithm  = errors.New("signed request used unknown algorithm")
	ErrSignedRequestSignatureMismatch = errors.New("signed request had signature mismatch")
)

// IsOAuthError checks if the error is a token or session error.
func IsOAuthError(err error) bool {
	apiErr := &Error{}
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrorTypeOAuth ||
			apiErr.Code == ErrorCodeAccessToken ||
			apiErr.Code == ErrorCodeSessionInvalid
	}

	return false
}

// IsTokenExpired checks if the error indicates an expired or invalidated
// access token that a refresh could recover from.
func IsTokenExpired(err error) bool {
	apiErr := &Error{}
	if errors.As(err, &apiErr) {
		return apiErr.Code == ErrorCodeAccessToken &&
			(apiErr.Subcode == ErrorSubcodeExpired ||
				apiErr.Subcode == ErrorSubcodeInvalidated ||
				apiErr.Subcode == ErrorSubcodePasswordChanged)
	}

	return false
}

// IsRateLimited checks if the error is a throttling error.
func IsRateLimited(err error) bool {
	apiErr := &Error{}
	if errors.As(err, &apiErr) {
		return apiErr.Code == ErrorCodeAppThrottled ||
			apiErr.Code == ErrorCodeUserThrottled ||
			apiErr.Code == ErrorCodeCustomThrottled
	}

	return false
}

// IsNotFound checks if the error is an unknown object error.
func IsNotFound(err error) bool {
	apiErr := &Error{}
	if errors.As(err, &apiErr) {
		return apiErr.Code == ErrorCodeUnknownObject || apiErr.Type == ErrorTypeGraphMethod
	}

	return false
}

// IsPermissionError checks if the error is a permission error.
func IsPermissionError(err error) bool {
	apiErr := &Error{}
	if errors.As(err, &apiErr) {
		return apiErr.Code == ErrorCodePermissionDenied ||
			(apiErr.Code >= ErrorCodePermissionBase && apiErr.Code <= ErrorCodePermissionMax)
	}

	return false
}

// IsTransient checks if the error is worth retrying.
func IsTransient(err error) bool {
	apiErr := &Error{}
	if errors.As(err, &apiErr) {
		return apiErr.Code == ErrorCodeUnknown || apiErr.Code == ErrorCodeServiceTemporary
	}

	return IsRateLimited(err)
}

// errorEnvelope covers the wire shapes an error document can take: the
// modern {"error": {...}} envelope, the OAuth error_code/error_description
// pair, and the legacy REST error_msg shape.
type errorEnvelope struct {
	Error            json.RawMessage `json:"error"`
	ErrorCode        json.RawMessage `json:"error_code"`
	ErrorDescription string          `json:"error_description"`
	ErrorMsg         string          `json:"error_msg"`
}

func (e *errorEnvelope) resolve() *Error {
	if len(e.Error) > 0 && !bytes.Equal(e.Error, []byte("null")) {
		var apiErr Error
		if err := json.Unmarshal(e.Error, &apiErr); err == nil &&
			(apiErr.Message != "" || apiErr.Code != 0 || apiErr.Type != "") {
			return &apiErr
		}

		// Some legacy endpoints return the error as a bare string.
		var message string
		if err := json.Unmarshal(e.Error, &message); err == nil && message != "" {
			return &Error{Message: message}
		}
	}

	if e.ErrorDescription != "" {
		return &Error{Type: ErrorTypeOAuth, Message: e.ErrorDescription, Code: intFromRaw(e.ErrorCode)}
	}

	if e.ErrorMsg != "" {
		return &Error{Message: e.ErrorMsg, Code: intFromRaw(e.ErrorCode)}
	}

	if len(e.ErrorCode) > 0 {
		return &Error{Code: intFromRaw(e.ErrorCode)}
	}

	return nil
}

func intFromRaw(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	code, err := strconv.Atoi(strings.Trim(string(raw), `"`))
	if err != nil {
		return 0
	}

	return code
}

// ParseResponseError parses an error response from JSON. Payloads that
// match none of the known error shapes become an Error carrying the whole
// body as the message.
func ParseResponseError(data []byte) (*Error, error) {
	var envelope errorEnvelope

	err := json.Unmarshal(data, &envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal response error: %w", err)
	}

	apiErr := envelope.resolve()
	if apiErr == nil {
		return &Error{Message: strings.TrimSpace(string(data))}, nil
	}

	return apiErr, nil
}

// ErrorFromBody probes a success payload for an embedded error document.
// Some endpoints answer 200 OK with an error in the body; the transport
// treats those as failures. Returns nil when the payload holds no error.
func ErrorFromBody(data []byte) *Error {
	var envelope errorEnvelope

	err := json.Unmarshal(data, &envelope)
	if err != nil {
		return nil
	}

	return envelope.resolve()
}

// Test error variables for test files to comply with err113.
var (
	ErrObjectNotFound = errors.New("object not found")
	ErrSomeError      = errors.New("some error")
)
