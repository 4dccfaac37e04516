package graph

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Object represents a Graph API node as a generic key/value document.
//
// Graph nodes are schemaless: the fields returned depend on the node type
// and the requested field list. Object keeps the raw decoded JSON and
// offers typed accessors; Decode re-marshals into a caller-provided
// struct when a typed view is preferred.
type Object map[string]interface{}

// ID returns the node's "id" field, or an empty string.
func (o Object) ID() string {
	return o.GetString("id")
}

// GetString returns the named field as a string, or "".
func (o Object) GetString(key string) string {
	if value, ok := o[key].(string); ok {
		return value
	}

	return ""
}

// GetInt returns the named field as an int64, or 0. JSON numbers decode as
// float64; numeric strings are converted as well because the API returns
// some counters quoted.
func (o Object) GetInt(key string) int64 {
	switch value := o[key].(type) {
	case float64:
		return int64(value)
	case string:
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0
		}

		return parsed
	default:
		return 0
	}
}

// GetBool returns the named field as a bool, or false.
func (o Object) GetBool(key string) bool {
	if value, ok := o[key].(bool); ok {
		return value
	}

	return false
}

// GetObject returns the named field as a nested Object, or nil.
func (o Object) GetObject(key string) Object {
	if value, ok := o[key].(map[string]interface{}); ok {
		return Object(value)
	}

	return nil
}

// GetTime parses the named field using the timestamp layouts the API emits.
func (o Object) GetTime(key string) (time.Time, error) {
	raw := o.GetString(key)
	if raw == "" {
		return time.Time{}, fmt.Errorf("field %q: %w", key, ErrFieldNotFound)
	}

	parsed, err := parseGraphTime(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing field %q: %w", key, err)
	}

	return parsed, nil
}

// Decode re-marshals the object into v.
func (o Object) Decode(v interface{}) error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshaling object: %w", err)
	}

	err = json.Unmarshal(data, v)
	if err != nil {
		return fmt.Errorf("unmarshaling object: %w", err)
	}

	return nil
}

// ID represents the result of a publish operation.
type ID struct {
	ID     string `json:"id"                yaml:"id"`
	PostID string `json:"post_id,omitempty" yaml:"post_id,omitempty"`
}

// Edge represents a paginated connection response.
type Edge[T any] struct {
	Data    []T      `json:"data"              yaml:"data"`
	Paging  *Paging  `json:"paging,omitempty"  yaml:"paging,omitempty"`
	Summary *Summary `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Paging represents the paging envelope of an edge response.
type Paging struct {
	Cursors  *Cursors `json:"cursors,omitempty"  yaml:"cursors,omitempty"`
	Next     string   `json:"next,omitempty"     yaml:"next,omitempty"`
	Previous string   `json:"previous,omitempty" yaml:"previous,omitempty"`
}

// Cursors represents cursor-based paging positions.
type Cursors struct {
	Before string `json:"before" yaml:"before"`
	After  string `json:"after"  yaml:"after"`
}

// Summary represents the optional summary block of an edge response.
type Summary struct {
	TotalCount int `json:"total_count" yaml:"total_count"`
}

// Picture represents a binary image response.
type Picture struct {
	Data     []byte `json:"data"      yaml:"data"`
	MimeType string `json:"mime-type" yaml:"mime-type"`
	URL      string `json:"url"       yaml:"url"`
}

// AccessToken represents a token returned by the OAuth endpoints. The
// endpoints answer with either JSON or an access_token=...&expires=...
// query string depending on API version; both decode into this type.
type AccessToken struct {
	Value     string    `json:"access_token"         yaml:"access_token"`
	Type      string    `json:"token_type,omitempty" yaml:"token_type,omitempty"`
	ExpiresIn int64     `json:"expires_in,omitempty" yaml:"expires_in,omitempty"`
	ExpiresAt time.Time `json:"-"                    yaml:"-"`
}

// DebugTokenInfo represents the data payload of a /debug_token response.
type DebugTokenInfo struct {
	AppID       string   `json:"app_id"                yaml:"app_id"`
	Application string   `json:"application,omitempty" yaml:"application,omitempty"`
	ExpiresAt   int64    `json:"expires_at"            yaml:"expires_at"`
	IssuedAt    int64    `json:"issued_at,omitempty"   yaml:"issued_at,omitempty"`
	IsValid     bool     `json:"is_valid"              yaml:"is_valid"`
	UserID      string   `json:"user_id,omitempty"     yaml:"user_id,omitempty"`
	Scopes      []string `json:"scopes,omitempty"      yaml:"scopes,omitempty"`
	Type        string   `json:"type,omitempty"        yaml:"type,omitempty"`
}

// ExpiresAtTime returns ExpiresAt as a time.Time; the zero time means the
// token does not expire.
func (d *DebugTokenInfo) ExpiresAtTime() time.Time {
	if d.ExpiresAt == 0 {
		return time.Time{}
	}

	return time.Unix(d.ExpiresAt, 0)
}

// SignedRequestPayload represents the decoded payload of a signed request.
type SignedRequestPayload struct {
	Algorithm   string             `json:"algorithm"             yaml:"algorithm"`
	Code        string             `json:"code,omitempty"        yaml:"code,omitempty"`
	IssuedAt    int64              `json:"issued_at,omitempty"   yaml:"issued_at,omitempty"`
	UserID      string             `json:"user_id,omitempty"     yaml:"user_id,omitempty"`
	OAuthToken  string             `json:"oauth_token,omitempty" yaml:"oauth_token,omitempty"`
	Expires     int64              `json:"expires,omitempty"     yaml:"expires,omitempty"`
	AppData     string             `json:"app_data,omitempty"    yaml:"app_data,omitempty"`
	Page        *SignedRequestPage `json:"page,omitempty"        yaml:"page,omitempty"`
	AccessToken *AccessToken       `json:"-"                     yaml:"-"`
	Raw         Object             `json:"-"                     yaml:"-"`
}

// SignedRequestPage represents page context inside a signed request.
type SignedRequestPage struct {
	ID    string `json:"id"    yaml:"id"`
	Liked bool   `json:"liked" yaml:"liked"`
	Admin bool   `json:"admin" yaml:"admin"`
}

// UsageStats represents application-level rate limit usage as reported by
// the X-App-Usage response header.
type UsageStats struct {
	CallCount    int `json:"call_count"    yaml:"call_count"`
	TotalTime    int `json:"total_time"    yaml:"total_time"`
	TotalCPUTime int `json:"total_cputime" yaml:"total_cputime"`
}

// Time wraps time.Time to accept the timestamp layouts the Graph API
// emits: RFC 3339 and the legacy ISO-8601 form without a colon in the
// zone offset (2014-07-15T15:11:25+0000).
type Time struct {
	time.Time
}

const graphTimeLayout = "2006-01-02T15:04:05-0700"

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}

		return nil
	}

	parsed, err := parseGraphTime(raw)
	if err != nil {
		return err
	}

	t.Time = parsed

	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(t.Format(time.RFC3339))
}

func parseGraphTime(raw string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return parsed, nil
	}

	parsed, err = time.Parse(graphTimeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("unsupported timestamp %q: %w", raw, err)
	}

	return parsed, nil
}
