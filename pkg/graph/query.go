package graph

import (
	"net/url"
	"strconv"
	"strings"
)

// Params represents query parameters for Graph API requests: field
// expansion, paging windows, and any endpoint-specific extras.
type Params struct {
	Fields   []string
	Limit    int
	Offset   int
	Since    string
	Until    string
	After    string
	Before   string
	Summary  bool
	Metadata bool
	Locale   string
	Extra    map[string][]string
}

// NewParams creates a new Params instance.
func NewParams() *Params {
	return &Params{
		Extra: make(map[string][]string),
	}
}

// WithFields appends fields to request for each returned node.
func (p *Params) WithFields(fields ...string) *Params {
	p.Fields = append(p.Fields, fields...)

	return p
}

// WithLimit sets the page size.
func (p *Params) WithLimit(limit int) *Params {
	p.Limit = limit

	return p
}

// WithOffset sets the offset-based paging position.
func (p *Params) WithOffset(offset int) *Params {
	p.Offset = offset

	return p
}

// WithSince sets the lower bound for time-based paging. The API accepts
// a unix timestamp or any strtotime-compatible value.
func (p *Params) WithSince(since string) *Params {
	p.Since = since

	return p
}

// WithUntil sets the upper bound for time-based paging.
func (p *Params) WithUntil(until string) *Params {
	p.Until = until

	return p
}

// WithAfter sets the cursor to page forward from.
func (p *Params) WithAfter(cursor string) *Params {
	p.After = cursor

	return p
}

// WithBefore sets the cursor to page backward from.
func (p *Params) WithBefore(cursor string) *Params {
	p.Before = cursor

	return p
}

// WithSummary requests the summary block (e.g. total_count) on edges
// that support it.
func (p *Params) WithSummary() *Params {
	p.Summary = true

	return p
}

// WithMetadata requests node introspection metadata.
func (p *Params) WithMetadata() *Params {
	p.Metadata = true

	return p
}

// WithLocale sets the locale for localized fields.
func (p *Params) WithLocale(locale string) *Params {
	p.Locale = locale

	return p
}

// WithParam appends values for an endpoint-specific parameter.
func (p *Params) WithParam(key string, values ...string) *Params {
	if p.Extra == nil {
		p.Extra = make(map[string][]string)
	}

	p.Extra[key] = append(p.Extra[key], values...)

	return p
}

// ToValues converts the params to url.Values.
func (p *Params) ToValues() url.Values {
	values := url.Values{}

	if len(p.Fields) > 0 {
		values.Set("fields", strings.Join(p.Fields, ","))
	}

	if p.Limit > 0 {
		values.Set("limit", strconv.Itoa(p.Limit))
	}

	if p.Offset > 0 {
		values.Set("offset", strconv.Itoa(p.Offset))
	}

	if p.Since != "" {
		values.Set("since", p.Since)
	}

	if p.Until != "" {
		values.Set("until", p.Until)
	}

	if p.After != "" {
		values.Set("after", p.After)
	}

	if p.Before != "" {
		values.Set("before", p.Before)
	}

	if p.Summary {
		values.Set("summary", "true")
	}

	if p.Metadata {
		values.Set("metadata", "1")
	}

	if p.Locale != "" {
		values.Set("locale", p.Locale)
	}

	for key, vals := range p.Extra {
		if len(vals) > 0 {
			values.Set(key, strings.Join(vals, ","))
		}
	}

	return values
}
