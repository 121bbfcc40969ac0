package query

import (
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalidFilter indicates the structured filter parameter was not a valid
// JSON object. This is the one strict parse failure; everything else is
// permissive.
var ErrInvalidFilter = errors.New("invalid filter")

// Defaults applied when the caller omits pagination parameters.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	// DefaultMaxLimit caps the page size when a resource does not declare
	// its own maximum.
	DefaultMaxLimit = 100
)

// Options is the per-resource declaration of what is queryable. It is
// supplied at route registration and is the single place a resource opens
// fields to filtering, sorting, and projection — everything else is dropped.
type Options struct {
	AllowFilterFields  []string
	AllowSortFields    []string
	AllowProjectFields []string
	MaxLimit           int
}

// SortField is one ordered sort term.
type SortField struct {
	Field string
	Desc  bool
}

// Spec is the parsed, sanitized representation of a list request. Filter,
// Sort, and Projection contain only allow-listed fields; Limit never exceeds
// the resource's maximum; Skip is never negative.
type Spec struct {
	Filter     map[string]interface{}
	Sort       []SortField
	Projection []string
	Page       int
	Limit      int
	Skip       int
}

// Parse translates untrusted query-string input into a Spec.
//
// The filter may arrive two ways: a JSON-encoded `filter` parameter, and
// individual parameters whose names match allow-listed fields. The JSON
// filter is applied first; direct parameters only fill keys it did not set.
// A malformed JSON filter rejects the whole request with ErrInvalidFilter.
// Unrecognized field names anywhere are silently dropped — deliberate
// permissiveness toward clients sending extra parameters.
func Parse(values url.Values, opts Options) (*Spec, error) {
	filter := make(map[string]interface{})

	if raw := values.Get("filter"); raw != "" {
		var structured map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &structured); err != nil {
			return nil, ErrInvalidFilter
		}
		for key, value := range structured {
			if contains(opts.AllowFilterFields, key) {
				filter[key] = value
			}
		}
	}

	// Direct per-field parameters fill gaps the structured filter left.
	for _, field := range opts.AllowFilterFields {
		if _, set := filter[field]; set {
			continue
		}
		if v := values.Get(field); v != "" {
			filter[field] = v
		}
	}

	var sort []SortField
	if raw := values.Get("sort"); raw != "" {
		for _, term := range strings.Split(raw, ",") {
			term = strings.TrimSpace(term)
			desc := strings.HasPrefix(term, "-")
			field := strings.TrimPrefix(term, "-")
			if contains(opts.AllowSortFields, field) {
				sort = append(sort, SortField{Field: field, Desc: desc})
			}
		}
	}

	var projection []string
	if raw := values.Get("fields"); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			field = strings.TrimSpace(field)
			if contains(opts.AllowProjectFields, field) {
				projection = append(projection, field)
			}
		}
	}

	maxLimit := opts.MaxLimit
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}

	page := positiveIntParam(values.Get("page"), DefaultPage)
	limit := positiveIntParam(values.Get("limit"), DefaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}

	return &Spec{
		Filter:     filter,
		Sort:       sort,
		Projection: projection,
		Page:       page,
		Limit:      limit,
		Skip:       (page - 1) * limit,
	}, nil
}

// positiveIntParam parses a positive integer, falling back to the default
// for absent, non-numeric, zero, or negative input rather than erroring.
func positiveIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
