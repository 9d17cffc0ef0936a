package http

import (
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/km-arc/go-container/framework/routing"
)

// Request wraps *http.Request with query and route helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps r.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// Has returns true if the query key is present and non-empty.
func (req *Request) Has(key string) bool {
	return req.Query(key) != ""
}

// OptionalBool parses a boolean query value. It returns nil when the key is
// absent.
func (req *Request) OptionalBool(key string) (*bool, error) {
	if !req.Has(key) {
		return nil, nil
	}
	b, err := strconv.ParseBool(req.Query(key))
	if err != nil {
		return nil, errors.Errorf("query %s: %q is not a boolean", key, req.Query(key))
	}
	return &b, nil
}

// RouteParam returns a URL route parameter.
func (req *Request) RouteParam(key string) string {
	return routing.Param(req.raw, key)
}
