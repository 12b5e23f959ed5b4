package transport

import (
	"net/http"

	"github.com/google/uuid"
)

// DefaultRequestIDHeader is used by [RequestID] when no header name is given.
const DefaultRequestIDHeader = "X-Request-Id"

// UserAgent sets a fixed User-Agent header on every request.
type UserAgent struct {
	Value string
	Next  http.RoundTripper
}

// RoundTrip sends a copy of r carrying the configured User-Agent.
func (ua UserAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.Value)
	return next(ua.Next).RoundTrip(cpy)
}

// RequestID stamps each request with a random UUID under Header,
// leaving requests that already carry one untouched.
type RequestID struct {
	Header string
	Next   http.RoundTripper
}

// RoundTrip sends r with a request id, generating one when r has none.
func (rid RequestID) RoundTrip(r *http.Request) (*http.Response, error) {
	header := rid.Header
	if header == "" {
		header = DefaultRequestIDHeader
	}

	if r.Header.Get(header) != "" {
		return next(rid.Next).RoundTrip(r)
	}

	cpy := r.Clone(r.Context())
	cpy.Header.Set(header, uuid.NewString())
	return next(rid.Next).RoundTrip(cpy)
}

func next(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}
