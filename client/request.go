package client

import (
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// Request accumulates the method, URL, headers, query parameters and
// body of a single outbound call. Configuration methods mutate the
// Request in place and return it, so calls can be chained:
//
//	resp, err := c.Post().
//		UseHTTPS("api.example.com/v1/items").
//		AddHeader("Authorization", "Bearer "+token).
//		AddQueryParam("dry_run", "true").
//		WithJSON(item).
//		Execute(ctx)
//
// The first rejected call is recorded and returned by [Request.Err];
// every later configuration call is ignored, and the execute methods
// return the recorded error without contacting the server.
//
// A Request is single use and must not be shared between goroutines.
type Request struct {
	client *Client
	method string
	url    *url.URL
	header http.Header
	query  []queryParam
	body   *payload

	err      error
	executed bool
}

type queryParam struct {
	name  string
	value string
}

// Err returns the first error recorded while configuring the request.
func (r *Request) Err() error {
	return r.err
}

// Method returns the HTTP method the request was created with.
func (r *Request) Method() string {
	return r.method
}

// URL returns a copy of the request URL, or nil when none is set.
// Pending query parameters are only merged in once the request executes.
func (r *Request) URL() *url.URL {
	if r.url == nil {
		return nil
	}

	u := *r.url
	return &u
}

// Header returns a copy of the headers set so far.
func (r *Request) Header() http.Header {
	return r.header.Clone()
}

// UseHTTPS sets the request URL to "https://" + hostAndPath.
// Only one of UseHTTPS or UseHTTP may be called.
func (r *Request) UseHTTPS(hostAndPath string) *Request {
	return r.useURL("use https", "https://", hostAndPath)
}

// UseHTTP sets the request URL to "http://" + hostAndPath.
// Only one of UseHTTPS or UseHTTP may be called.
func (r *Request) UseHTTP(hostAndPath string) *Request {
	return r.useURL("use http", "http://", hostAndPath)
}

func (r *Request) useURL(op, scheme, hostAndPath string) *Request {
	if !r.ready(op) {
		return r
	}

	if r.url != nil {
		return r.fail(newRequestError(op, ErrInvalidState, "URL can only be set once, UseHTTP() or UseHTTPS()"))
	}

	u, err := url.Parse(scheme + hostAndPath)
	if err != nil {
		e := newRequestError(op, ErrMalformedInput, "parsing %q", hostAndPath)
		e.Cause = err
		return r.fail(e)
	}

	if u.Hostname() == "" {
		return r.fail(newRequestError(op, ErrMalformedInput, "%q has no host", scheme+hostAndPath))
	}

	r.url = u
	return r
}

// AddHeader sets a request header. Names are case-insensitive, so adding
// the same name again replaces the earlier value.
func (r *Request) AddHeader(name, value string) *Request {
	const op = "add header"

	if !r.ready(op) {
		return r
	}

	if strings.TrimSpace(name) == "" {
		return r.fail(newRequestError(op, ErrInvalidArgument, "header name must not be empty or whitespace"))
	}

	if strings.TrimSpace(value) == "" {
		return r.fail(newRequestError(op, ErrInvalidArgument, "header %q value must not be empty or whitespace", name))
	}

	if !httpguts.ValidHeaderFieldName(name) {
		return r.fail(newRequestError(op, ErrInvalidArgument, "invalid header name %q", name))
	}

	if !httpguts.ValidHeaderFieldValue(value) {
		return r.fail(newRequestError(op, ErrInvalidArgument, "invalid value for header %q", name))
	}

	r.header.Set(name, value)
	return r
}

// AddQueryParam queues a query parameter. The URL must already be set.
// Queued parameters are merged into the URL's existing query when the
// request executes; the last value given for a name wins, including
// over a value already present in the URL.
func (r *Request) AddQueryParam(name, value string) *Request {
	const op = "add query param"

	if !r.ready(op) {
		return r
	}

	if strings.TrimSpace(name) == "" {
		return r.fail(newRequestError(op, ErrInvalidArgument, "name must not be empty or whitespace"))
	}

	if r.url == nil {
		return r.fail(newRequestError(op, ErrInvalidState, "URL has to be set before adding a query parameter"))
	}

	r.query = append(r.query, queryParam{name: name, value: value})
	return r
}

// WithBody sets the request body. It may be called once, and only on
// POST, PUT and PATCH requests.
func (r *Request) WithBody(body Body) *Request {
	const op = "with body"

	if !r.ready(op) {
		return r
	}

	if r.body != nil {
		return r.fail(newRequestError(op, ErrInvalidState, "WithBody can only be called once"))
	}

	if !bodyMethods[r.method] {
		return r.fail(newRequestError(op, ErrInvalidState, "HTTP method %s does not support a request body", r.method))
	}

	if body == nil {
		return r.fail(newRequestError(op, ErrInvalidArgument, "body must not be nil"))
	}

	p, err := body.encode(r.client)
	if err != nil {
		e := newRequestError(op, ErrInvalidArgument, "encoding body")
		e.Cause = err
		return r.fail(e)
	}

	r.body = p
	return r
}

// WithBytes is shorthand for WithBody(Bytes(data, contentType)).
func (r *Request) WithBytes(data []byte, contentType string) *Request {
	return r.WithBody(Bytes(data, contentType))
}

// WithText is shorthand for WithBody(Text(content, mediaType)).
func (r *Request) WithText(content, mediaType string) *Request {
	return r.WithBody(Text(content, mediaType))
}

// WithJSON is shorthand for WithBody(JSON(model)).
func (r *Request) WithJSON(model any) *Request {
	return r.WithBody(JSON(model))
}

// ready reports whether a configuration step may run.
func (r *Request) ready(op string) bool {
	if r.err != nil {
		return false
	}

	if r.executed {
		r.err = newRequestError(op, ErrInvalidState, "request already executed")
		return false
	}

	return true
}

func (r *Request) fail(err error) *Request {
	r.err = err
	return r
}
