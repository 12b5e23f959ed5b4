package client

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/adamwoolhether/fluenthttp/client/transport"
	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/adamwoolhether/fluenthttp/client"

// Client hands out fluent [Request] builders that all dispatch through
// the same *http.Client. A Client is safe for concurrent use; the
// requests it creates are not.
type Client struct {
	c              *http.Client
	logger         *slog.Logger
	json           jsoniter.API
	tracer         trace.Tracer
	defaultHeaders http.Header
	validateModels bool
}

// Build assembles a [Client] from the given options. Without options it
// uses a fresh *http.Client over [http.DefaultTransport].
func Build(optFns ...Option) (*Client, error) {
	client := &Client{
		c:      &http.Client{},
		logger: slog.Default(),
		json:   jsoniter.ConfigCompatibleWithStandardLibrary,
		tracer: noop.NewTracerProvider().Tracer(tracerName),
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.client != nil {
		cpy := *opts.client
		client.c = &cpy
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.json != nil {
		client.json = opts.json
	}

	if opts.tracerProvider != nil {
		client.tracer = opts.tracerProvider.Tracer(tracerName)
	}

	client.defaultHeaders = opts.defaultHeaders
	client.validateModels = opts.validateModels

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var rt http.RoundTripper
	switch {
	case opts.rt != nil:
		rt = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		rt = opts.client.Transport
	default:
		rt = http.DefaultTransport
	}
	if opts.userAgent != "" {
		rt = transport.UserAgent{Value: opts.userAgent, Next: rt}
	}
	if opts.requestIDHeader != "" {
		rt = transport.RequestID{Header: opts.requestIDHeader, Next: rt}
	}
	if opts.throttle != nil {
		throttled, err := transport.NewThrottle(opts.throttle.RPS, opts.throttle.Burst, func() *slog.Logger { return client.logger }, rt)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		rt = throttled
	}
	client.c.Transport = rt

	return client, nil
}

// Get starts a GET request.
func (c *Client) Get() *Request { return c.NewRequest(http.MethodGet) }

// Post starts a POST request.
func (c *Client) Post() *Request { return c.NewRequest(http.MethodPost) }

// Put starts a PUT request.
func (c *Client) Put() *Request { return c.NewRequest(http.MethodPut) }

// Patch starts a PATCH request.
func (c *Client) Patch() *Request { return c.NewRequest(http.MethodPatch) }

// Delete starts a DELETE request.
func (c *Client) Delete() *Request { return c.NewRequest(http.MethodDelete) }

// Head starts a HEAD request.
func (c *Client) Head() *Request { return c.NewRequest(http.MethodHead) }

// Options starts an OPTIONS request.
func (c *Client) Options() *Request { return c.NewRequest(http.MethodOptions) }

// NewRequest starts a request for the given method. Methods other than
// GET, POST, PUT, PATCH, DELETE, HEAD and OPTIONS yield a request whose
// [Request.Err] wraps [ErrInvalidArgument].
func (c *Client) NewRequest(method string) *Request {
	r := &Request{
		client: c,
		method: method,
		header: c.defaultHeaders.Clone(),
	}
	if r.header == nil {
		r.header = make(http.Header)
	}

	if !knownMethods[method] {
		r.err = newRequestError("new request", ErrInvalidArgument, "unsupported method %q", method)
	}

	return r
}
