package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Execute finalizes the URL, sends the request and returns the raw
// response, whatever its status. The caller must close the response body.
// Transport errors are returned wrapped, never translated.
func (r *Request) Execute(ctx context.Context) (*http.Response, error) {
	const op = "execute"

	if r.err != nil {
		return nil, r.err
	}

	if r.executed {
		return nil, newRequestError(op, ErrInvalidState, "request already executed")
	}

	if r.url == nil {
		return nil, newRequestError(op, ErrInvalidState, "URL has to be set")
	}

	u, err := r.finalURL()
	if err != nil {
		return nil, err
	}

	r.url = u
	r.executed = true

	return r.client.dispatch(ctx, r.method, u, r.header, r.body)
}

// ExecuteInto executes the request and decodes a successful JSON
// response into dst, which must be a non-nil pointer. Non-2xx responses
// yield an [*UnexpectedStatusError]; payloads that are empty, null or
// do not fit dst yield an error wrapping [ErrDeserialization]. JSON
// fields with no counterpart in dst are ignored.
func (r *Request) ExecuteInto(ctx context.Context, dst any, optFns ...DecodeOption) error {
	var opts decodeOpts
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return err
		}
	}

	if r.err != nil {
		return r.err
	}

	if rv := reflect.ValueOf(dst); rv.Kind() != reflect.Pointer || rv.IsNil() {
		return newRequestError("execute into", ErrInvalidArgument, "destination must be a non-nil pointer, got %T", dst)
	}

	resp, err := r.Execute(ctx)
	if err != nil {
		return err
	}

	return r.client.consume(resp, func(data []byte) error {
		return r.client.decode(data, dst, opts)
	})
}

// ExecuteAndDeserialize is the generic form of [Request.ExecuteInto].
func ExecuteAndDeserialize[T any](ctx context.Context, r *Request, optFns ...DecodeOption) (T, error) {
	var v T
	if err := r.ExecuteInto(ctx, &v, optFns...); err != nil {
		var zero T
		return zero, err
	}

	return v, nil
}

// finalURL merges the queued query parameters into a copy of the URL.
func (r *Request) finalURL() (*url.URL, error) {
	u := *r.url
	if len(r.query) == 0 {
		return &u, nil
	}

	query, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		e := newRequestError("execute", ErrMalformedInput, "parsing existing query %q", u.RawQuery)
		e.Cause = err
		return nil, e
	}

	for _, p := range r.query {
		query.Set(p.name, p.value)
	}

	u.RawQuery = query.Encode()

	return &u, nil
}

// dispatch builds the *http.Request and hands it to the transport inside a client span.
func (c *Client) dispatch(ctx context.Context, method string, u *url.URL, header http.Header, body *payload) (*http.Response, error) {
	ctx, span := c.tracer.Start(ctx, "HTTP "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", u.Redacted()),
			attribute.String("server.address", u.Hostname()),
		),
	)
	defer span.End()

	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body.data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for k, v := range header {
		// net/http writes req.Host and ignores a Host entry in the header map.
		if k == "Host" {
			req.Host = header.Get(k)
			continue
		}
		req.Header[k] = append([]string(nil), v...)
	}

	if body != nil && body.contentType != "" {
		req.Header.Set("Content-Type", body.contentType)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()

	resp, err := c.c.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("request failed", "method", method, "url", u.Redacted(), "since", time.Since(start).String(), "error", err)
		return nil, fmt.Errorf("exec http do: %w", err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, resp.Status)
	}

	c.logger.Debug("request completed", "method", method, "url", u.Redacted(), "status", resp.StatusCode, "since", time.Since(start).String())

	return resp, nil
}

// consume checks for a 2xx status, reads the whole payload and hands it to fn.
// The body is always drained and closed.
func (c *Client) consume(resp *http.Response, fn func([]byte) error) error {
	defer func() {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			c.logger.Error("failed to discard unused body", "error", err)
		}
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		if err != nil {
			b = []byte("unable to read body")
		}

		return statusErr(resp.StatusCode, string(b))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	return fn(data)
}

func (c *Client) decode(data []byte, dst any, opts decodeOpts) error {
	const op = "deserialize"

	if len(bytes.TrimSpace(data)) == 0 {
		return newRequestError(op, ErrDeserialization, "response body is empty")
	}

	if opts.path != "" {
		res := gjson.GetBytes(data, opts.path)
		if !res.Exists() {
			return newRequestError(op, ErrDeserialization, "path %q not found in response", opts.path)
		}
		data = []byte(res.Raw)
	}

	if opts.schema != nil {
		var doc any
		if err := c.json.Unmarshal(data, &doc); err != nil {
			e := newRequestError(op, ErrDeserialization, "response is not valid JSON")
			e.Cause = err
			return e
		}

		if err := opts.schema.Validate(doc); err != nil {
			e := newRequestError(op, ErrDeserialization, "response does not match schema")
			e.Cause = err
			return e
		}
	}

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return newRequestError(op, ErrDeserialization, "response decoded to null")
	}

	src := bytes.NewReader(data)
	dec := c.json.NewDecoder(src)
	if opts.useNumber {
		dec.UseNumber()
	}

	if err := dec.Decode(dst); err != nil {
		e := newRequestError(op, ErrDeserialization, "decoding into %T", dst)
		e.Cause = err
		return e
	}

	// Decode stops after one value; anything but whitespace after it is an error.
	rest, err := io.ReadAll(io.MultiReader(dec.Buffered(), src))
	if err != nil {
		return fmt.Errorf("reading remaining payload: %w", err)
	}
	if len(bytes.TrimSpace(rest)) != 0 {
		return newRequestError(op, ErrDeserialization, "unexpected data after JSON value: %q", truncate(rest, 32))
	}

	return nil
}

func truncate(b []byte, n int) string {
	b = bytes.TrimSpace(b)
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
