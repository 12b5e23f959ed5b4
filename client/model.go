package client

import (
	"errors"
	"fmt"
	"net/http"
)

// maxErrBodySize caps the amount of response body read when
// building an error for an unexpected status code.
const maxErrBodySize = 4 << 10 // 4KB

const (
	mediaTypeText = "text/plain"
	mediaTypeJSON = "application/json"
	charsetUTF8   = "charset=utf-8"
)

var (
	// ErrInvalidArgument is wrapped when a caller supplied value is
	// missing or unusable, e.g. an empty header name.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState is wrapped when the request's accumulated state
	// forbids the operation, e.g. a second URL or a body on a GET.
	ErrInvalidState = errors.New("invalid state")
	// ErrMalformedInput is wrapped when a URL or query string does not parse.
	ErrMalformedInput = errors.New("malformed input")
	// ErrDeserialization is wrapped when a response payload cannot be
	// decoded into the requested shape or decodes to nothing.
	ErrDeserialization = errors.New("deserialization failed")

	// ErrUnexpectedStatusCode is the sentinel error wrapped by [UnexpectedStatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrAuthFailure is joined with [ErrUnexpectedStatusCode] when the server
	// responds with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")
)

// RequestError is recorded on a [Request] when a configuration or
// execution step is rejected. Err is one of the package sentinels;
// Cause, when set, is the underlying parse, encode or decode error.
type RequestError struct {
	Op     string
	Detail string
	Err    error
	Cause  error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v: %s: %v", e.Op, e.Err, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, e.Detail)
}

func (e *RequestError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func newRequestError(op string, sentinel error, format string, args ...any) *RequestError {
	return &RequestError{
		Op:     op,
		Detail: fmt.Sprintf(format, args...),
		Err:    sentinel,
	}
}

// UnexpectedStatusError is returned by the decoding execute methods
// when the response status code is not in the 2xx range.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

// statusErr classifies a non-success response.
func statusErr(code int, body string) *UnexpectedStatusError {
	err := ErrUnexpectedStatusCode
	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		err = fmt.Errorf("%w: %w", ErrAuthFailure, ErrUnexpectedStatusCode)
	}

	return &UnexpectedStatusError{
		StatusCode: code,
		Body:       body,
		Err:        err,
	}
}

// bodyMethods lists the methods allowed to carry a request body.
var bodyMethods = map[string]bool{
	http.MethodPost:  true,
	http.MethodPut:   true,
	http.MethodPatch: true,
}

var knownMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}
