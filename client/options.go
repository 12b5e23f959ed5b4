package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/adamwoolhether/fluenthttp/client/transport"
	jsoniter "github.com/json-iterator/go"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	client            *http.Client
	rt                http.RoundTripper
	timeout           *time.Duration
	userAgent         string
	requestIDHeader   string
	throttle          *transport.ThrottleConfig
	noFollowRedirects bool
	logger            *slog.Logger
	json              jsoniter.API
	tracerProvider    trace.TracerProvider
	defaultHeaders    http.Header
	validateModels    bool
}

// WithClient replaces the default [http.Client] used by the [Client].
func WithClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithTimeout sets the overall request timeout on the underlying [http.Client].
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithRequestID stamps every outgoing request with a random UUID under
// header. An empty header uses [transport.DefaultRequestIDHeader].
func WithRequestID(header string) Option {
	return func(c *options) error {
		if header == "" {
			header = transport.DefaultRequestIDHeader
		}
		c.requestIDHeader = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		cfg := transport.ThrottleConfig{RPS: rps, Burst: burst}
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.throttle = &cfg
		return nil
	}
}

// WithNoFollowRedirects prevents the [Client] from following HTTP redirects.
func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithJSONAPI swaps the json-iterator configuration used to encode
// request models and decode responses.
func WithJSONAPI(api jsoniter.API) Option {
	return func(c *options) error {
		if api == nil {
			return errors.New("json api must not be nil")
		}
		c.json = api
		return nil
	}
}

// WithTracerProvider enables a client span per executed request and
// injects the trace context into the outgoing headers.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *options) error {
		if tp == nil {
			return errors.New("tracer provider must not be nil")
		}
		c.tracerProvider = tp
		return nil
	}
}

// WithDefaultHeader seeds every [Request] created by the [Client]
// with the given header. Requests may still overwrite it.
func WithDefaultHeader(name, value string) Option {
	return func(c *options) error {
		if strings.TrimSpace(name) == "" || strings.TrimSpace(value) == "" {
			return fmt.Errorf("default header %q: %w: name and value must not be empty", name, ErrInvalidArgument)
		}
		if c.defaultHeaders == nil {
			c.defaultHeaders = make(http.Header)
		}
		c.defaultHeaders.Set(name, value)
		return nil
	}
}

// WithModelValidation checks struct models passed to [JSON] against
// their `validate` struct tags before they are serialized. A failing
// model is rejected with [ErrInvalidArgument] wrapping [FieldErrors].
func WithModelValidation() Option {
	return func(c *options) error {
		c.validateModels = true
		return nil
	}
}

// /////////////////////////////////////////////////////////////////

// DecodeOption is a functional option for [Request.ExecuteInto] and
// [ExecuteAndDeserialize].
type DecodeOption func(options *decodeOpts) error

type decodeOpts struct {
	useNumber bool
	path      string
	schema    *jsonschema.Schema
}

// WithUseNumber tells the JSON decoder to keep numbers as [encoding/json.Number]
// instead of float64 when decoding into interface values.
func WithUseNumber() DecodeOption {
	return func(opts *decodeOpts) error {
		opts.useNumber = true

		return nil
	}
}

// WithPath decodes only the sub-document found at the given gjson path,
// e.g. "data.items" to unwrap a response envelope.
func WithPath(path string) DecodeOption {
	return func(opts *decodeOpts) error {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("decode path: %w: must not be empty", ErrInvalidArgument)
		}

		opts.path = path

		return nil
	}
}

// WithSchema validates the payload against a JSON Schema document before decoding.
func WithSchema(schema string) DecodeOption {
	return func(opts *decodeOpts) error {
		compiled, err := jsonschema.CompileString("schema.json", schema)
		if err != nil {
			return fmt.Errorf("compiling schema: %w: %w", ErrInvalidArgument, err)
		}

		opts.schema = compiled

		return nil
	}
}
