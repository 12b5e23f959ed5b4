// Package transport provides [http.RoundTripper] decorators that the
// fluent client stacks on top of its base transport.
//
// # Throttling
//
// [NewThrottle] rate-limits outbound requests using a token bucket from
// [golang.org/x/time/rate]:
//
//	rt, err := transport.NewThrottle(
//		10, // requests per second
//		5,  // burst capacity
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//	httpClient := &http.Client{Transport: rt}
//
// When the bucket is empty, requests block until a token becomes
// available or the request context ends.
//
// # Header decorators
//
// [UserAgent] pins the User-Agent header and [RequestID] stamps every
// request with a fresh UUID unless the caller already set one.
package transport
