// Package client provides a fluent request builder on top of [net/http].
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithTimeout(10 * time.Second),
//		client.WithUserAgent("myapp/1.0"),
//		client.WithThrottle(20, 5),
//	)
//
// # Making Requests
//
// Every method on [Client] named after an HTTP verb starts a new
// [Request]. Configure it with chained calls and finish with one of
// the execute methods:
//
//	resp, err := c.Get().
//		UseHTTPS("api.example.com/v1/items").
//		AddHeader("Accept", "application/json").
//		AddQueryParam("page", "2").
//		Execute(ctx)
//
// The URL and the body may each be set once. Only POST, PUT and PATCH
// accept a body. Query parameters are merged into the URL's existing
// query when the request executes.
//
// # Errors
//
// Configuration calls cannot return an error without breaking the
// chain, so the first rejected call is recorded on the request and
// surfaced by [Request.Err] and by every execute method. Test for the
// kind of failure with [errors.Is]:
//
//	if errors.Is(err, client.ErrInvalidState) { ... }
//
// # Decoding Responses
//
// [ExecuteAndDeserialize] and [Request.ExecuteInto] require a 2xx
// status and decode the JSON payload:
//
//	item, err := client.ExecuteAndDeserialize[Item](ctx,
//		c.Get().UseHTTPS("api.example.com/v1/items/42"),
//		client.WithPath("data"),
//	)
package client
