//go:build integration

package client_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/adamwoolhether/fluenthttp/client"
	"github.com/google/go-cmp/cmp"
)

const httpbin = "httpbin.org"

// echo is the subset of httpbin's /anything response the tests look at.
type echo struct {
	Args    map[string]string `json:"args"`
	Data    string            `json:"data"`
	Headers map[string]string `json:"headers"`
	Method  string            `json:"method"`
	URL     string            `json:"url"`
}

func integrationClient(t *testing.T) *client.Client {
	t.Helper()

	c, err := client.Build(
		client.WithTimeout(30*time.Second),
		client.WithThrottle(5, 1),
		client.WithUserAgent("fluenthttp-integration/1.0"),
	)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	return c
}

func TestIntegration_Methods(t *testing.T) {
	c := integrationClient(t)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			for _, useHTTPS := range []bool{true, false} {
				req := c.NewRequest(method)
				if useHTTPS {
					req.UseHTTPS(httpbin + "/anything")
				} else {
					req.UseHTTP(httpbin + "/anything")
				}

				got, err := client.ExecuteAndDeserialize[echo](t.Context(), req)
				if err != nil {
					t.Fatalf("executing %s (https=%t): %v", method, useHTTPS, err)
				}

				if got.Method != method {
					t.Errorf("expected method %s, got %s", method, got.Method)
				}
			}
		})
	}
}

func TestIntegration_HeadersAndQuery(t *testing.T) {
	c := integrationClient(t)

	req := c.Get().
		UseHTTPS(httpbin+"/anything?keep=yes&a=orig").
		AddHeader("X-Fluent-Test", "one").
		AddHeader("x-fluent-test", "two").
		AddQueryParam("a", "new").
		AddQueryParam("b", "2")

	got, err := client.ExecuteAndDeserialize[echo](t.Context(), req)
	if err != nil {
		t.Fatalf("executing: %v", err)
	}

	if diff := cmp.Diff(map[string]string{"a": "new", "b": "2", "keep": "yes"}, got.Args); diff != "" {
		t.Errorf("unexpected args (-want +got):\n%s", diff)
	}

	if got.Headers["X-Fluent-Test"] != "two" {
		t.Errorf("expected header value %q, got %q", "two", got.Headers["X-Fluent-Test"])
	}
}

func TestIntegration_PutJSON(t *testing.T) {
	c := integrationClient(t)

	got, err := client.ExecuteAndDeserialize[echo](t.Context(),
		c.Put().UseHTTPS(httpbin+"/put").WithJSON(map[string]int{"Id": 1}),
	)
	if err != nil {
		t.Fatalf("executing: %v", err)
	}

	if got.Data != `{"Id":1}` {
		t.Errorf("expected body %q, got %q", `{"Id":1}`, got.Data)
	}

	if ct := got.Headers["Content-Type"]; ct != "application/json; charset=utf-8" {
		t.Errorf("unexpected content type %q", ct)
	}
}

func TestIntegration_Status(t *testing.T) {
	c := integrationClient(t)

	_, err := client.ExecuteAndDeserialize[echo](t.Context(), c.Get().UseHTTPS(httpbin+"/status/401"))

	if !errors.Is(err, client.ErrAuthFailure) {
		t.Fatalf("expected ErrAuthFailure, got %v", err)
	}

	resp, err := c.Get().UseHTTPS(httpbin + "/status/418").Execute(t.Context())
	if err != nil {
		t.Fatalf("raw execute must not classify status codes: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("expected %d, got %d", http.StatusTeapot, resp.StatusCode)
	}
}

func TestIntegration_Deserialize(t *testing.T) {
	c := integrationClient(t)

	type slideshowEnvelope struct {
		Slideshow slideshow `json:"slideshow"`
	}

	got, err := client.ExecuteAndDeserialize[slideshowEnvelope](t.Context(), c.Get().UseHTTPS(httpbin+"/json"))
	if err != nil {
		t.Fatalf("executing: %v", err)
	}

	if got.Slideshow.Author != "Yours Truly" || len(got.Slideshow.Slides) != 2 {
		t.Errorf("unexpected slideshow %+v", got.Slideshow)
	}

	if _, err := client.ExecuteAndDeserialize[slideshow](t.Context(), c.Get().UseHTTPS(httpbin+"/html")); !errors.Is(err, client.ErrDeserialization) {
		t.Errorf("expected ErrDeserialization for an HTML body, got %v", err)
	}
}
