package client_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/adamwoolhether/fluenthttp/client"
)

func ExampleBuild() {
	c, err := client.Build(
		client.WithTimeout(10*time.Second),
		client.WithUserAgent("example/1.0"),
		client.WithThrottle(10, 5),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	_ = c
	fmt.Println("client built")
	// Output: client built
}

func ExampleBuild_logger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == "since" || a.Key == "url" {
				return slog.Attr{}
			}
			return a
		},
	}))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	c, _ := client.Build(client.WithLogger(logger))

	resp, err := c.Delete().UseHTTP(hostOf(ts) + "/items/1").Execute(context.Background())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	resp.Body.Close()
	// Output: level=DEBUG msg="request completed" method=DELETE status=204
}

func ExampleClient_Get() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s %s", r.Method, r.URL.RequestURI())
	}))
	defer ts.Close()

	c, _ := client.Build()

	resp, err := c.Get().
		UseHTTP(hostOf(ts) + "/search?lang=go").
		AddHeader("Accept", "text/plain").
		AddQueryParam("q", "fluent builder").
		AddQueryParam("lang", "en").
		Execute(context.Background())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Println(resp.StatusCode, string(body))
	// Output: 200 GET /search?lang=en&q=fluent+builder
}

func ExampleRequest_WithJSON() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fmt.Println(r.Method, r.Header.Get("Content-Type"))
		fmt.Println(string(body))
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c, _ := client.Build()

	resp, err := c.Put().
		UseHTTP(hostOf(ts) + "/put").
		WithJSON(map[string]int{"Id": 1}).
		Execute(context.Background())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	resp.Body.Close()
	// Output:
	// PUT application/json; charset=utf-8
	// {"Id":1}
}

func ExampleRequest_Err() {
	c, _ := client.Build()

	req := c.Get().
		UseHTTPS("example.com").
		WithText("GET requests carry no body", "")

	fmt.Println(errors.Is(req.Err(), client.ErrInvalidState))

	_, err := req.Execute(context.Background())
	fmt.Println(err)
	// Output:
	// true
	// with body: invalid state: HTTP method GET does not support a request body
}

func ExampleExecuteAndDeserialize() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"origin":"127.0.0.1","url":"http://localhost/get"}`)
	}))
	defer ts.Close()

	c, _ := client.Build()

	type info struct {
		Origin string `json:"origin"`
	}

	got, err := client.ExecuteAndDeserialize[info](context.Background(), c.Get().UseHTTP(hostOf(ts)+"/get"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(got.Origin)
	// Output: 127.0.0.1
}

func ExampleExecuteAndDeserialize_path() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"items":[{"name":"a"},{"name":"b"}]},"meta":{"total":2}}`)
	}))
	defer ts.Close()

	c, _ := client.Build()

	type item struct {
		Name string `json:"name"`
	}

	items, err := client.ExecuteAndDeserialize[[]item](context.Background(),
		c.Get().UseHTTP(hostOf(ts)+"/items"),
		client.WithPath("data.items"),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(len(items), items[0].Name, items[1].Name)
	// Output: 2 a b
}

func ExampleUnexpectedStatusError() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer ts.Close()

	c, _ := client.Build()

	_, err := client.ExecuteAndDeserialize[map[string]any](context.Background(), c.Get().UseHTTP(hostOf(ts)))

	var statusErr *client.UnexpectedStatusError
	if errors.As(err, &statusErr) {
		fmt.Println(statusErr.StatusCode, errors.Is(err, client.ErrAuthFailure))
	}
	// Output: 403 true
}
