package mdv

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// FetchRequest configures Fetch.
type FetchRequest struct {
	URL     string
	Client  *http.Client
	Options []Option
}

// Fetch downloads Markdown over HTTP(S) and parses it into a Document.
func Fetch(ctx context.Context, req FetchRequest) (*Document, error) {
	body, err := fetch(ctx, req.URL, req.Client)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	src, err := io.ReadAll(io.LimitReader(body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}
	return New(string(src), req.Options...), nil
}

// HTTPRenderRequest configures HTTPRender.
type HTTPRenderRequest struct {
	URL             string
	Client          *http.Client
	Writer          io.Writer
	Options         []RenderOption
	DocumentOptions []Option
}

// HTTPRender fetches Markdown over HTTP(S) and writes ANSI lines.
func HTTPRender(ctx context.Context, req HTTPRenderRequest) (*Document, error) {
	if req.Writer == nil {
		return nil, fmt.Errorf("fetch: Writer is nil")
	}
	body, err := fetch(ctx, req.URL, req.Client)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return Render(RenderRequest{
		Reader:          body,
		Writer:          req.Writer,
		Options:         req.Options,
		DocumentOptions: req.DocumentOptions,
	})
}

// OpenURL issues a GET for an http or https URL and returns the response
// body. Non-2xx responses are errors. A nil client uses
// http.DefaultClient.
func OpenURL(ctx context.Context, url string, client *http.Client) (io.ReadCloser, error) {
	return fetch(ctx, url, client)
}

func fetch(ctx context.Context, url string, client *http.Client) (io.ReadCloser, error) {
	if url == "" {
		return nil, fmt.Errorf("fetch: URL is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if client == nil {
		client = http.DefaultClient
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}
	if httpReq.URL.Scheme != "http" && httpReq.URL.Scheme != "https" {
		return nil, fmt.Errorf("fetch: unsupported scheme %q", httpReq.URL.Scheme)
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch: request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch: status %s", resp.Status)
	}
	return resp.Body, nil
}
