// Package transport contains the default [domain.Transport] implementation,
// an instrumented HTTP client with a per-client proxy setting.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dolmen-go/contextio"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Transport implements domain.Transport.
type Transport struct {
	client *http.Client
}

// NewTransport returns a new implementation of domain.Transport. Unless a
// client is given with [WithHTTPClient], requests go through a clone of
// [http.DefaultTransport] wrapped for tracing, using the proxy set with
// [WithProxyURL] or, when none is set, the proxy from the environment.
func NewTransport(opts ...Option) (domain.Transport, error) {
	cfg := config{}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	client := cfg.client
	if client == nil {
		base := http.DefaultTransport.(*http.Transport).Clone()
		base.Proxy = http.ProxyFromEnvironment
		if cfg.proxyURL != nil {
			base.Proxy = http.ProxyURL(cfg.proxyURL)
		}
		client = &http.Client{
			Transport: otelhttp.NewTransport(base, cfg.traceOpts...),
		}
	}
	if cfg.timeout > 0 {
		c := *client
		c.Timeout = cfg.timeout
		client = &c
	}

	return &Transport{client: client}, nil
}

// Do implements domain.Transport.
func (t *Transport) Do(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL: %w", err)
	}
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Header {
		httpReq.Header[k] = v
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error during connect: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(contextio.NewReader(ctx, resp.Body))
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}
	return &domain.Response{StatusCode: resp.StatusCode, Body: b}, nil
}
