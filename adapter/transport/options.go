package transport

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/containerd/errdefs"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type config struct {
	proxyURL  *url.URL
	client    *http.Client
	timeout   time.Duration
	traceOpts []otelhttp.Option
}

// Option configures a [Transport]. Options may fail, in which case
// [NewTransport] returns the error.
type Option func(*config) error

// WithProxyURL routes every request through the given proxy. The setting
// only affects the transport it is given to.
func WithProxyURL(proxyURL string) Option {
	return func(c *config) error {
		if proxyURL == "" {
			c.proxyURL = nil
			return nil
		}
		u, err := url.Parse(proxyURL)
		if err != nil {
			return fmt.Errorf("invalid proxy URL %q: %w: %w", proxyURL, errdefs.ErrInvalidArgument, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid proxy URL %q: %w", proxyURL, errdefs.ErrInvalidArgument)
		}
		c.proxyURL = u
		return nil
	}
}

// WithHTTPClient uses the given client as it is. Proxy and trace options are
// ignored in that case.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) error {
		c.client = client
		return nil
	}
}

// WithTimeout limits the time of a whole exchange, body read included.
func WithTimeout(d time.Duration) Option {
	return func(c *config) error {
		c.timeout = d
		return nil
	}
}

// WithTraceOptions sets tracing span options for the default client.
func WithTraceOptions(opts ...otelhttp.Option) Option {
	return func(c *config) error {
		c.traceOpts = append(c.traceOpts, opts...)
		return nil
	}
}
