package client

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
)

type options struct {
	version       domain.Version
	baseURL       string
	proxyURL      string
	httpClient    *http.Client
	transport     domain.Transport
	timeout       time.Duration
	logger        *logrus.Entry
	codec         domain.Codec
	validator     domain.Validator
	decoder       domain.Decoder
	cursorFactory domain.CursorFactory
	idGenerator   domain.IDGenerator
}

// Option configures a [Client] through the functional options pattern.
type Option func(*options)

// WithVersion selects the REST API version. Defaults to [domain.V1].
func WithVersion(v domain.Version) Option {
	return func(o *options) {
		o.version = v
	}
}

// WithBaseURL replaces the base URL of the selected version.
func WithBaseURL(u string) Option {
	return func(o *options) {
		o.baseURL = u
	}
}

// WithProxyURL sends every request of the client through the given proxy.
// Other clients are not affected. When unset, the proxy is read from the
// environment.
func WithProxyURL(u string) Option {
	return func(o *options) {
		o.proxyURL = u
	}
}

// WithHTTPClient sets the HTTP client used by the default transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTransport replaces the default transport. Proxy, HTTP client and
// timeout options are ignored when it is set.
func WithTransport(t domain.Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithTimeout limits the duration of each exchange.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithLogger sets the logger requests are traced with.
func WithLogger(l *logrus.Entry) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithCodec sets the extended JSON codec.
func WithCodec(c domain.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithValidator sets the validator used for local checks.
func WithValidator(v domain.Validator) Option {
	return func(o *options) {
		o.validator = v
	}
}

// WithDecoder sets the decoder used to scan documents into user types.
func WithDecoder(d domain.Decoder) Option {
	return func(o *options) {
		o.decoder = d
	}
}

// WithCursorFactory sets the function cursors are built with.
func WithCursorFactory(f domain.CursorFactory) Option {
	return func(o *options) {
		o.cursorFactory = f
	}
}

// WithIDGenerator sets the generator of request correlation IDs.
func WithIDGenerator(g domain.IDGenerator) Option {
	return func(o *options) {
		o.idGenerator = g
	}
}

// WithSlowMS sets the threshold, in milliseconds, above which operations are
// considered slow by the profiler.
func WithSlowMS(ms int) ProfilingOption {
	return func(po *profilingOptions) {
		po.slowMS = &ms
	}
}

// ProfilingOption configures [Database.SetProfilingLevel].
type ProfilingOption func(*profilingOptions)

type profilingOptions struct {
	slowMS *int
}
