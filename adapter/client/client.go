// Package client contains the driver facade: a [Client] bound to one API key,
// the [Database] and [Collection] handles navigated from it and the queries
// they run through the REST API.
package client

import (
	"context"
	"fmt"

	"github.com/vinicius-lino-figueiredo/mongolab/adapter/codec"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/cursor"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/decoder"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/engine"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/restapi"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/transport"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/validator"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
)

// Client is a connection to the REST API, authenticated by an API key. It
// holds no mutable state and may be shared between goroutines.
type Client struct {
	api       *restapi.API
	validator domain.Validator
	decoder   domain.Decoder
	codec     domain.Codec
	newCursor domain.CursorFactory
	apiKey    string
	version   domain.Version
}

// Connect returns a client for apiKey. The key shape is checked locally and
// then the key is checked against the server, so Connect performs one
// request. A key refused by the server yields [domain.ErrInvalidAPIKey].
func Connect(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	o := options{version: domain.V1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.validator == nil {
		o.validator = validator.NewValidator()
	}
	if o.codec == nil {
		o.codec = codec.NewCodec()
	}
	if o.decoder == nil {
		o.decoder = decoder.NewDecoder()
	}
	if o.cursorFactory == nil {
		o.cursorFactory = cursor.NewCursor
	}

	if o.transport == nil {
		tr, err := transport.NewTransport(
			transport.WithProxyURL(o.proxyURL),
			transport.WithHTTPClient(o.httpClient),
			transport.WithTimeout(o.timeout),
		)
		if err != nil {
			return nil, err
		}
		o.transport = tr
	}

	eng, err := engine.NewEngine(apiKey,
		domain.WithEngineVersion(o.version),
		domain.WithEngineBaseURL(o.baseURL),
		domain.WithEngineTransport(o.transport),
		domain.WithEngineCodec(o.codec),
		domain.WithEngineIDGenerator(o.idGenerator),
		domain.WithEngineLogger(o.logger),
	)
	if err != nil {
		return nil, err
	}

	if err := o.validator.CheckAPIKey(apiKey); err != nil {
		return nil, err
	}

	c := &Client{
		api:       restapi.NewAPI(eng, o.validator),
		validator: o.validator,
		decoder:   o.decoder,
		codec:     o.codec,
		newCursor: o.cursorFactory,
		apiKey:    apiKey,
		version:   o.version,
	}

	valid, err := c.api.ValidateAPIKey(ctx)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, domain.ErrInvalidAPIKey{APIKey: apiKey}
	}
	return c, nil
}

// APIKey returns the key the client was connected with.
func (c *Client) APIKey() string {
	return c.apiKey
}

// Version returns the REST API version of the client.
func (c *Client) Version() domain.Version {
	return c.version
}

// Equal reports whether both clients use the same key and version.
func (c *Client) Equal(other *Client) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.apiKey == other.apiKey && c.version == other.version
}

// String implements [fmt.Stringer]. The API key is masked.
func (c *Client) String() string {
	return fmt.Sprintf("Client(%q, %q)", domain.MaskAPIKey(c.apiKey), string(c.version))
}

// Database returns a handle for the database called name. No request is
// made and the name is only checked when the handle is used.
func (c *Client) Database(name string) Database {
	return Database{client: c, name: name}
}

// DatabaseNames returns the names of the databases of the account.
func (c *Client) DatabaseNames(ctx context.Context) ([]string, error) {
	return c.api.ListDatabases(ctx)
}

// Codec returns the codec used on the wire.
func (c *Client) Codec() domain.Codec {
	return c.codec
}
