// Package engine contains the default [domain.Engine] implementation, which
// turns a logical REST operation into exactly one HTTP exchange.
package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/codec"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/idgenerator"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/operation"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/timegetter"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/transport"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
)

// ContentType is sent with every request.
const ContentType = "application/json;charset=utf-8"

// RequestIDHeader carries the correlation ID of a request.
const RequestIDHeader = "X-Request-Id"

var emptyBody = []byte("{}")

// Engine implements domain.Engine.
type Engine struct {
	apiKey      string
	version     domain.Version
	baseURL     string
	transport   domain.Transport
	codec       domain.Codec
	idGenerator domain.IDGenerator
	timeGetter  domain.TimeGetter
	log         *logrus.Entry
}

// NewEngine returns a new implementation of domain.Engine. The API key is
// not validated here.
func NewEngine(apiKey string, options ...domain.EngineOption) (domain.Engine, error) {
	opts := domain.EngineOptions{
		Version: domain.V1,
	}
	for _, option := range options {
		option(&opts)
	}

	baseURL, err := operation.BaseURL(opts.Version)
	if err != nil {
		return nil, err
	}
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}

	if opts.Transport == nil {
		if opts.Transport, err = transport.NewTransport(); err != nil {
			return nil, err
		}
	}
	if opts.Codec == nil {
		opts.Codec = codec.NewCodec()
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = idgenerator.NewIDGenerator()
	}
	if opts.TimeGetter == nil {
		opts.TimeGetter = timegetter.NewTimeGetter()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Engine{
		apiKey:      apiKey,
		version:     opts.Version,
		baseURL:     baseURL,
		transport:   opts.Transport,
		codec:       opts.Codec,
		idGenerator: opts.IDGenerator,
		timeGetter:  opts.TimeGetter,
		log:         opts.Logger,
	}, nil
}

// APIKey implements domain.Engine.
func (e *Engine) APIKey() string {
	return e.apiKey
}

// Version implements domain.Engine.
func (e *Engine) Version() domain.Version {
	return e.version
}

// Execute implements domain.Engine.
func (e *Engine) Execute(ctx context.Context, id domain.OperationID, slots domain.Slots, params domain.Params) (domain.Result, error) {
	select {
	case <-ctx.Done():
		return domain.Result{}, ctx.Err()
	default:
	}

	op, err := operation.Lookup(e.version, id)
	if err != nil {
		return domain.Result{}, err
	}
	path := operation.Expand(op.Template, slots)

	req, err := e.buildRequest(op, path, params)
	if err != nil {
		return domain.Result{}, fmt.Errorf("%s: %w", id, err)
	}

	log := e.log.WithFields(logrus.Fields{
		"op":         string(id),
		"method":     op.Method,
		"path":       "/" + path,
		"request_id": req.Header.Get(RequestIDHeader),
	})

	start := e.timeGetter.GetTime()
	resp, err := e.transport.Do(ctx, req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return domain.Result{}, fmt.Errorf("%s: %w", id, err)
	}
	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": e.timeGetter.GetTime().Sub(start),
	}).Debug("request completed")

	return e.result(id, resp)
}

func (e *Engine) buildRequest(op domain.Operation, path string, params domain.Params) (*domain.Request, error) {
	binding, ok := op.Binding()
	if !ok {
		return nil, domain.ErrMethodNotAllowed{Method: op.Method}
	}

	query := url.Values{}
	var body []byte
	var err error
	switch binding {
	case domain.BindQuery:
		err = e.bindQuery(query, params, false)
	case domain.BindBody:
		body, err = e.body(params)
	case domain.BindBodyAndQuery:
		if body, err = e.body(params); err == nil {
			err = e.bindQuery(query, params, true)
		}
	}
	if err != nil {
		return nil, err
	}
	query.Set(domain.ParamAPIKey, e.apiKey)

	requestID, err := e.idGenerator.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("generating request id: %w", err)
	}

	return &domain.Request{
		Method: op.Method,
		URL:    e.baseURL + path,
		Header: http.Header{
			"Content-Type":  {ContentType},
			RequestIDHeader: {requestID},
		},
		Query: query,
		Body:  body,
	}, nil
}

// bindQuery adds params to the query. Strings are sent as they are and every
// other value as JSON, which gives plain decimals for numbers and true or
// false for bools. Nil values are left out.
func (e *Engine) bindQuery(query url.Values, params domain.Params, skipData bool) error {
	for k, v := range params {
		if v == nil || (skipData && k == domain.ParamData) {
			continue
		}
		if s, ok := v.(string); ok {
			query.Set(k, s)
			continue
		}
		b, err := e.codec.Marshal(v)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", k, err)
		}
		query.Set(k, string(b))
	}
	return nil
}

func (e *Engine) body(params domain.Params) ([]byte, error) {
	data, ok := params[domain.ParamData]
	if !ok {
		return emptyBody, nil
	}
	return e.codec.Marshal(data)
}

// result decodes the response body regardless of its status. An undecodable
// body is an error only for successful responses; error pages are kept as
// text so the caller can report them.
func (e *Engine) result(id domain.OperationID, resp *domain.Response) (domain.Result, error) {
	res := domain.Result{Status: resp.StatusCode}
	body, err := e.codec.Unmarshal(resp.Body)
	if err != nil {
		if res.OK() {
			return res, fmt.Errorf("%s: decoding response: %w", id, err)
		}
		res.Body = string(resp.Body)
		return res, nil
	}
	res.Body = body
	return res, nil
}
