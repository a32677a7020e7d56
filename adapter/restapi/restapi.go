// Package restapi wraps every operation of the MongoLab REST API in a typed
// call, checking its inputs and interpreting its response.
package restapi

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/vinicius-lino-figueiredo/mongolab/domain"
)

// Keys read from response bodies.
const (
	keyMessage = "message"
	keyErrMsg  = "errmsg"
	keyError   = "error"
	keyN       = "n"
)

// API performs the REST operations through an engine. Every call is one
// round trip; nothing is cached or retried.
type API struct {
	engine    domain.Engine
	validator domain.Validator
}

// NewAPI returns an API running requests through engine and checking inputs
// with validator.
func NewAPI(engine domain.Engine, validator domain.Validator) *API {
	return &API{engine: engine, validator: validator}
}

// Engine returns the engine requests are executed with.
func (a *API) Engine() domain.Engine {
	return a.engine
}

// ValidateAPIKey calls the API root and reports whether the key was
// accepted. Only transport failures are errors.
func (a *API) ValidateAPIKey(ctx context.Context) (bool, error) {
	res, err := a.engine.Execute(ctx, domain.OpValidateAPIKey, nil, nil)
	if err != nil {
		return false, err
	}
	return res.Status == http.StatusOK, nil
}

// ListDatabases returns the database names of the account.
func (a *API) ListDatabases(ctx context.Context) ([]string, error) {
	body, err := a.call(ctx, domain.OpListDatabases, nil, nil)
	if err != nil {
		return nil, err
	}
	return names(domain.OpListDatabases, body)
}

// ListCollections returns the collection names of database db.
func (a *API) ListCollections(ctx context.Context, db string) ([]string, error) {
	body, err := a.call(ctx, domain.OpListCollections, domain.Slots{"db": db}, nil)
	if err != nil {
		return nil, err
	}
	return names(domain.OpListCollections, body)
}

// ListDocuments queries a collection. Options use their long names (spec,
// fields, sort, skip, limit, count, find_one). The result is a list of
// documents, a single document when find_one is set, or a number when count
// is set.
func (a *API) ListDocuments(ctx context.Context, db, col string, options map[string]any) (any, error) {
	params, err := a.validator.ListDocumentsParams(options)
	if err != nil {
		return nil, err
	}
	return a.call(ctx, domain.OpListDocuments, collectionSlots(db, col), params)
}

// InsertDocuments inserts a document or a list of documents and returns the
// server answer, which holds the inserted documents.
func (a *API) InsertDocuments(ctx context.Context, db, col string, docOrDocs any) (any, error) {
	if err := a.validator.CheckDocumentsToInsert(docOrDocs); err != nil {
		return nil, err
	}
	return a.call(ctx, domain.OpInsertDocuments, collectionSlots(db, col), domain.Params{
		domain.ParamData: docOrDocs,
	})
}

// UpdateDocuments applies update to the documents matching spec and returns
// how many were affected. An error reported in the body of a successful
// response is returned as [domain.ErrRemote].
func (a *API) UpdateDocuments(ctx context.Context, db, col string, spec, update any, upsert, multi bool) (int64, error) {
	if err := a.validator.CheckDocumentToUpdate(update); err != nil {
		return 0, err
	}
	if spec == nil {
		spec = map[string]any{}
	}
	res, err := a.engine.Execute(ctx, domain.OpUpdateDocuments, collectionSlots(db, col), domain.Params{
		domain.ParamData: update,
		"q":              spec,
		"m":              multi,
		"u":              upsert,
	})
	if err != nil {
		return 0, err
	}
	if err := check(domain.OpUpdateDocuments, res); err != nil {
		return 0, err
	}
	doc, ok := res.Body.(domain.Document)
	if !ok {
		return 0, domain.ErrUnexpectedResponse{Operation: domain.OpUpdateDocuments, Expected: "a document", Body: res.Body}
	}
	if e := doc.Get(keyError); e != nil {
		return 0, domain.ErrRemote{Operation: domain.OpUpdateDocuments, Status: res.Status, Message: fmt.Sprint(e)}
	}
	return count(domain.OpUpdateDocuments, doc)
}

// DeleteReplaceDocuments replaces the documents matching spec with
// documents, deleting them when documents is empty, and returns how many
// were affected.
func (a *API) DeleteReplaceDocuments(ctx context.Context, db, col string, spec any, documents []any) (int64, error) {
	if spec == nil {
		spec = map[string]any{}
	}
	if documents == nil {
		documents = []any{}
	}
	body, err := a.call(ctx, domain.OpDeleteReplaceDocuments, collectionSlots(db, col), domain.Params{
		domain.ParamData: documents,
		"q":              spec,
	})
	if err != nil {
		return 0, err
	}
	doc, ok := body.(domain.Document)
	if !ok {
		return 0, domain.ErrUnexpectedResponse{Operation: domain.OpDeleteReplaceDocuments, Expected: "a document", Body: body}
	}
	return count(domain.OpDeleteReplaceDocuments, doc)
}

// ViewDocument returns the document with the given _id.
func (a *API) ViewDocument(ctx context.Context, db, col, id string) (domain.Document, error) {
	body, err := a.call(ctx, domain.OpViewDocument, documentSlots(db, col, id), nil)
	if err != nil {
		return nil, err
	}
	return document(domain.OpViewDocument, body)
}

// UpdateDocument replaces the document with the given _id and returns the
// server answer.
func (a *API) UpdateDocument(ctx context.Context, db, col, id string, doc any) (any, error) {
	return a.call(ctx, domain.OpUpdateDocument, documentSlots(db, col, id), domain.Params{
		domain.ParamData: doc,
	})
}

// DeleteDocument deletes the document with the given _id and returns the
// server answer, which holds the deleted document.
func (a *API) DeleteDocument(ctx context.Context, db, col, id string) (any, error) {
	return a.call(ctx, domain.OpDeleteDocument, documentSlots(db, col, id), nil)
}

// RunCommand runs a database or collection level command on db.
func (a *API) RunCommand(ctx context.Context, db string, command any) (domain.Document, error) {
	body, err := a.call(ctx, domain.OpRunCommand, domain.Slots{"db": db}, domain.Params{
		domain.ParamData: command,
	})
	if err != nil {
		return nil, err
	}
	return document(domain.OpRunCommand, body)
}

func (a *API) call(ctx context.Context, op domain.OperationID, slots domain.Slots, params domain.Params) (any, error) {
	res, err := a.engine.Execute(ctx, op, slots, params)
	if err != nil {
		return nil, err
	}
	if err := check(op, res); err != nil {
		return nil, err
	}
	return res.Body, nil
}

// check turns a non-2xx result into [domain.ErrRemote], carrying the message
// found in the body, if any.
func check(op domain.OperationID, res domain.Result) error {
	if res.OK() {
		return nil
	}
	return domain.ErrRemote{Operation: op, Status: res.Status, Message: message(res)}
}

func message(res domain.Result) string {
	switch t := res.Body.(type) {
	case domain.Document:
		for _, k := range []string{keyMessage, keyErrMsg, keyError} {
			if m, ok := t.Get(k).(string); ok && m != "" {
				return m
			}
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return s
		}
	}
	return http.StatusText(res.Status)
}

func collectionSlots(db, col string) domain.Slots {
	return domain.Slots{"db": db, "col": col}
}

func documentSlots(db, col, id string) domain.Slots {
	return domain.Slots{"db": db, "col": col, "id": id}
}

func names(op domain.OperationID, body any) ([]string, error) {
	l, ok := body.([]any)
	if !ok {
		return nil, domain.ErrUnexpectedResponse{Operation: op, Expected: "a list of names", Body: body}
	}
	res := make([]string, len(l))
	for n, v := range l {
		s, ok := v.(string)
		if !ok {
			return nil, domain.ErrUnexpectedResponse{Operation: op, Expected: "a list of names", Body: body}
		}
		res[n] = s
	}
	return res, nil
}

func document(op domain.OperationID, body any) (domain.Document, error) {
	doc, ok := body.(domain.Document)
	if !ok {
		return nil, domain.ErrUnexpectedResponse{Operation: op, Expected: "a document", Body: body}
	}
	return doc, nil
}

func count(op domain.OperationID, doc domain.Document) (int64, error) {
	n, ok := ToInt64(doc.Get(keyN))
	if !ok {
		return 0, domain.ErrUnexpectedResponse{Operation: op, Expected: `a numeric "n"`, Body: doc}
	}
	return n, nil
}

// ToInt64 converts a decoded JSON number to int64. Floats are accepted only
// when integral.
func ToInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int64(t), true
	default:
		return 0, false
	}
}
