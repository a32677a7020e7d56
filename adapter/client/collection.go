package client

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	goreflect "github.com/goccy/go-reflect"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/data"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/restapi"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sort directions.
const (
	Ascending  int64 = 1
	Descending int64 = -1
)

const noMatchingObject = "No matching object found"

// InsertResult is the outcome of [Collection.Insert]. Document is set when a
// single document was inserted and holds it as stored, _id included. N is
// the number of inserted documents.
type InsertResult struct {
	Document domain.Document
	N        int64
}

// Collection is a handle for a collection. It is a comparable value.
type Collection struct {
	database Database
	name     string
}

// Name returns the collection name.
func (c Collection) Name() string {
	return c.name
}

// FullName returns the collection name prefixed by the database name, as in
// "db.collection".
func (c Collection) FullName() string {
	return c.database.name + "." + c.name
}

// Database returns the database the collection belongs to.
func (c Collection) Database() Database {
	return c.database
}

// Equal reports whether both handles point to the same collection of equal
// databases.
func (c Collection) Equal(other Collection) bool {
	return c.name == other.name && c.database.Equal(other.database)
}

// String implements [fmt.Stringer].
func (c Collection) String() string {
	return fmt.Sprintf("Collection(%s, %q)", c.database, c.name)
}

// Find queries the collection. When specOrID is a string or an identifier,
// the document with that _id is fetched and the cursor holds only it.
// Otherwise specOrID is a query document, or nil to match everything. The
// whole result set is fetched before Find returns.
func (c Collection) Find(ctx context.Context, specOrID any, opts ...domain.FindOption) (domain.Cursor, error) {
	if err := c.database.check(); err != nil {
		return nil, err
	}
	if id, ok := idString(specOrID); ok {
		doc, err := c.api().ViewDocument(ctx, c.database.name, c.name, id)
		if err != nil {
			return nil, err
		}
		return c.cursor(ctx, []domain.Document{doc})
	}

	var fo domain.FindOptions
	for _, opt := range opts {
		opt(&fo)
	}
	params := map[string]any{
		"skip":  fo.Skip,
		"limit": fo.Limit,
	}
	if specOrID != nil {
		params["spec"] = specOrID
	}
	if fo.Fields != nil {
		params["fields"] = fo.Fields
	}
	if fo.Sort != nil {
		params["sort"] = sortDocument(fo.Sort)
	}

	body, err := c.api().ListDocuments(ctx, c.database.name, c.name, params)
	if err != nil {
		return nil, err
	}
	docs, err := documents(body)
	if err != nil {
		return nil, err
	}
	return c.cursor(ctx, docs)
}

// FindOne decodes into target the first document matching specOrID, which
// follows the rules of [Collection.Find]. If nothing matches, it returns
// [domain.ErrNotFound].
func (c Collection) FindOne(ctx context.Context, specOrID any, target any, opts ...domain.FindOption) error {
	opts = append(opts, domain.WithFindLimit(1))
	cur, err := c.Find(ctx, specOrID, opts...)
	if err != nil {
		return err
	}
	defer cur.Close()
	doc, err := cur.At(0)
	if err != nil {
		return domain.ErrNotFound
	}
	return c.client().decoder.Decode(doc, target)
}

// Count returns the number of documents in the collection. Every document is
// fetched to be counted.
func (c Collection) Count(ctx context.Context) (int, error) {
	cur, err := c.Find(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer cur.Close()
	return cur.Len(), nil
}

// Insert inserts a document or a list of documents.
func (c Collection) Insert(ctx context.Context, docOrDocs any) (InsertResult, error) {
	if err := c.database.check(); err != nil {
		return InsertResult{}, err
	}
	body, err := c.api().InsertDocuments(ctx, c.database.name, c.name, docOrDocs)
	if err != nil {
		return InsertResult{}, err
	}
	if !data.IsSequence(docOrDocs) {
		doc, ok := body.(domain.Document)
		if !ok {
			return InsertResult{}, domain.ErrUnexpectedResponse{Operation: domain.OpInsertDocuments, Expected: "a document", Body: body}
		}
		return InsertResult{Document: doc, N: 1}, nil
	}
	res := InsertResult{N: int64(len(data.Elements(docOrDocs)))}
	if doc, ok := body.(domain.Document); ok {
		if n, ok := restapi.ToInt64(doc.Get("n")); ok {
			res.N = n
		}
	}
	return res, nil
}

// InsertOne inserts a single document and returns it as stored.
func (c Collection) InsertOne(ctx context.Context, doc any) (domain.Document, error) {
	if data.IsSequence(doc) {
		return nil, domain.ErrDocumentType{Expected: "a document", Value: doc}
	}
	res, err := c.Insert(ctx, doc)
	if err != nil {
		return nil, err
	}
	return res.Document, nil
}

// InsertMany inserts a list of documents and returns how many were inserted.
func (c Collection) InsertMany(ctx context.Context, docs []any) (int64, error) {
	if docs == nil {
		docs = []any{}
	}
	res, err := c.Insert(ctx, docs)
	if err != nil {
		return 0, err
	}
	return res.N, nil
}

// Update applies the update operators of update to the documents matching
// spec and returns how many were affected. Only the first match is updated
// unless [domain.WithUpdateMulti] is given.
func (c Collection) Update(ctx context.Context, spec, update any, opts ...domain.UpdateOption) (int64, error) {
	if err := c.database.check(); err != nil {
		return 0, err
	}
	var uo domain.UpdateOptions
	for _, opt := range opts {
		opt(&uo)
	}
	return c.api().UpdateDocuments(ctx, c.database.name, c.name, nilSpec(spec), update, uo.Upsert, uo.Multi)
}

// Remove deletes the document with the given _id when specOrID is a string
// or an identifier, or every document matching specOrID otherwise. A nil
// spec removes every document. It returns how many documents were removed.
func (c Collection) Remove(ctx context.Context, specOrID any) (int64, error) {
	if err := c.database.check(); err != nil {
		return 0, err
	}
	if id, ok := idString(specOrID); ok {
		if _, err := c.api().DeleteDocument(ctx, c.database.name, c.name, id); err != nil {
			return 0, err
		}
		return 1, nil
	}
	return c.api().DeleteReplaceDocuments(ctx, c.database.name, c.name, nilSpec(specOrID), nil)
}

// ReplaceByID replaces the document with the given _id and returns the
// document as stored.
func (c Collection) ReplaceByID(ctx context.Context, id any, doc any) (domain.Document, error) {
	if err := c.database.check(); err != nil {
		return nil, err
	}
	s, ok := idString(id)
	if !ok {
		return nil, domain.ErrDocumentType{Expected: "a string or an ObjectID", Value: id}
	}
	body, err := c.api().UpdateDocument(ctx, c.database.name, c.name, s, doc)
	if err != nil {
		return nil, err
	}
	res, ok := body.(domain.Document)
	if !ok {
		return nil, domain.ErrUnexpectedResponse{Operation: domain.OpUpdateDocument, Expected: "a document", Body: body}
	}
	return res, nil
}

// Distinct returns the distinct values of key among the documents of the
// collection.
func (c Collection) Distinct(ctx context.Context, key string) ([]any, error) {
	res, err := c.database.RunCommand(ctx, data.D{
		{Key: "distinct", Value: c.name},
		{Key: "key", Value: key},
	})
	if err != nil {
		return nil, err
	}
	values, ok := res.Get("values").([]any)
	if !ok {
		return nil, domain.ErrUnexpectedResponse{Operation: domain.OpRunCommand, Expected: `a list in "values"`, Body: res}
	}
	return values, nil
}

// FindAndModify updates or removes a single document matching query and
// returns it, as it was before the change unless
// [domain.WithFindAndModifyNew] is given. Either an update document or
// [domain.WithFindAndModifyRemove] is required, but not both. If nothing
// matches, it returns [domain.ErrNotFound].
func (c Collection) FindAndModify(ctx context.Context, query, update any, opts ...domain.FindAndModifyOption) (domain.Document, error) {
	fo := domain.FindAndModifyOptions{Update: update}
	for _, opt := range opts {
		opt(&fo)
	}
	if update != nil {
		fo.Update = update
	}
	if fo.Update == nil && !fo.Remove {
		return nil, domain.ErrMustUpdateOrRemove
	}
	if fo.Update != nil && fo.Remove {
		return nil, domain.ErrUpdateAndRemove
	}

	cmd := data.D{{Key: "findAndModify", Value: c.name}}
	if query != nil {
		cmd = append(cmd, data.E{Key: "query", Value: query})
	}
	if fo.Update != nil {
		cmd = append(cmd, data.E{Key: "update", Value: fo.Update})
	}
	if fo.Upsert {
		cmd = append(cmd, data.E{Key: "upsert", Value: true})
	}
	if fo.Sort != nil {
		sort, err := findAndModifySort(fo.Sort)
		if err != nil {
			return nil, err
		}
		cmd = append(cmd, data.E{Key: "sort", Value: sort})
	}
	if fo.Remove {
		cmd = append(cmd, data.E{Key: "remove", Value: true})
	}
	if fo.New {
		cmd = append(cmd, data.E{Key: "new", Value: true})
	}
	if fo.Fields != nil {
		cmd = append(cmd, data.E{Key: "fields", Value: fo.Fields})
	}

	res, err := c.database.RunCommand(ctx, cmd)
	if err != nil {
		var remote domain.ErrRemote
		if errors.As(err, &remote) && remote.Message == noMatchingObject {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !truthy(res.Get("ok")) {
		msg, _ := res.Get("errmsg").(string)
		if msg == noMatchingObject {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrRemote{Operation: domain.OpRunCommand, Status: 200, Message: msg}
	}
	switch value := res.Get("value").(type) {
	case domain.Document:
		return value, nil
	case nil:
		return nil, domain.ErrNotFound
	default:
		return nil, domain.ErrUnexpectedResponse{Operation: domain.OpRunCommand, Expected: `a document in "value"`, Body: res}
	}
}

// Reindex rebuilds every index of the collection.
func (c Collection) Reindex(ctx context.Context) (domain.Document, error) {
	res, err := c.database.Command(ctx, "reIndex", c.name)
	if err != nil {
		return nil, err
	}
	res.Unset(fieldServerUsed)
	return res, nil
}

func (c Collection) client() *Client {
	return c.database.client
}

func (c Collection) api() *restapi.API {
	return c.database.client.api
}

func (c Collection) cursor(ctx context.Context, docs []domain.Document) (domain.Cursor, error) {
	return c.client().newCursor(ctx, docs, domain.WithCursorDecoder(c.client().decoder))
}

// idString returns the path form of an _id given as a string or an
// identifier.
func idString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case primitive.ObjectID:
		return t.Hex(), true
	case *primitive.ObjectID:
		if t == nil {
			return "", false
		}
		return t.Hex(), true
	default:
		return "", false
	}
}

// nilSpec turns typed nils, such as a nil map or a nil identifier pointer,
// into an untyped nil so they match every document instead of being sent as
// null.
func nilSpec(v any) any {
	if v == nil {
		return nil
	}
	r := goreflect.ValueNoEscapeOf(v)
	switch r.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		if r.IsNil() {
			return nil
		}
	}
	return v
}

func documents(body any) ([]domain.Document, error) {
	l, ok := body.([]any)
	if !ok {
		return nil, domain.ErrUnexpectedResponse{Operation: domain.OpListDocuments, Expected: "a list of documents", Body: body}
	}
	docs := make([]domain.Document, len(l))
	for n, v := range l {
		doc, ok := v.(domain.Document)
		if !ok {
			return nil, domain.ErrUnexpectedResponse{Operation: domain.OpListDocuments, Expected: "a list of documents", Body: body}
		}
		docs[n] = doc
	}
	return docs, nil
}

// sortDocument turns a [domain.Sort] into an ordered document. Other values
// are returned as they are.
func sortDocument(v any) any {
	s, ok := v.(domain.Sort)
	if !ok {
		return v
	}
	res := make(data.D, len(s))
	for n, sn := range s {
		res[n] = data.E{Key: sn.Key, Value: sn.Order}
	}
	return res
}

// findAndModifySort accepts a [domain.Sort], an ordered document or an
// unordered one with a single key, since order is meaningless otherwise.
func findAndModifySort(v any) (any, error) {
	switch t := v.(type) {
	case domain.Sort:
		if len(t) == 0 {
			return nil, domain.ErrOptionType{Name: "sort", Expected: "a non-empty sort", Value: v}
		}
		return sortDocument(t), nil
	case data.D, *data.Ordered:
		return t, nil
	}
	if !data.IsMapping(v) {
		return nil, domain.ErrOptionType{Name: "sort", Expected: "a Sort or a document", Value: v}
	}
	doc, err := data.NewDocument(v)
	if err != nil {
		return nil, err
	}
	if doc.Len() != 1 {
		return nil, domain.ErrOptionType{Name: "sort", Expected: "a Sort, an ordered document or a document with one key", Value: v}
	}
	return doc, nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	default:
		n, ok := restapi.ToInt64(t)
		if !ok {
			f, isFloat := t.(float64)
			return isFloat && f != 0
		}
		return n != 0
	}
}
