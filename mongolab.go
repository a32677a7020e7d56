// Package mongolab provides a MongoDB-like driver for golang backed by the
// MongoLab REST API.
//
// Every operation is a single HTTPS round trip. There is no wire protocol,
// connection pool or server-side cursor: query results are fetched eagerly
// and iterated locally.
//
// The basic usage starts with creating a new [Client], which can be done by
// calling [Connect]. Databases and collections are navigated from it.
package mongolab

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/client"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/data"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when [Collection.FindOne] or
	// [Collection.FindAndModify] cannot find any matching document.
	ErrNotFound = domain.ErrNotFound
	// ErrCursorClosed is returned when trying to perform operations on a
	// closed [Cursor].
	ErrCursorClosed = domain.ErrCursorClosed
	// ErrScanBeforeNext is returned when calling [Cursor.Scan] before
	// calling [Cursor.Next].
	ErrScanBeforeNext = domain.ErrScanBeforeNext
	// ErrNoCurrentDocument is returned when calling [Cursor.Scan] after
	// [Cursor.Next] returned false.
	ErrNoCurrentDocument = domain.ErrNoCurrentDocument
	// ErrTargetNil is returned when user provides a nil value as a target
	// to decode data, for example, calling [Collection.FindOne].
	ErrTargetNil = domain.ErrTargetNil
	// ErrMustUpdateOrRemove is returned by [Collection.FindAndModify] when
	// neither an update nor removal was asked for.
	ErrMustUpdateOrRemove = domain.ErrMustUpdateOrRemove
	// ErrUpdateAndRemove is returned by [Collection.FindAndModify] when both
	// an update and removal were asked for.
	ErrUpdateAndRemove = domain.ErrUpdateAndRemove
)

// ErrBadAPIKeyFormat is returned by [Connect] when the API key is malformed.
type ErrBadAPIKeyFormat = domain.ErrBadAPIKeyFormat

// ErrInvalidAPIKey is returned by [Connect] when the server refuses the key.
type ErrInvalidAPIKey = domain.ErrInvalidAPIKey

// ErrUnsupportedVersion is returned by [Connect] for unknown API versions.
type ErrUnsupportedVersion = domain.ErrUnsupportedVersion

// ErrInvalidName is returned when a database handle with an illegal name is
// used.
type ErrInvalidName = domain.ErrInvalidName

// ErrInvalidUpdateOperator is returned when an update document has a
// top-level key that is not an update operator.
type ErrInvalidUpdateOperator = domain.ErrInvalidUpdateOperator

// ErrInvalidOption is returned when an unknown query option is given.
type ErrInvalidOption = domain.ErrInvalidOption

// ErrOptionType is returned when an option has a value of the wrong type.
type ErrOptionType = domain.ErrOptionType

// ErrDocumentType is returned when an user passes a value that is not a
// document where one was expected.
type ErrDocumentType = domain.ErrDocumentType

// ErrRemote is returned when the server reports a failure.
type ErrRemote = domain.ErrRemote

// ErrUnexpectedResponse is returned when a response body does not have the
// expected shape.
type ErrUnexpectedResponse = domain.ErrUnexpectedResponse

// ErrDecode is returned by [Decoder.Decode] to easily wrap third party decoding
// errors.
type ErrDecode = domain.ErrDecode

// Connect returns a [Client] for apiKey with the provided configuration
// options:
//
// - [WithVersion]: selects the REST API version.
//
// - [WithBaseURL]: replaces the base URL of the selected version.
//
// - [WithProxyURL]: sends the requests of this client through a proxy.
//
// - [WithHTTPClient]: sets the HTTP client of the default transport.
//
// - [WithTimeout]: limits the duration of each exchange.
//
// - [WithTransport]: replaces the default transport.
//
// - [WithLogger]: sets the logger requests are traced with.
//
// - [WithCodec]: sets the extended JSON codec.
//
// - [WithValidator]: sets the validator used for local checks.
//
// - [WithDecoder]: sets the decoder for data format conversions.
//
// - [WithCursorFactory]: sets the function for creating cursor instances.
//
// - [WithIDGenerator]: sets the generator of request IDs.
//
// The key is checked against the server, so Connect performs one request.
func Connect(ctx context.Context, apiKey string, options ...Option) (*Client, error) {
	return client.Connect(ctx, apiKey, options...)
}

// Client is a connection to the REST API bound to one API key.
type Client = client.Client

// Database is a handle for a database of the account.
type Database = client.Database

// Collection is a handle for a collection of a database.
type Collection = client.Collection

// InsertResult is returned by [Collection.Insert].
type InsertResult = client.InsertResult

// ProfilingLevel is the level of the database profiler.
type ProfilingLevel = client.ProfilingLevel

// Profiling levels.
const (
	ProfilingOff      = client.Off
	ProfilingSlowOnly = client.SlowOnly
	ProfilingAll      = client.All
)

// Sort directions.
const (
	Ascending  = client.Ascending
	Descending = client.Descending
)

// Version selects the REST API version.
type Version = domain.Version

// V1 is the only REST API version served by MongoLab.
const V1 = domain.V1

// ObjectID is the identifier type of documents.
type ObjectID = primitive.ObjectID

// NewObjectID returns a new unique [ObjectID].
func NewObjectID() ObjectID {
	return primitive.NewObjectID()
}

// Document represents a record sent to or received from the REST API.
type Document = domain.Document

// D is an ordered document literal. Use it when key order matters, as in
// commands and sorts.
type D = data.D

// E is a single field of a [D].
type E = data.E

// M is an unordered document literal.
type M = data.M

// NewDocument creates a [Document] from a map, a struct or another document.
func NewDocument(v any) (Document, error) {
	return data.NewDocument(v)
}

// Codec converts values to and from extended JSON.
type Codec = domain.Codec

// Transport performs HTTP exchanges.
type Transport = domain.Transport

// Validator runs local checks before requests are sent.
type Validator = domain.Validator

// Decoder converts documents into user types.
type Decoder = domain.Decoder

// Cursor iterates over an eagerly fetched result set.
type Cursor = domain.Cursor

// IDGenerator creates request IDs.
type IDGenerator = domain.IDGenerator

// CursorFactory represents a function that constructs [Cursor] instances.
type CursorFactory = domain.CursorFactory

// Sort represents an ordered list of fields which should be used to sort query
// results, applied in sequence.
type Sort = domain.Sort

// SortName represents a single field and the order which should be used to sort
// it.
type SortName = domain.SortName

// FindOption configures [Collection.Find] and [Collection.FindOne].
type FindOption = domain.FindOption

// WithFields specifies which fields to include or exclude from results.
func WithFields(f any) FindOption {
	return domain.WithFindFields(f)
}

// WithSkip sets the number of documents to skip.
func WithSkip(s int) FindOption {
	return domain.WithFindSkip(s)
}

// WithLimit sets the maximum number of documents to return.
func WithLimit(l int) FindOption {
	return domain.WithFindLimit(l)
}

// WithSort specifies the sort order of the results.
func WithSort(s any) FindOption {
	return domain.WithFindSort(s)
}

// UpdateOption configures [Collection.Update].
type UpdateOption = domain.UpdateOption

// WithUpdateMulti enables updating every matching document.
func WithUpdateMulti(m bool) UpdateOption {
	return domain.WithUpdateMulti(m)
}

// WithUpsert enables inserting a document if no matches are found.
func WithUpsert(u bool) UpdateOption {
	return domain.WithUpsert(u)
}

// FindAndModifyOption configures [Collection.FindAndModify].
type FindAndModifyOption = domain.FindAndModifyOption

// WithFindAndModifyUpsert inserts a document if no matches are found.
func WithFindAndModifyUpsert(u bool) FindAndModifyOption {
	return domain.WithFindAndModifyUpsert(u)
}

// WithFindAndModifySort chooses the document modified when many match.
func WithFindAndModifySort(s any) FindAndModifyOption {
	return domain.WithFindAndModifySort(s)
}

// WithFindAndModifyRemove removes the matched document.
func WithFindAndModifyRemove(r bool) FindAndModifyOption {
	return domain.WithFindAndModifyRemove(r)
}

// WithFindAndModifyNew returns the modified document instead of the original.
func WithFindAndModifyNew(n bool) FindAndModifyOption {
	return domain.WithFindAndModifyNew(n)
}

// WithFindAndModifyFields limits the fields of the returned document.
func WithFindAndModifyFields(f any) FindAndModifyOption {
	return domain.WithFindAndModifyFields(f)
}

// ProfilingOption configures [Database.SetProfilingLevel].
type ProfilingOption = client.ProfilingOption

// WithSlowMS sets the slow operation threshold, in milliseconds.
func WithSlowMS(ms int) ProfilingOption {
	return client.WithSlowMS(ms)
}

// Option configures [Connect].
type Option = client.Option

// WithVersion selects the REST API version. Defaults to [V1].
func WithVersion(v Version) Option {
	return client.WithVersion(v)
}

// WithBaseURL replaces the base URL of the selected version.
func WithBaseURL(u string) Option {
	return client.WithBaseURL(u)
}

// WithProxyURL sends every request of the client through the given proxy.
func WithProxyURL(u string) Option {
	return client.WithProxyURL(u)
}

// WithHTTPClient sets the HTTP client of the default transport.
func WithHTTPClient(c *http.Client) Option {
	return client.WithHTTPClient(c)
}

// WithTimeout limits the duration of each exchange.
func WithTimeout(d time.Duration) Option {
	return client.WithTimeout(d)
}

// WithTransport replaces the default transport.
func WithTransport(t Transport) Option {
	return client.WithTransport(t)
}

// WithLogger sets the logger requests are traced with.
func WithLogger(l *logrus.Entry) Option {
	return client.WithLogger(l)
}

// WithCodec sets the extended JSON codec.
func WithCodec(c Codec) Option {
	return client.WithCodec(c)
}

// WithValidator sets the validator used for local checks.
func WithValidator(v Validator) Option {
	return client.WithValidator(v)
}

// WithDecoder sets the decoder used to scan documents into user types.
func WithDecoder(d Decoder) Option {
	return client.WithDecoder(d)
}

// WithCursorFactory sets the function cursors are built with.
func WithCursorFactory(f CursorFactory) Option {
	return client.WithCursorFactory(f)
}

// WithIDGenerator sets the generator of request IDs.
func WithIDGenerator(g IDGenerator) Option {
	return client.WithIDGenerator(g)
}
