// Package domain contains domain-specific interfaces and option types for
// mongolab.
//
// This package defines the core interfaces that must be implemented by
// adapters, as well as functional options for configuring the engine, the
// cursor and the query helpers of the driver facade.
package domain

import (
	"context"
	"iter"
	"time"
)

// Document represents a record returned by the REST API or built by the user
// to be sent to it. Key order is preserved by the default implementation, so
// Iter, Keys and Values yield fields in insertion order.
type Document interface {
	// ID returns the document _id, if any, or nil.
	ID() any
	// D returns the subdocument for the given key, if any.
	D(string) Document
	// Get returns the value under the given key, or nil if unset.
	Get(string) any
	// Set sets the value under the given key.
	Set(string, any)
	// Unset unsets the value under the given key.
	Unset(string)
	// Iter returns a sequence of key-value pairs in the document.
	Iter() iter.Seq2[string, any]
	// Keys returns a sequence of keys in the document.
	Keys() iter.Seq[string]
	// Values returns a sequence of values in the document.
	Values() iter.Seq[any]
	// Has reports whether a value is set under the given key.
	Has(string) bool
	// Len returns the number of set fields in the document.
	Len() int
}

// Codec converts values to and from the extended JSON used on the wire, where
// identifiers and timestamps travel as {"$oid": ...} and {"$date": ...}.
type Codec interface {
	// Marshal encodes a value as extended JSON.
	Marshal(any) ([]byte, error)
	// Unmarshal parses extended JSON, replacing extended values by their
	// native counterparts.
	Unmarshal([]byte) (any, error)
	// EncodeValue converts a value into a tree of JSON-representable
	// values, replacing identifiers and timestamps by their wire form.
	EncodeValue(any) (any, error)
	// DecodeValue replaces, innermost first, every wire-form extended
	// value found in a tree by its native counterpart.
	DecodeValue(any) (any, error)
}

// Transport performs a single HTTP exchange. Non-2xx responses are not
// errors; only failures to complete the exchange are.
type Transport interface {
	Do(context.Context, *Request) (*Response, error)
}

// Engine turns a logical operation into exactly one HTTP exchange and
// normalizes its outcome.
type Engine interface {
	// Execute runs the operation op. slots must supply every placeholder
	// of the operation URL template; a missing slot is a programming
	// error and panics.
	Execute(ctx context.Context, op OperationID, slots Slots, params Params) (Result, error)
	// APIKey returns the credential appended to every request.
	APIKey() string
	// Version returns the API version the engine was built for.
	Version() Version
}

// Validator runs local checks before a request is built.
type Validator interface {
	// CheckAPIKey checks the lexical shape of an API key.
	CheckAPIKey(string) error
	// CheckDatabaseName checks that a database name is legal.
	CheckDatabaseName(string) error
	// ListDocumentsParams checks list-documents options, drops those
	// equal to their default and renames the rest to their wire keys.
	ListDocumentsParams(map[string]any) (Params, error)
	// CheckDocumentsToInsert checks that the payload is a document or a
	// sequence of documents.
	CheckDocumentsToInsert(any) error
	// CheckDocumentToUpdate checks that every top-level key is a known
	// update operator.
	CheckDocumentToUpdate(any) error
}

// Decoder converts between different data representations.
type Decoder interface {
	// Decode converts from one data format to another.
	Decode(any, any) error
}

// IDGenerator is used to create unique IDs for outgoing requests.
type IDGenerator interface {
	// GenerateID returns a new unique ID.
	GenerateID() (string, error)
}

// TimeGetter provides the current time, so request durations can be
// measured deterministically in tests.
type TimeGetter interface {
	GetTime() time.Time
}

// Cursor provides iteration and random access over an eagerly fetched result
// set.
type Cursor interface {
	// Scan decodes the current document into target.
	Scan(ctx context.Context, target any) error
	// Next advances the cursor to the next document, returning true if available.
	Next() bool
	// Err returns any error that occurred during iteration.
	Err() error
	// Close releases cursor resources and should be called when done.
	Close() error
	// Len returns the number of documents in the result set.
	Len() int
	// At returns the document at index i. Negative indexes count from
	// the end of the result set.
	At(i int) (Document, error)
	// Slice returns the documents in the half-open range [i, j), with
	// the same negative index rule as At and bounds clamped to the result
	// set.
	Slice(i, j int) []Document
	// All returns every document in the result set.
	All() []Document
	// Rewind moves the cursor back before the first document.
	Rewind()
}

// DocumentFactory represents a function that constructs [Document] instances
// from structured data types. If nil is provided, returns an empty document.
type DocumentFactory = func(any) (Document, error)

// CursorFactory represents a function that constructs [Cursor] instances from a
// set of documents with configurable options.
type CursorFactory = func(context.Context, []Document, ...CursorOption) (Cursor, error)
