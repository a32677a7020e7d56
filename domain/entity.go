package domain

import (
	"net/http"
	"net/url"
)

// Version selects a REST API base URL and the operation table bound to it.
type Version string

// V1 is the only REST API version currently served by MongoLab.
const V1 Version = "v1"

// OperationID identifies a logical REST operation in an operation table.
type OperationID string

// Logical operations known to the v1 operation table.
const (
	OpValidateAPIKey         OperationID = "validate-api-key"
	OpListDatabases          OperationID = "list-databases"
	OpListCollections        OperationID = "list-collections"
	OpListDocuments          OperationID = "list-documents"
	OpInsertDocuments        OperationID = "insert-multiple-documents"
	OpUpdateDocuments        OperationID = "update-multiple-documents"
	OpDeleteReplaceDocuments OperationID = "deletereplace-multiple-documents"
	OpViewDocument           OperationID = "view-document"
	OpUpdateDocument         OperationID = "update-document"
	OpDeleteDocument         OperationID = "delete-document"
	OpRunCommand             OperationID = "run-database-collection-level-commands"
)

// Binding tells the engine where keyword parameters of an operation travel.
type Binding int

const (
	// BindQuery sends every parameter in the query string and no body.
	BindQuery Binding = iota
	// BindBody sends the data parameter as body and nothing else but the
	// API key in the query string.
	BindBody
	// BindBodyAndQuery sends the data parameter as body and every other
	// parameter in the query string.
	BindBodyAndQuery
)

// Operation is an immutable operation descriptor: an HTTP method and a URL
// template relative to the version base URL. Template slots are written as
// {name}.
type Operation struct {
	ID       OperationID
	Method   string
	Template string
}

// Binding returns how parameters are bound for the operation method. The
// second value is false for methods the engine cannot send.
func (o Operation) Binding() (Binding, bool) {
	switch o.Method {
	case http.MethodGet, http.MethodDelete:
		return BindQuery, true
	case http.MethodPost:
		return BindBody, true
	case http.MethodPut:
		return BindBodyAndQuery, true
	default:
		return 0, false
	}
}

// Slots holds the values for the named placeholders of an operation URL
// template, such as "db", "col" and "id".
type Slots map[string]string

// Params holds the keyword data of a request. The value under [ParamData]
// is the request body; the rest are bound according to the operation.
type Params map[string]any

// ParamData is the keyword carrying the request body.
const ParamData = "data"

// ParamAPIKey is the query parameter carrying the credential.
const ParamAPIKey = "apiKey"

// Result is the normalized outcome of a REST exchange. Body holds the
// decoded JSON body, or the raw text of an undecodable error body.
type Result struct {
	Status int
	Body   any
}

// OK reports whether Status is a 2xx code.
func (r Result) OK() bool {
	return r.Status >= http.StatusOK && r.Status < http.StatusMultipleChoices
}

// Request is what the engine hands over to a [Transport].
type Request struct {
	Method string
	URL    string
	Header http.Header
	Query  url.Values
	Body   []byte
}

// Response is what a [Transport] returns for a completed exchange, regardless
// of its status code.
type Response struct {
	StatusCode int
	Body       []byte
}

// Sort represents an ordered list of fields which should be used to sort query
// results, applied in sequence.
type Sort = []SortName

// SortName represents a single field and the order which should be used to sort
// it. A positive Order value means ascending order and a negative value means
// descending order.
type SortName struct {
	Key   string
	Order int64
}
