package domain

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/containerd/errdefs"
)

var (
	// ErrNotFound is returned when a query that should yield a document
	// yields none.
	ErrNotFound = fmt.Errorf("document %w", errdefs.ErrNotFound)
	// ErrCursorClosed is returned when trying to perform operations on a
	// closed [Cursor].
	ErrCursorClosed = errors.New("cursor is closed")
	// ErrScanBeforeNext is returned when calling [Cursor.Scan] before
	// calling [Cursor.Next].
	ErrScanBeforeNext = errors.New("called Scan before calling Next")
	// ErrNoCurrentDocument is returned when calling [Cursor.Scan] after
	// [Cursor.Next] returned false.
	ErrNoCurrentDocument = errors.New("cursor has no current document")
	// ErrTargetNil is returned when the passed target, which should be a
	// pointer, is passed as a nil value.
	ErrTargetNil = errors.New("target interface is nil")
	// ErrNonPointer is returned when the passed target is not a pointer.
	ErrNonPointer = errors.New("target should be a pointer")
	// ErrMustUpdateOrRemove is returned by findAndModify helpers when
	// neither an update document nor the remove flag is given.
	ErrMustUpdateOrRemove = fmt.Errorf("must either update or remove: %w", errdefs.ErrInvalidArgument)
	// ErrUpdateAndRemove is returned by findAndModify helpers when both
	// an update document and the remove flag are given.
	ErrUpdateAndRemove = fmt.Errorf("can't do both update and remove: %w", errdefs.ErrInvalidArgument)
)

// ErrBadAPIKeyFormat is returned when an API key does not have one of the
// accepted lexical shapes.
type ErrBadAPIKeyFormat struct {
	APIKey string
}

// Error implements [error].
func (e ErrBadAPIKeyFormat) Error() string {
	return fmt.Sprintf("API key %q has a bad format", MaskAPIKey(e.APIKey))
}

// Unwrap returns the error class.
func (e ErrBadAPIKeyFormat) Unwrap() error { return errdefs.ErrInvalidArgument }

// ErrInvalidAPIKey is returned when the remote service rejects an API key that
// is well formed.
type ErrInvalidAPIKey struct {
	APIKey string
}

// Error implements [error].
func (e ErrInvalidAPIKey) Error() string {
	return fmt.Sprintf("%q is an invalid API key", MaskAPIKey(e.APIKey))
}

// Unwrap returns the error class.
func (e ErrInvalidAPIKey) Unwrap() error { return errdefs.ErrUnauthenticated }

// ErrUnsupportedVersion is returned when no operation table exists for the
// requested API version.
type ErrUnsupportedVersion struct {
	Version Version
}

// Error implements [error].
func (e ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported version %q", string(e.Version))
}

// Unwrap returns the error class.
func (e ErrUnsupportedVersion) Unwrap() error { return errdefs.ErrNotImplemented }

// ErrUnknownOperation is returned when an operation is not part of the
// operation table of the engine version.
type ErrUnknownOperation struct {
	Operation OperationID
	Version   Version
}

// Error implements [error].
func (e ErrUnknownOperation) Error() string {
	return fmt.Sprintf("operation %q is not supported by version %q", string(e.Operation), string(e.Version))
}

// Unwrap returns the error class.
func (e ErrUnknownOperation) Unwrap() error { return errdefs.ErrNotImplemented }

// ErrMethodNotAllowed is returned when an operation descriptor names an HTTP
// method the engine does not know how to bind parameters for.
type ErrMethodNotAllowed struct {
	Method string
}

// Error implements [error].
func (e ErrMethodNotAllowed) Error() string {
	return fmt.Sprintf("method %q not allowed", e.Method)
}

// Unwrap returns the error class.
func (e ErrMethodNotAllowed) Unwrap() error { return errdefs.ErrNotImplemented }

// ErrInvalidName is returned when a database name is illegal.
type ErrInvalidName struct {
	Reason string
}

// Error implements [error].
func (e ErrInvalidName) Error() string { return e.Reason }

// Unwrap returns the error class.
func (e ErrInvalidName) Unwrap() error { return errdefs.ErrInvalidArgument }

// ErrInvalidUpdateOperator is returned when an update document contains a
// top-level key that is not an update operator.
type ErrInvalidUpdateOperator struct {
	Operator string
}

// Error implements [error].
func (e ErrInvalidUpdateOperator) Error() string {
	return fmt.Sprintf("%q is an invalid update operator", e.Operator)
}

// Unwrap returns the error class.
func (e ErrInvalidUpdateOperator) Unwrap() error { return errdefs.ErrInvalidArgument }

// ErrInvalidOption is returned when an unknown query option is given.
type ErrInvalidOption struct {
	Name string
}

// Error implements [error].
func (e ErrInvalidOption) Error() string {
	return fmt.Sprintf("invalid parameter %q", e.Name)
}

// Unwrap returns the error class.
func (e ErrInvalidOption) Unwrap() error { return errdefs.ErrInvalidArgument }

// ErrOptionType is returned when a query option has a value of an unexpected
// type.
type ErrOptionType struct {
	Name     string
	Expected string
	Value    any
}

// Error implements [error].
func (e ErrOptionType) Error() string {
	return fmt.Sprintf("%q must be %s, got %T", e.Name, e.Expected, e.Value)
}

// Unwrap returns the error class.
func (e ErrOptionType) Unwrap() error { return errdefs.ErrInvalidArgument }

// ErrDocumentType is returned when a value that should be a document, or a
// sequence of documents, is something else.
type ErrDocumentType struct {
	Expected string
	Value    any
}

// Error implements [error].
func (e ErrDocumentType) Error() string {
	return fmt.Sprintf("expected %s, got %T", e.Expected, e.Value)
}

// Unwrap returns the error class.
func (e ErrDocumentType) Unwrap() error { return errdefs.ErrInvalidArgument }

// ErrNotSerializable is returned by [Codec] when a value has no JSON
// representation.
type ErrNotSerializable struct {
	Value any
}

// Error implements [error].
func (e ErrNotSerializable) Error() string {
	return fmt.Sprintf("%#v (%T) is not JSON serializable", e.Value, e.Value)
}

// Unwrap returns the error class.
func (e ErrNotSerializable) Unwrap() error { return errdefs.ErrInvalidArgument }

// ErrIndexOutOfRange is returned by [Cursor.At] for indexes outside the
// result set.
type ErrIndexOutOfRange struct {
	Index int
	Len   int
}

// Error implements [error].
func (e ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("index %d out of range for result set of length %d", e.Index, e.Len)
}

// Unwrap returns the error class.
func (e ErrIndexOutOfRange) Unwrap() error { return errdefs.ErrOutOfRange }

// ErrDecode is returned by [Decoder.Decode] to easily wrap third party decoding
// errors.
type ErrDecode struct {
	Source any
	Target any
}

// Error implements [error].
func (e ErrDecode) Error() string {
	return fmt.Sprintf("cannot decode %T into %T", e.Source, e.Target)
}

// ErrUnexpectedResponse is returned when a successful response body does not
// have the shape an operation expects.
type ErrUnexpectedResponse struct {
	Operation OperationID
	Expected  string
	Body      any
}

// Error implements [error].
func (e ErrUnexpectedResponse) Error() string {
	return fmt.Sprintf("%s: expected %s in response, got %T", e.Operation, e.Expected, e.Body)
}

// Unwrap returns the error class.
func (e ErrUnexpectedResponse) Unwrap() error { return errdefs.ErrUnknown }

// ErrRemote is returned when the remote service reports a failure, either
// through a non-2xx status or through an error field of a 200 response.
type ErrRemote struct {
	Operation OperationID
	Status    int
	Message   string
}

// Error implements [error].
func (e ErrRemote) Error() string {
	return fmt.Sprintf("%s: %d %s: %s", e.Operation, e.Status, http.StatusText(e.Status), e.Message)
}

// Unwrap returns the error class matching the response status.
func (e ErrRemote) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return errdefs.ErrNotFound
	case e.Status == http.StatusUnauthorized:
		return errdefs.ErrUnauthenticated
	case e.Status == http.StatusForbidden:
		return errdefs.ErrPermissionDenied
	case e.Status == http.StatusConflict:
		return errdefs.ErrConflict
	case e.Status >= 400 && e.Status < 500:
		return errdefs.ErrInvalidArgument
	case e.Status >= 500:
		return errdefs.ErrUnavailable
	default:
		return errdefs.ErrUnknown
	}
}

// MaskAPIKey hides all but the last four characters of an API key so it can
// be printed in errors and logs.
func MaskAPIKey(key string) string {
	const visible = 4
	if len(key) <= visible {
		return "****"
	}
	return "****" + key[len(key)-visible:]
}
