package domain

import (
	"github.com/sirupsen/logrus"
)

// WithFindFields specifies which fields to include or exclude from query
// results.
func WithFindFields(f any) FindOption {
	return func(fo *FindOptions) {
		fo.Fields = f
	}
}

// WithFindSkip sets the number of documents to skip in query results.
func WithFindSkip(s int) FindOption {
	return func(fo *FindOptions) {
		fo.Skip = s
	}
}

// WithFindLimit sets the maximum number of documents to return.
func WithFindLimit(l int) FindOption {
	return func(fo *FindOptions) {
		fo.Limit = l
	}
}

// WithFindSort specifies the sort order for query results. It accepts a
// document or a [Sort].
func WithFindSort(s any) FindOption {
	return func(fo *FindOptions) {
		fo.Sort = s
	}
}

// FindOption configures query behavior through the functional options pattern.
type FindOption func(*FindOptions)

// FindOptions contains parameters for customizing query execution.
type FindOptions struct {
	// Fields specifies which fields to include or exclude from results.
	Fields any
	// Skip specifies the number of documents to skip.
	Skip int
	// Limit specifies the maximum number of documents to return.
	Limit int
	// Sort specifies the sort order for results.
	Sort any
}

// WithUpdateMulti enables updating multiple documents that match the query.
func WithUpdateMulti(m bool) UpdateOption {
	return func(uo *UpdateOptions) {
		uo.Multi = m
	}
}

// WithUpsert enables inserting a document if no matches are found.
func WithUpsert(u bool) UpdateOption {
	return func(uo *UpdateOptions) {
		uo.Upsert = u
	}
}

// UpdateOption configures update behavior through the functional options
// pattern.
type UpdateOption func(*UpdateOptions)

// UpdateOptions contains parameters for customizing update operations.
type UpdateOptions struct {
	// Multi enables updating multiple documents that match the query.
	Multi bool
	// Upsert enables inserting a document if no matches are found.
	Upsert bool
}

// WithFindAndModifyUpdate sets the update document.
func WithFindAndModifyUpdate(u any) FindAndModifyOption {
	return func(fo *FindAndModifyOptions) {
		fo.Update = u
	}
}

// WithFindAndModifyUpsert inserts a document if no matches are found.
func WithFindAndModifyUpsert(u bool) FindAndModifyOption {
	return func(fo *FindAndModifyOptions) {
		fo.Upsert = u
	}
}

// WithFindAndModifySort chooses which document is modified when many match.
func WithFindAndModifySort(s any) FindAndModifyOption {
	return func(fo *FindAndModifyOptions) {
		fo.Sort = s
	}
}

// WithFindAndModifyRemove removes the matched document instead of updating
// it.
func WithFindAndModifyRemove(r bool) FindAndModifyOption {
	return func(fo *FindAndModifyOptions) {
		fo.Remove = r
	}
}

// WithFindAndModifyNew returns the modified document instead of the
// original.
func WithFindAndModifyNew(n bool) FindAndModifyOption {
	return func(fo *FindAndModifyOptions) {
		fo.New = n
	}
}

// WithFindAndModifyFields limits the fields of the returned document.
func WithFindAndModifyFields(f any) FindAndModifyOption {
	return func(fo *FindAndModifyOptions) {
		fo.Fields = f
	}
}

// FindAndModifyOption configures the findAndModify command through the
// functional options pattern.
type FindAndModifyOption func(*FindAndModifyOptions)

// FindAndModifyOptions contains parameters for the findAndModify command.
type FindAndModifyOptions struct {
	Update any
	Upsert bool
	Sort   any
	Remove bool
	New    bool
	Fields any
}

// WithCursorDecoder sets the decoder for converting cursor results.
func WithCursorDecoder(d Decoder) CursorOption {
	return func(co *CursorOptions) {
		co.Decoder = d
	}
}

// CursorOption configures cursor behavior through the functional options
// pattern.
type CursorOption func(*CursorOptions)

// CursorOptions contains parameters for customizing cursor behavior.
type CursorOptions struct {
	Decoder Decoder
}

// WithEngineVersion sets the API version, which selects the base URL and the
// operation table.
func WithEngineVersion(v Version) EngineOption {
	return func(eo *EngineOptions) {
		eo.Version = v
	}
}

// WithEngineBaseURL replaces the base URL of the selected version. Mostly
// useful to point the engine to a test server.
func WithEngineBaseURL(u string) EngineOption {
	return func(eo *EngineOptions) {
		eo.BaseURL = u
	}
}

// WithEngineTransport sets the transport used to perform HTTP exchanges.
func WithEngineTransport(t Transport) EngineOption {
	return func(eo *EngineOptions) {
		eo.Transport = t
	}
}

// WithEngineCodec sets the codec used for request bodies, query values and
// response bodies.
func WithEngineCodec(c Codec) EngineOption {
	return func(eo *EngineOptions) {
		eo.Codec = c
	}
}

// WithEngineIDGenerator sets the generator of request correlation IDs.
func WithEngineIDGenerator(ig IDGenerator) EngineOption {
	return func(eo *EngineOptions) {
		eo.IDGenerator = ig
	}
}

// WithEngineTimeGetter sets the clock request durations are measured with.
func WithEngineTimeGetter(tg TimeGetter) EngineOption {
	return func(eo *EngineOptions) {
		eo.TimeGetter = tg
	}
}

// WithEngineLogger sets the logger used to trace requests.
func WithEngineLogger(l *logrus.Entry) EngineOption {
	return func(eo *EngineOptions) {
		eo.Logger = l
	}
}

// EngineOption configures the engine through the functional options pattern.
type EngineOption func(*EngineOptions)

// EngineOptions contains the collaborators and settings of an [Engine].
type EngineOptions struct {
	Version     Version
	BaseURL     string
	Transport   Transport
	Codec       Codec
	IDGenerator IDGenerator
	TimeGetter  TimeGetter
	Logger      *logrus.Entry
}
