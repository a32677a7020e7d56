package client

import (
	"context"
	"fmt"

	"github.com/vinicius-lino-figueiredo/mongolab/adapter/data"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/restapi"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
)

// ProfilingLevel is the level of the database profiler.
type ProfilingLevel int

// Profiling levels.
const (
	// Off disables profiling.
	Off ProfilingLevel = iota
	// SlowOnly profiles slow operations only.
	SlowOnly
	// All profiles every operation.
	All
)

// Fields removed from command answers that only describe the server.
const (
	fieldServerUsed = "serverUsed"
	fieldLastOp     = "lastOp"
)

// Database is a handle for a database of the account. It is a comparable
// value; two handles are interchangeable when they are equal.
type Database struct {
	client *Client
	name   string
}

// Name returns the database name.
func (d Database) Name() string {
	return d.name
}

// Client returns the client the database was navigated from.
func (d Database) Client() *Client {
	return d.client
}

// Collection returns a handle for the collection called name.
func (d Database) Collection(name string) Collection {
	return Collection{database: d, name: name}
}

// Equal reports whether both handles point to the same database through
// equal clients.
func (d Database) Equal(other Database) bool {
	return d.name == other.name && d.client.Equal(other.client)
}

// String implements [fmt.Stringer].
func (d Database) String() string {
	return fmt.Sprintf("Database(%s, %q)", d.client, d.name)
}

// CollectionNames returns the names of the collections in the database.
func (d Database) CollectionNames(ctx context.Context) ([]string, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	return d.client.api.ListCollections(ctx, d.name)
}

// RunCommand runs a command document. Use [data.D] when the command name
// must be the first key.
func (d Database) RunCommand(ctx context.Context, command any) (domain.Document, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	return d.client.api.RunCommand(ctx, d.name, command)
}

// Command runs the command {name: value}, followed by the extra fields.
func (d Database) Command(ctx context.Context, name string, value any, extra ...data.E) (domain.Document, error) {
	cmd := make(data.D, 0, len(extra)+1)
	cmd = append(cmd, data.E{Key: name, Value: value})
	cmd = append(cmd, extra...)
	return d.RunCommand(ctx, cmd)
}

// Error returns the error of the last operation, or nil when it succeeded.
func (d Database) Error(ctx context.Context) (domain.Document, error) {
	res, err := d.Command(ctx, "getLastError", 1)
	if err != nil {
		return nil, err
	}
	if res.Has("err") && res.Get("err") == nil {
		return nil, nil
	}
	res.Unset(fieldServerUsed)
	res.Unset(fieldLastOp)
	return res, nil
}

// LastStatus returns status information about the last operation.
func (d Database) LastStatus(ctx context.Context) (domain.Document, error) {
	res, err := d.Command(ctx, "getLastError", 1)
	if err != nil {
		return nil, err
	}
	res.Unset(fieldServerUsed)
	res.Unset(fieldLastOp)
	return res, nil
}

// PreviousError returns the most recent error since the last call to
// [Database.ResetErrorHistory], or nil if there is none.
func (d Database) PreviousError(ctx context.Context) (domain.Document, error) {
	res, err := d.Command(ctx, "getPrevError", 1)
	if err != nil {
		return nil, err
	}
	if res.Has("err") && res.Get("err") == nil {
		return nil, nil
	}
	res.Unset(fieldServerUsed)
	return res, nil
}

// ResetErrorHistory clears the errors reported by [Database.PreviousError].
func (d Database) ResetErrorHistory(ctx context.Context) error {
	_, err := d.Command(ctx, "resetError", 1)
	return err
}

// ProfilingLevel returns the current profiling level.
func (d Database) ProfilingLevel(ctx context.Context) (ProfilingLevel, error) {
	res, err := d.Command(ctx, "profile", -1)
	if err != nil {
		return 0, err
	}
	was, ok := restapi.ToInt64(res.Get("was"))
	if !ok || was < int64(Off) || was > int64(All) {
		return 0, domain.ErrUnexpectedResponse{Operation: domain.OpRunCommand, Expected: `a profiling level in "was"`, Body: res}
	}
	return ProfilingLevel(was), nil
}

// SetProfilingLevel sets the profiling level and, optionally, the slow
// operation threshold.
func (d Database) SetProfilingLevel(ctx context.Context, level ProfilingLevel, opts ...ProfilingOption) error {
	if level < Off || level > All {
		return domain.ErrOptionType{Name: "level", Expected: "one of Off, SlowOnly or All", Value: level}
	}
	var po profilingOptions
	for _, opt := range opts {
		opt(&po)
	}
	var extra []data.E
	if po.slowMS != nil {
		extra = append(extra, data.E{Key: "slowms", Value: *po.slowMS})
	}
	_, err := d.Command(ctx, "profile", int(level), extra...)
	return err
}

func (d Database) check() error {
	return d.client.validator.CheckDatabaseName(d.name)
}
