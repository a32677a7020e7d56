// Package cursor contains the default [domain.Cursor] implementation. Results
// are fetched eagerly by the caller, so a cursor never talks to the server.
package cursor

import (
	"context"

	"github.com/vinicius-lino-figueiredo/mongolab/adapter/decoder"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
)

// Cursor implements domain.Cursor.
type Cursor struct {
	data   []domain.Document
	ctx    context.Context
	cancel context.CancelCauseFunc
	dec    domain.Decoder
	index  int
}

// NewCursor returns a new implementation of Cursor.
func NewCursor(ctx context.Context, dt []domain.Document, options ...domain.CursorOption) (domain.Cursor, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	opts := domain.CursorOptions{
		Decoder: decoder.NewDecoder(),
	}

	for _, option := range options {
		option(&opts)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	cur := &Cursor{
		ctx:    ctx,
		cancel: cancel,
		index:  -1,
		dec:    opts.Decoder,
		data:   dt,
	}

	return cur, nil
}

// Err implements domain.Cursor.
func (c *Cursor) Err() error {
	return context.Cause(c.ctx)
}

// Scan implements domain.Cursor.
func (c *Cursor) Scan(ctx context.Context, target any) error {
	select {
	case <-c.ctx.Done():
		return context.Cause(c.ctx)
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if c.index < 0 {
		return domain.ErrScanBeforeNext
	}
	if c.index >= len(c.data) {
		return domain.ErrNoCurrentDocument
	}
	return c.dec.Decode(c.data[c.index], target)
}

// Close implements domain.Cursor.
func (c *Cursor) Close() error {
	select {
	case <-c.ctx.Done():
		return context.Cause(c.ctx)
	default:
	}
	c.cancel(domain.ErrCursorClosed)
	c.data = nil
	return nil
}

// Next implements domain.Cursor. Once every document was visited, Next keeps
// returning false until [Cursor.Rewind] is called.
func (c *Cursor) Next() bool {
	select {
	case <-c.ctx.Done():
		return false
	default:
	}
	if c.index+1 < len(c.data) {
		c.index++
		return true
	}
	c.index = len(c.data)
	return false
}

// Rewind implements domain.Cursor.
func (c *Cursor) Rewind() {
	c.index = -1
}

// Len implements domain.Cursor.
func (c *Cursor) Len() int {
	return len(c.data)
}

// At implements domain.Cursor.
func (c *Cursor) At(i int) (domain.Document, error) {
	n := len(c.data)
	idx := i
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return nil, domain.ErrIndexOutOfRange{Index: i, Len: n}
	}
	return c.data[idx], nil
}

// Slice implements domain.Cursor.
func (c *Cursor) Slice(i, j int) []domain.Document {
	n := len(c.data)
	i, j = clamp(i, n), clamp(j, n)
	if i >= j {
		return []domain.Document{}
	}
	return append([]domain.Document(nil), c.data[i:j]...)
}

// All implements domain.Cursor.
func (c *Cursor) All() []domain.Document {
	return c.Slice(0, len(c.data))
}

func clamp(i, n int) int {
	if i < 0 {
		i += n
	}
	return max(0, min(i, n))
}
