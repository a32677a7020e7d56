// Package idgenerator contains the default [domain.IDGenerator]
// implementation, producing random UUIDs used to correlate requests in logs.
package idgenerator

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
)

// Option configures an [IDGenerator].
type Option func(*IDGenerator)

// WithReader replaces the source of randomness, which defaults to
// crypto/rand. A reader yielding fixed bytes makes request IDs predictable
// in tests.
func WithReader(r io.Reader) Option {
	return func(i *IDGenerator) {
		i.reader = r
	}
}

// IDGenerator implements [domain.IDGenerator].
type IDGenerator struct {
	reader io.Reader
}

// NewIDGenerator returns a new implementation of [domain.IDGenerator].
func NewIDGenerator(opts ...Option) domain.IDGenerator {
	i := IDGenerator{
		reader: rand.Reader,
	}
	for _, opt := range opts {
		opt(&i)
	}
	return &i
}

// GenerateID implements [domain.IDGenerator].
func (i *IDGenerator) GenerateID() (string, error) {
	id, err := uuid.NewRandomFromReader(i.reader)
	if err != nil {
		return "", fmt.Errorf("generating request ID: %w", err)
	}
	return id.String(), nil
}
