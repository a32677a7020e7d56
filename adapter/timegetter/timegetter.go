// Package timegetter contains the default [domain.TimeGetter] implementation,
// the wall clock request durations are measured with.
package timegetter

import (
	"time"

	"github.com/vinicius-lino-figueiredo/mongolab/domain"
)

// TimeGetter implements [domain.TimeGetter].
type TimeGetter struct{}

// NewTimeGetter returns a new implementation of domain.TimeGetter.
func NewTimeGetter() domain.TimeGetter {
	return &TimeGetter{}
}

// GetTime implements [domain.TimeGetter]. The result keeps its monotonic
// reading, so durations computed from two calls are not affected by wall
// clock changes.
func (t *TimeGetter) GetTime() time.Time {
	return time.Now()
}
