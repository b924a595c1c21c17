// Package store holds settings shared by the profile store backends.
package store

import (
	"time"

	"github.com/google/uuid"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Options are the injectable dependencies of a store backend.
type Options struct {
	Now   func() time.Time
	NewID func() string
}

type Option func(*Options)

// WithClock overrides the time source used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		if now != nil {
			o.Now = now
		}
	}
}

// WithIDGenerator overrides how profile ids are produced.
func WithIDGenerator(newID func() string) Option {
	return func(o *Options) {
		if newID != nil {
			o.NewID = newID
		}
	}
}

// NewOptions applies opts over the defaults: UTC wall clock and random uuids.
func NewOptions(opts ...Option) Options {
	o := Options{
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
