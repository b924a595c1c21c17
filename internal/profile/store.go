package profile

import "context"

// Store persists profiles. Implementations return an error wrapping
// ErrNotFound for unknown ids and keep List in insertion order.
type Store interface {
	Create(ctx context.Context, in Input) (*Profile, error)
	Get(ctx context.Context, id string) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
	Update(ctx context.Context, id string, u Update) (*Profile, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
