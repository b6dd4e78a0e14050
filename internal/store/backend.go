package store

import (
	"context"
	"fmt"

	"github.com/roach88/cauldron/internal/graph"
	"github.com/roach88/cauldron/internal/queue"
	"github.com/roach88/cauldron/internal/recipe"
	"github.com/roach88/cauldron/internal/staging"
)

// Snapshotter is implemented by every persistable component.
type Snapshotter interface {
	Snapshot() ([]byte, error)
	Restore(b []byte) error
}

// Backend stores one snapshot per kind.
type Backend interface {
	Save(ctx context.Context, kind string, s Snapshotter) error
	Load(ctx context.Context, kind string, s Snapshotter) error
	Close() error
}

// Kinds lists the snapshot kinds a workspace persists, in save order.
var Kinds = []string{recipe.KindGraph, recipe.KindQueue, recipe.KindBuffer}

// EmptyInstance returns a new, empty component of the given kind.
func EmptyInstance(kind string) (Snapshotter, error) {
	switch kind {
	case recipe.KindGraph:
		return graph.NewEmpty(), nil
	case recipe.KindQueue:
		return queue.New(), nil
	case recipe.KindBuffer:
		return staging.New(), nil
	default:
		return nil, recipe.NewValidationError("unknown snapshot kind %q", kind)
	}
}

// Fresh persists an empty instance of kind to b and returns it.
func Fresh(ctx context.Context, b Backend, kind string) (Snapshotter, error) {
	s, err := EmptyInstance(kind)
	if err != nil {
		return nil, err
	}
	if err := b.Save(ctx, kind, s); err != nil {
		return nil, fmt.Errorf("fresh %s: %w", kind, err)
	}
	return s, nil
}
