package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/roach88/cauldron/internal/config"
	"github.com/roach88/cauldron/internal/graph"
	"github.com/roach88/cauldron/internal/queue"
	"github.com/roach88/cauldron/internal/recipe"
	"github.com/roach88/cauldron/internal/staging"
	"github.com/roach88/cauldron/internal/store"
)

// Workspace is the single host of a graph, queue and buffer.
type Workspace struct {
	mu      sync.Mutex
	backend store.Backend
	graph   *graph.Graph
	queue   *queue.Queue
	buffer  *staging.Buffer
}

type options struct {
	ids     recipe.IDGenerator
	schemes []string
}

// Option configures a Workspace.
type Option func(*options)

// WithIDGenerator sets the generator for committed version ids.
func WithIDGenerator(gen recipe.IDGenerator) Option {
	return func(o *options) { o.ids = gen }
}

// WithSchemes sets the URL prefixes the staging buffer accepts.
func WithSchemes(schemes ...string) Option {
	return func(o *options) { o.schemes = schemes }
}

// OpenBackend opens the backend selected by cfg, creating the data
// directory if needed.
func OpenBackend(cfg config.Config) (store.Backend, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	switch cfg.Backend {
	case config.BackendFile:
		return store.NewFileBackend(cfg.DataDir), nil
	case config.BackendSQLite:
		s, err := store.Open(cfg.DatabasePath())
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		return s, nil
	default:
		return nil, recipe.NewValidationError("unknown backend %q", cfg.Backend)
	}
}

func newWorkspace(b store.Backend, opts ...Option) *Workspace {
	o := options{ids: recipe.UUIDv7Generator{}, schemes: staging.DefaultSchemes}
	for _, opt := range opts {
		opt(&o)
	}
	return &Workspace{
		backend: b,
		graph:   graph.NewEmpty(),
		queue:   queue.New(queue.WithIDGenerator(o.ids)),
		buffer:  staging.New(staging.WithSchemes(o.schemes...)),
	}
}

// components returns the persisted components keyed by snapshot kind.
func (w *Workspace) components() map[string]store.Snapshotter {
	return map[string]store.Snapshotter{
		recipe.KindGraph:  w.graph,
		recipe.KindQueue:  w.queue,
		recipe.KindBuffer: w.buffer,
	}
}

// Open loads every component from b. Components that were never saved
// start empty.
func Open(ctx context.Context, b store.Backend, opts ...Option) (*Workspace, error) {
	w := newWorkspace(b, opts...)
	parts := w.components()
	for _, kind := range store.Kinds {
		err := b.Load(ctx, kind, parts[kind])
		switch {
		case err == nil:
		case recipe.IsNotFound(err):
			slog.Debug("no saved state, starting empty", "kind", kind)
		default:
			return nil, fmt.Errorf("open workspace: %w", err)
		}
	}
	slog.Debug("workspace opened", "versions", w.graph.Size(), "pending", w.queue.Len())
	return w, nil
}

// Init writes empty state for every component to b. It refuses to
// overwrite a saved version graph.
func Init(ctx context.Context, b store.Backend, opts ...Option) (*Workspace, error) {
	err := b.Load(ctx, recipe.KindGraph, graph.NewEmpty())
	switch {
	case err == nil:
		return nil, recipe.NewValidationError("workspace already initialized")
	case !recipe.IsNotFound(err):
		return nil, fmt.Errorf("init workspace: %w", err)
	}

	w := newWorkspace(b, opts...)
	if err := w.Save(ctx); err != nil {
		return nil, fmt.Errorf("init workspace: %w", err)
	}
	slog.Info("workspace initialized")
	return w, nil
}

// Save persists every component. Snapshots are taken under the workspace
// lock.
func (w *Workspace) Save(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	parts := w.components()
	for _, kind := range store.Kinds {
		if err := w.backend.Save(ctx, kind, parts[kind]); err != nil {
			return fmt.Errorf("save workspace: %w", err)
		}
	}
	return nil
}

// Close releases the backend.
func (w *Workspace) Close() error {
	return w.backend.Close()
}
