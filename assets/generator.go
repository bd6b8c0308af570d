package assets

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/clipkeep/core"
)

// Renderer produces the preview bytes for an entry. Rendering itself is
// external; implementations are expected to be safe for concurrent use.
type Renderer interface {
	Render(entry *core.Entry) ([]byte, error)
}

// Generator computes entry previews asynchronously on a worker pool.
// Each entry carries a generation token; a job publishes its result only
// when its token is still current, so superseded renderings disappear
// without ever being visible.
type Generator struct {
	pool     *ants.Pool
	renderer Renderer
	logger   *slog.Logger

	mu          sync.Mutex
	released    bool
	generations map[uuid.UUID]uint64
	previews    map[uuid.UUID][]byte
}

// Option configures a Generator.
type Option func(*Generator) error

// WithPoolSize sets the worker pool size for concurrent rendering.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(g *Generator) error {
		if size < 1 {
			size = 1
		}

		if g.pool != nil {
			g.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		g.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
		return nil
	}
}

// NewGenerator creates a preview generator backed by the given renderer.
func NewGenerator(renderer Renderer, opts ...Option) (*Generator, error) {
	if renderer == nil {
		return nil, ErrRendererRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		pool:        pool,
		renderer:    renderer,
		logger:      slog.Default(),
		generations: make(map[uuid.UUID]uint64),
		previews:    make(map[uuid.UUID][]byte),
	}
	for _, opt := range opts {
		if optErr := opt(g); optErr != nil {
			g.Release()
			return nil, optErr
		}
	}
	return g, nil
}

// Generate schedules a preview rendering for the entry. Any rendering
// already in flight for the same entry is superseded.
func (g *Generator) Generate(entry *core.Entry) error {
	g.mu.Lock()
	if g.released {
		g.mu.Unlock()
		return ErrGeneratorReleased
	}
	g.generations[entry.Id]++
	generation := g.generations[entry.Id]
	g.mu.Unlock()

	return g.pool.Submit(func() {
		data, err := g.renderer.Render(entry)
		if err != nil {
			g.logger.Error("preview rendering failed", "entry", entry.Id, "err", err)
			return
		}

		g.mu.Lock()
		defer g.mu.Unlock()
		if g.released || g.generations[entry.Id] != generation {
			// Superseded while rendering; drop the result.
			return
		}
		g.previews[entry.Id] = data
	})
}

// Preview returns the published preview for the entry, if any.
func (g *Generator) Preview(entry *core.Entry) ([]byte, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	data, ok := g.previews[entry.Id]
	return data, ok
}

// Invalidate drops the entry's preview and supersedes any rendering in
// flight for it.
func (g *Generator) Invalidate(entry *core.Entry) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.generations[entry.Id]++
	delete(g.previews, entry.Id)
}

// Forget removes all generator state for an entry that left the
// canonical set.
func (g *Generator) Forget(entry *core.Entry) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.generations, entry.Id)
	delete(g.previews, entry.Id)
}

// Release tears down the worker pool. In-flight renderings finish but
// publish nothing.
func (g *Generator) Release() {
	g.mu.Lock()
	g.released = true
	g.previews = make(map[uuid.UUID][]byte)
	g.mu.Unlock()
	g.pool.Release()
}
