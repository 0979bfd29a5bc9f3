package enginecore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/enginecore/arena"
	"github.com/hupe1980/enginecore/asset"
	"github.com/hupe1980/enginecore/config"
	"github.com/hupe1980/enginecore/entity"
	"github.com/hupe1980/enginecore/internal/resource"
)

// Core owns the arenas, entity pool and asset registry of one update loop.
//
// A Core is driven by a single goroutine. Worker goroutines that need
// scratch memory use arena.BorrowScratchPool.
type Core struct {
	id      uuid.UUID
	cfg     config.Config
	logger  *Logger
	metrics MetricsCollector
	budget  *resource.Controller

	persistent *arena.Arena
	frame      *arena.Arena
	scratch    *arena.ScratchPool
	entities   *entity.Pool
	assets     *asset.Registry

	frameNo    uint64
	frameStart time.Time
	inFrame    bool
	closed     bool
}

// New creates a Core. Without options it uses config.Default, logs to
// stderr as the configuration says and collects no metrics.
func New(opts ...Option) (*Core, error) {
	o := options{cfg: config.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}
	if o.logger == nil {
		o.logger = NewConfigLogger(os.Stderr, o.cfg.Log)
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}

	id := uuid.New()
	logger := o.logger.WithCore(id.String())
	budget := resource.NewController(resource.Config{MemoryLimitBytes: int64(o.cfg.Memory.Limit)})
	if o.assets == nil {
		o.assets = asset.NewRegistry(logger.Logger)
	}

	c := &Core{
		id:      id,
		cfg:     o.cfg,
		logger:  logger,
		metrics: o.metricsCollector,
		budget:  budget,
		assets:  o.assets,
	}

	named := func(name string) []arena.Option {
		return []arena.Option{arena.WithBudget(budget), arena.WithName(name)}
	}

	var err error
	if c.persistent, err = arena.New(o.cfg.Arena.Reserve.Int(), o.cfg.Arena.Commit.Int(), named("persistent")...); err != nil {
		return nil, c.abort(err)
	}
	if c.frame, err = arena.New(o.cfg.Frame.Reserve.Int(), o.cfg.Frame.Commit.Int(), named("frame")...); err != nil {
		return nil, c.abort(err)
	}
	c.scratch, err = arena.NewScratchPool(o.cfg.Scratch.Count, o.cfg.Scratch.Reserve.Int(), o.cfg.Scratch.Commit.Int(),
		arena.WithBudget(budget))
	if err != nil {
		return nil, c.abort(err)
	}

	poolOpts := []entity.Option{
		entity.WithReserve(o.cfg.Entities.Reserve.Int()),
		entity.WithLogger(logger.Logger),
		entity.WithReleaseFunc(entity.ReleaseAssets(c.assets)),
		entity.WithArenaOptions(arena.WithBudget(budget)),
	}
	if o.bones != nil {
		poolOpts = append(poolOpts, entity.WithBoneResolver(o.bones))
	}
	if c.entities, err = entity.NewPool(poolOpts...); err != nil {
		return nil, c.abort(err)
	}

	logger.Info("core created",
		"persistent_reserve", o.cfg.Arena.Reserve.String(),
		"frame_reserve", o.cfg.Frame.Reserve.String(),
		"scratch_arenas", o.cfg.Scratch.Count,
		"memory_limit", o.cfg.Memory.Limit.String(),
	)
	return c, nil
}

// abort releases whatever New built before failing.
func (c *Core) abort(err error) error {
	c.closed = true
	return errors.Join(fmt.Errorf("enginecore: %w", err), c.release())
}

// BeginFrame starts a frame. It does nothing once the core is closed.
func (c *Core) BeginFrame() {
	if c.closed {
		return
	}
	c.frameNo++
	c.frameStart = time.Now()
	c.inFrame = true
}

// EndFrame commits pending entity destroys, reports statistics and rewinds
// the frame arena. Everything allocated from Frame() during the frame is
// invalid afterwards. After Close it returns zero stats.
func (c *Core) EndFrame() FrameStats {
	if c.closed {
		return FrameStats{}
	}
	destroyed := c.entities.CommitDestroy()

	for _, a := range c.arenas() {
		c.metrics.RecordArena(a.Name(), a.Stats())
	}

	stats := FrameStats{
		Frame:          c.frameNo,
		Destroyed:      destroyed,
		Live:           c.entities.Live(),
		FrameBytes:     c.frame.Offset(),
		CommittedBytes: c.budget.MemoryUsage(),
	}
	if c.inFrame {
		stats.Duration = time.Since(c.frameStart)
	}
	c.frame.FreeAll()
	c.inFrame = false

	c.metrics.RecordFrame(stats)
	c.logger.LogFrame(context.Background(), stats)
	return stats
}

// Update runs fn inside a frame. The frame is ended even if fn fails.
func (c *Core) Update(fn func(*Core) error) (FrameStats, error) {
	if c.closed {
		return FrameStats{}, ErrClosed
	}
	if c.inFrame {
		return FrameStats{}, ErrFrameInProgress
	}
	c.BeginFrame()
	err := fn(c)
	return c.EndFrame(), err
}

// ID returns the instance ID, used to tell cores apart in logs and metrics.
func (c *Core) ID() uuid.UUID { return c.id }

// Config returns the configuration the core was built with.
func (c *Core) Config() config.Config { return c.cfg }

// Logger returns the core's logger.
func (c *Core) Logger() *Logger { return c.logger }

// Entities returns the entity pool.
func (c *Core) Entities() *entity.Pool { return c.entities }

// Assets returns the asset registry.
func (c *Core) Assets() *asset.Registry { return c.assets }

// Persistent returns the arena that lives as long as the core.
func (c *Core) Persistent() *arena.Arena { return c.persistent }

// Frame returns the arena rewound by EndFrame.
func (c *Core) Frame() *arena.Arena { return c.frame }

// Scratch borrows a scratch arena that is none of conflicts.
// Release the scratch before the borrowing scope ends.
func (c *Core) Scratch(conflicts ...*arena.Arena) arena.Scratch {
	return c.scratch.Acquire(conflicts...)
}

// ScratchPool returns the scratch pool of the update goroutine.
func (c *Core) ScratchPool() *arena.ScratchPool { return c.scratch }

// MemoryUsage returns the committed bytes across all arenas of the core.
func (c *Core) MemoryUsage() int64 { return c.budget.MemoryUsage() }

// PeakMemoryUsage returns the highest committed total observed.
func (c *Core) PeakMemoryUsage() int64 { return c.budget.PeakMemoryUsage() }

// Close releases every arena. Entity and arena memory obtained from the
// core must not be used afterwards. Close is idempotent.
func (c *Core) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	err := c.release()
	c.logger.LogClose(context.Background(), c.frameNo, err)
	return err
}

func (c *Core) release() error {
	var errs []error
	if c.entities != nil {
		errs = append(errs, c.entities.Close())
	}
	if c.scratch != nil {
		errs = append(errs, c.scratch.Release())
	}
	if c.frame != nil {
		errs = append(errs, c.frame.Release())
	}
	if c.persistent != nil {
		errs = append(errs, c.persistent.Release())
	}
	return errors.Join(errs...)
}

func (c *Core) arenas() []*arena.Arena {
	out := []*arena.Arena{c.persistent, c.frame}
	out = append(out, c.scratch.Arenas()...)
	return append(out, c.entities.Arenas()...)
}

var (
	defaultCore     *Core
	defaultCoreOnce sync.Once
)

// Default returns a process-wide Core built with default options, creating
// it on first use. It panics if the core cannot be created.
func Default() *Core {
	defaultCoreOnce.Do(func() {
		c, err := New()
		if err != nil {
			panic(err)
		}
		defaultCore = c
	})
	return defaultCore
}
