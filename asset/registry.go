package asset

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrUnknownHandle is returned for handles the registry never issued.
var ErrUnknownHandle = errors.New("asset: unknown handle")

// Holder is anything carrying an asset Set. *entity.Entity implements it.
type Holder interface {
	AssetSet() *Set
}

type record struct {
	name string
	refs int
}

// Registry hands out handles and counts references to them.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	records []record // index = handle - 1
	byName  map[string]Handle
	logger  *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger disables logging.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		byName: make(map[string]Handle),
		logger: logger,
	}
}

// Register returns the handle for name, creating it on first use.
func (r *Registry) Register(name string) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.byName[name]; ok {
		return h
	}
	r.records = append(r.records, record{name: name})
	h := Handle(len(r.records))
	r.byName[name] = h
	return h
}

// Acquire adds a reference to h.
func (r *Registry) Acquire(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.lookup(h)
	if err != nil {
		return err
	}
	rec.refs++
	return nil
}

// Release drops a reference to h and returns the remaining count.
// Releasing an unreferenced handle leaves the count at zero.
func (r *Registry) Release(h Handle) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.lookup(h)
	if err != nil {
		return 0, err
	}
	if rec.refs > 0 {
		rec.refs--
	}
	if rec.refs == 0 && r.logger != nil {
		r.logger.Debug("asset unreferenced", slog.String("asset", rec.name), slog.Uint64("handle", uint64(h)))
	}
	return rec.refs, nil
}

// RefCount returns the number of references to h.
func (r *Registry) RefCount(h Handle) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.lookup(h)
	if err != nil {
		return 0
	}
	return rec.refs
}

// Name returns the name h was registered with.
func (r *Registry) Name(h Handle) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.lookup(h)
	if err != nil {
		return "", false
	}
	return rec.name, true
}

// Len returns the number of registered assets.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Attach acquires h and records it in holder's set.
func (r *Registry) Attach(holder Holder, h Handle) error {
	if err := r.Acquire(h); err != nil {
		return err
	}
	if !holder.AssetSet().Add(h) {
		_, _ = r.Release(h)
		return fmt.Errorf("asset: set full, cannot attach handle %d", h)
	}
	return nil
}

// ReleaseHolder drops every reference held by holder and clears its set.
// Its shape matches the release callback of the entity pool.
func (r *Registry) ReleaseHolder(holder Holder) {
	set := holder.AssetSet()
	set.Each(func(h Handle) {
		if _, err := r.Release(h); err != nil && r.logger != nil {
			r.logger.Warn("release of unknown asset", slog.Uint64("handle", uint64(h)))
		}
	})
	set.Clear()
}

func (r *Registry) lookup(h Handle) (*record, error) {
	if h == 0 || int(h) > len(r.records) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	return &r.records[h-1], nil
}
