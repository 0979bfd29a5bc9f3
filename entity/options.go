package entity

import (
	"log/slog"

	"github.com/hupe1980/enginecore/arena"
	"github.com/hupe1980/enginecore/asset"
	"github.com/hupe1980/enginecore/xform"
)

// DefaultReserve is the default address range of the base record array (64 MiB).
const DefaultReserve = 64 << 20

// ReleaseFunc is invoked by CommitDestroy for every destroyed entity, before
// its generation changes. It drops externally owned resources.
type ReleaseFunc func(key Key, e *Entity)

// ReleaseAssets returns a ReleaseFunc dropping the entity's asset references
// in r.
func ReleaseAssets(r *asset.Registry) ReleaseFunc {
	return func(_ Key, e *Entity) {
		r.ReleaseHolder(e)
	}
}

// BoneResolver maps a bone of a mount parent to a transform relative to the
// parent.
type BoneResolver interface {
	BoneTransform(parent Key, bone BoneID) xform.Transform
}

// BoneResolverFunc adapts a function to BoneResolver.
type BoneResolverFunc func(parent Key, bone BoneID) xform.Transform

// BoneTransform implements BoneResolver.
func (f BoneResolverFunc) BoneTransform(parent Key, bone BoneID) xform.Transform {
	return f(parent, bone)
}

type options struct {
	reserve     int
	logger      *slog.Logger
	release     ReleaseFunc
	bones       BoneResolver
	arenaOpts   []arena.Option
	commitBytes int
}

// Option configures a Pool.
type Option func(*options)

// WithReserve sets the address range reserved for base records. Side tables
// reserve a quarter of it each.
func WithReserve(bytes int) Option {
	return func(o *options) {
		o.reserve = bytes
	}
}

// WithCommitSize sets the commit granularity of the pool's arenas.
func WithCommitSize(bytes int) Option {
	return func(o *options) {
		o.commitBytes = bytes
	}
}

// WithLogger enables debug logging of destroy passes and mounts.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithReleaseFunc sets the callback CommitDestroy runs per destroyed entity.
func WithReleaseFunc(fn ReleaseFunc) Option {
	return func(o *options) {
		o.release = fn
	}
}

// WithBoneResolver sets the resolver used for non-zero mount bones.
func WithBoneResolver(r BoneResolver) Option {
	return func(o *options) {
		o.bones = r
	}
}

// WithArenaOptions passes options to every arena the pool creates,
// e.g. arena.WithBudget.
func WithArenaOptions(opts ...arena.Option) Option {
	return func(o *options) {
		o.arenaOpts = append(o.arenaOpts, opts...)
	}
}
