package enginecore

import (
	"github.com/hupe1980/enginecore/asset"
	"github.com/hupe1980/enginecore/config"
	"github.com/hupe1980/enginecore/entity"
)

type options struct {
	cfg              config.Config
	metricsCollector MetricsCollector
	logger           *Logger
	assets           *asset.Registry
	bones            entity.BoneResolver
}

// Option configures a Core.
type Option func(*options)

// WithConfig sets arena sizes, the memory limit and log settings.
// The configuration is validated by New.
//
// Example:
//
//	cfg, err := config.Load("core.yaml")
//	if err != nil {
//	    return err
//	}
//	core, err := enginecore.New(enginecore.WithConfig(cfg))
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithMetricsCollector configures a metrics collector for frame and arena
// statistics. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &enginecore.BasicMetricsCollector{}
//	core, _ := enginecore.New(enginecore.WithMetricsCollector(metrics))
//	// ... run frames ...
//	stats := metrics.GetStats()
//	fmt.Printf("Frames: %d, Avg: %dns\n", stats.FrameCount, stats.FrameAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// If no logger is set, one is built from the configuration's log section.
//
// Example with JSON logging:
//
//	logger := enginecore.NewJSONLogger(slog.LevelDebug)
//	core, _ := enginecore.New(enginecore.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAssetRegistry shares an asset registry with the core. Destroyed
// entities release their references in it.
func WithAssetRegistry(r *asset.Registry) Option {
	return func(o *options) {
		o.assets = r
	}
}

// WithBoneResolver sets the resolver for mount bones of the entity pool.
func WithBoneResolver(r entity.BoneResolver) Option {
	return func(o *options) {
		o.bones = r
	}
}
