package enginecore

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/enginecore/arena"
)

// FrameStats describes one completed frame.
type FrameStats struct {
	Frame          uint64        // frame number, starting at 1
	Duration       time.Duration // BeginFrame to EndFrame
	Destroyed      int           // entities destroyed by the frame's CommitDestroy
	Live           int           // live entities after the commit
	FrameBytes     int           // frame arena cursor before the rewind
	CommittedBytes int64         // committed memory across the core's arenas
}

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// the prom package ships one.
//
// Example:
//
//	type frameCounter struct{ frames prometheus.Counter }
//
//	func (p *frameCounter) RecordFrame(s enginecore.FrameStats) {
//	    p.frames.Inc()
//	}
//
//	func (p *frameCounter) RecordArena(string, arena.Stats) {}
type MetricsCollector interface {
	// RecordFrame is called by EndFrame.
	RecordFrame(s FrameStats)

	// RecordArena is called by EndFrame for every arena of the core,
	// before the frame arena is rewound.
	RecordArena(name string, s arena.Stats)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFrame(FrameStats)          {}
func (NoopMetricsCollector) RecordArena(string, arena.Stats) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FrameCount      atomic.Int64
	FrameTotalNanos atomic.Int64
	Destroyed       atomic.Int64
	LiveEntities    atomic.Int64
	PeakFrameBytes  atomic.Int64
	CommittedBytes  atomic.Int64

	arenas sync.Map // name -> arena.Stats
}

// RecordFrame implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFrame(s FrameStats) {
	b.FrameCount.Add(1)
	b.FrameTotalNanos.Add(s.Duration.Nanoseconds())
	b.Destroyed.Add(int64(s.Destroyed))
	b.LiveEntities.Store(int64(s.Live))
	b.CommittedBytes.Store(s.CommittedBytes)

	fb := int64(s.FrameBytes)
	for {
		peak := b.PeakFrameBytes.Load()
		if fb <= peak || b.PeakFrameBytes.CompareAndSwap(peak, fb) {
			break
		}
	}
}

// RecordArena implements MetricsCollector.
func (b *BasicMetricsCollector) RecordArena(name string, s arena.Stats) {
	b.arenas.Store(name, s)
}

// ArenaStats returns the last statistics recorded for the named arena.
func (b *BasicMetricsCollector) ArenaStats(name string) (arena.Stats, bool) {
	v, ok := b.arenas.Load(name)
	if !ok {
		return arena.Stats{}, false
	}
	return v.(arena.Stats), true
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FrameCount:     b.FrameCount.Load(),
		FrameAvgNanos:  b.getAvgFrameNanos(),
		Destroyed:      b.Destroyed.Load(),
		LiveEntities:   b.LiveEntities.Load(),
		PeakFrameBytes: b.PeakFrameBytes.Load(),
		CommittedBytes: b.CommittedBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgFrameNanos() int64 {
	count := b.FrameCount.Load()
	if count == 0 {
		return 0
	}
	return b.FrameTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FrameCount     int64
	FrameAvgNanos  int64
	Destroyed      int64
	LiveEntities   int64
	PeakFrameBytes int64
	CommittedBytes int64
}
