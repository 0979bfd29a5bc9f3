package prom

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/enginecore"
	"github.com/hupe1980/enginecore/arena"
	"github.com/hupe1980/enginecore/config"
)

type writer interface {
	Write(*dto.Metric) error
}

func value(t *testing.T, m writer) *dto.Metric {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, m.Write(&metric))
	return &metric
}

func TestRecordFrame(t *testing.T) {
	c := NewCollector(nil)

	c.RecordFrame(enginecore.FrameStats{Frame: 1, Duration: 5 * time.Millisecond, Destroyed: 3, Live: 10, FrameBytes: 4096, CommittedBytes: 1 << 20})
	c.RecordFrame(enginecore.FrameStats{Frame: 2, Duration: 7 * time.Millisecond, Destroyed: 1, Live: 9, FrameBytes: 0, CommittedBytes: 2 << 20})

	assert.Equal(t, 2.0, value(t, c.FramesTotal).GetCounter().GetValue())
	assert.Equal(t, 4.0, value(t, c.DestroyedTotal).GetCounter().GetValue())
	assert.Equal(t, 9.0, value(t, c.LiveEntities).GetGauge().GetValue())
	assert.Equal(t, float64(2<<20), value(t, c.CommittedBytes).GetGauge().GetValue())

	h := value(t, c.FrameDuration).GetHistogram()
	assert.Equal(t, uint64(2), h.GetSampleCount())
	assert.InDelta(t, 0.012, h.GetSampleSum(), 1e-9)
}

func TestRecordArena(t *testing.T) {
	c := NewCollector(nil)

	c.RecordArena("frame", arena.Stats{Reserved: 1 << 20, Committed: 65536, Offset: 100, HighWater: 200, Allocs: 4, Resizes: 2, InPlaceResizes: 1})

	g, err := c.ArenaOffset.GetMetricWithLabelValues("frame")
	require.NoError(t, err)
	assert.Equal(t, 100.0, value(t, g).GetGauge().GetValue())

	g, err = c.ArenaInPlaceHit.GetMetricWithLabelValues("frame")
	require.NoError(t, err)
	assert.Equal(t, 1.0, value(t, g).GetGauge().GetValue())
}

func TestCollectorWithCore(t *testing.T) {
	cfg := config.Default()
	cfg.Arena.Reserve = 4 << 20
	cfg.Frame.Reserve = 4 << 20
	cfg.Scratch.Reserve = 1 << 20
	cfg.Entities.Reserve = 4 << 20

	c := NewCollector(nil)
	core, err := enginecore.New(
		enginecore.WithConfig(cfg),
		enginecore.WithLogger(enginecore.NoopLogger()),
		enginecore.WithMetricsCollector(c),
	)
	require.NoError(t, err)
	defer core.Close()

	_, err = core.Update(func(core *enginecore.Core) error {
		core.Entities().NewEntity()
		return nil
	})
	require.NoError(t, err)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "enginecore_frames_total 1")
	assert.Contains(t, string(body), "enginecore_entities_live 1")
	assert.Contains(t, string(body), `enginecore_arena_committed_bytes{arena="persistent"}`)
	assert.Contains(t, string(body), `enginecore_arena_reserved_bytes{arena="scratch-0"}`)
}
