package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/hupe1980/enginecore"
	"github.com/hupe1980/enginecore/arena"
	"github.com/hupe1980/enginecore/buffer"
	"github.com/hupe1980/enginecore/entity"
	"github.com/hupe1980/enginecore/prom"
	"github.com/hupe1980/enginecore/xform"
)

// simOptions configures a simulation run.
type simOptions struct {
	Frames      int
	FPS         float64
	Scene       string
	SpawnRate   int
	DestroyRate float64
	Seed        uint64
	MetricsAddr string
}

// simResult summarizes a simulation run.
type simResult struct {
	Frames         uint64        `json:"frames"`
	Elapsed        time.Duration `json:"elapsed_ns"`
	AvgFrame       time.Duration `json:"avg_frame_ns"`
	Spawned        int64         `json:"spawned"`
	Destroyed      int64         `json:"destroyed"`
	Live           int64         `json:"live"`
	PeakFrameBytes int64         `json:"peak_frame_bytes"`
	Committed      int64         `json:"committed_bytes"`
	PeakCommitted  int64         `json:"peak_committed_bytes"`
}

func init() {
	var opts simOptions

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run frames against a core",
		Long: `The simulate command runs an update loop: every frame spawns and
mounts entities, marks a share of the live ones for destruction, computes
world transforms into the frame arena and ends the frame.

Example:
  corectl simulate --frames 600 --fps 60
  corectl simulate --scene s3://assets/scenes/level-1.ecb --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runSimulate(ctx, opts)
		},
	}
	cmd.Flags().IntVar(&opts.Frames, "frames", 600, "Number of frames to run (0 runs until interrupted)")
	cmd.Flags().Float64Var(&opts.FPS, "fps", 0, "Frame rate limit (0 runs unpaced)")
	cmd.Flags().StringVar(&opts.Scene, "scene", "", "Scene blob to spawn before the first frame")
	cmd.Flags().IntVar(&opts.SpawnRate, "spawn", 64, "Entities spawned per frame")
	cmd.Flags().Float64Var(&opts.DestroyRate, "destroy", 0.05, "Share of live entities destroyed per frame")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "Random seed")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	rootCmd.AddCommand(cmd)
}

func runSimulate(ctx context.Context, opts simOptions) error {
	if opts.DestroyRate < 0 || opts.DestroyRate > 1 {
		return fmt.Errorf("destroy rate %v outside [0, 1]", opts.DestroyRate)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	basic := &enginecore.BasicMetricsCollector{}
	metrics := multiCollector{basic}
	if opts.MetricsAddr != "" {
		pc := prom.NewCollector(prometheus.NewRegistry())
		metrics = append(metrics, pc)

		srv, err := serveMetrics(opts.MetricsAddr, pc.Handler())
		if err != nil {
			return err
		}
		defer func() { _ = srv.Shutdown(context.Background()) }()
		logger.Info("serving metrics", "addr", opts.MetricsAddr)
	}

	core, err := enginecore.New(
		enginecore.WithConfig(cfg),
		enginecore.WithLogger(logger),
		enginecore.WithMetricsCollector(metrics),
	)
	if err != nil {
		return err
	}
	defer func() { _ = core.Close() }()

	sim := &simulation{
		core: core,
		rng:  rand.New(rand.NewPCG(opts.Seed, opts.Seed+1)),
		opts: opts,
	}
	if opts.Scene != "" {
		data, err := readBlob(ctx, opts.Scene)
		if err != nil {
			return fmt.Errorf("failed to read scene: %w", err)
		}
		keys, err := core.Spawn(data)
		if err != nil {
			return err
		}
		sim.spawned += int64(len(keys))
	}

	var limiter *rate.Limiter
	if opts.FPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.FPS), 1)
	}

	start := time.Now()
	for frame := 0; opts.Frames == 0 || frame < opts.Frames; frame++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				break
			}
		} else if ctx.Err() != nil {
			break
		}
		if _, err := core.Update(sim.step); err != nil {
			return err
		}
	}

	stats := basic.GetStats()
	res := simResult{
		Frames:         uint64(stats.FrameCount), //nolint:gosec // non-negative counter
		Elapsed:        time.Since(start),
		AvgFrame:       time.Duration(stats.FrameAvgNanos),
		Spawned:        sim.spawned,
		Destroyed:      stats.Destroyed,
		Live:           int64(core.Entities().Live()),
		PeakFrameBytes: stats.PeakFrameBytes,
		Committed:      core.MemoryUsage(),
		PeakCommitted:  core.PeakMemoryUsage(),
	}
	return printResult(res)
}

func printResult(res simResult) error {
	if jsonOut {
		return printJSON(res)
	}
	printInfo("\nSimulation:\n")
	printInfo("  Frames: %s in %s (avg %s)\n",
		humanize.Comma(int64(min(res.Frames, math.MaxInt64))), res.Elapsed.Round(time.Millisecond), res.AvgFrame)
	printInfo("  Entities: %s spawned, %s destroyed, %s live\n",
		humanize.Comma(res.Spawned), humanize.Comma(res.Destroyed), humanize.Comma(res.Live))
	printInfo("  Frame arena peak: %s\n", ibytes(res.PeakFrameBytes))
	printInfo("  Committed: %s (peak %s)\n", ibytes(res.Committed), ibytes(res.PeakCommitted))
	return nil
}

func ibytes(n int64) string {
	return humanize.IBytes(uint64(max(n, 0))) //nolint:gosec // clamped to non-negative
}

// simulation is the per-frame workload.
type simulation struct {
	core    *enginecore.Core
	rng     *rand.Rand
	opts    simOptions
	spawned int64
}

func (s *simulation) step(core *enginecore.Core) error {
	pool := core.Entities()

	// Live keys for this frame, in the frame arena.
	live := buffer.New[entity.Key](core.Frame(), pool.Live()+s.opts.SpawnRate)
	for k := range pool.All() {
		live.Append(k)
	}

	for i := 0; i < s.opts.SpawnRate; i++ {
		e, k := s.spawn(pool)
		e.Local = randomTransform(s.rng)
		if live.Len() > 0 && s.rng.IntN(2) == 0 {
			parent := *live.At(s.rng.IntN(live.Len()))
			if err := pool.Mount(k, parent, 0); err != nil && !errors.Is(err, entity.ErrStaleKey) {
				return err
			}
		}
		live.Append(k)
		s.spawned++
	}

	destroy := int(float64(live.Len()) * s.opts.DestroyRate)
	for i := 0; i < destroy; i++ {
		pool.Destroy(*live.At(s.rng.IntN(live.Len())))
	}

	// World transforms of the live set, discarded at the end of the frame.
	world := buffer.New[xform.Transform](core.Frame(), live.Len())
	for _, k := range live.Slice() {
		if t, ok := pool.WorldTransform(k); ok {
			world.Append(t)
		}
	}

	scratch := core.Scratch(core.Frame())
	defer scratch.Release()
	line := buffer.NewText(scratch.Arena())
	line.Appendf("live=%d world=%d", live.Len(), world.Len())
	core.Logger().Debug(line.String())
	return nil
}

func (s *simulation) spawn(pool *entity.Pool) (*entity.Entity, entity.Key) {
	switch entity.Kind(s.rng.IntN(int(entity.KindPointLight) + 1)) { //nolint:gosec // small range
	case entity.KindCamera:
		e, _, k := pool.NewCamera()
		return e, k
	case entity.KindPlayer:
		e, p, k := pool.NewPlayer()
		p.Team = uint8(s.rng.IntN(4)) //nolint:gosec // small range
		return e, k
	case entity.KindPointLight:
		e, _, k := pool.NewPointLight()
		return e, k
	default:
		return pool.NewEntity()
	}
}

// multiCollector fans metrics out to several collectors.
type multiCollector []enginecore.MetricsCollector

func (m multiCollector) RecordFrame(s enginecore.FrameStats) {
	for _, c := range m {
		c.RecordFrame(s)
	}
}

func (m multiCollector) RecordArena(name string, s arena.Stats) {
	for _, c := range m {
		c.RecordArena(name, s)
	}
}

func serveMetrics(addr string, h http.Handler) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.Serve(ln) }()
	return srv, nil
}
