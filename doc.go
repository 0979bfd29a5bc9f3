// Package enginecore is the memory and object-lifetime core of the engine.
//
// A Core owns everything one update loop needs:
//
//   - a persistent arena for data that lives as long as the core,
//   - a frame arena rewound at the end of every frame,
//   - a scratch pool for temporary work on the update goroutine,
//   - the entity pool, and the asset registry whose references destroyed
//     entities release.
//
// # Frame loop
//
//	core, err := enginecore.New()
//	if err != nil {
//	    return err
//	}
//	defer core.Close()
//
//	for running {
//	    core.BeginFrame()
//	    for key, e := range core.Entities().All() {
//	        ...
//	    }
//	    stats := core.EndFrame() // commits destroys, rewinds the frame arena
//	}
//
// # Memory
//
// Arenas reserve address space up front and commit it in chunks as they
// grow. Reservation sizes come from config.Config; a memory limit caps the
// committed total across all arenas of a core. Exhausting a reservation or
// the limit is a programming error and panics.
//
// # Observability
//
// Use WithLogger for structured logging (log/slog) and WithMetricsCollector
// to export frame and arena statistics. The prom package provides a
// Prometheus collector.
package enginecore
