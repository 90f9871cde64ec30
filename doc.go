// Package logging is the logging middleware of an embedded
// hardware-abstraction framework: one process-wide engine that filters
// structured log calls by severity and hierarchical module name, renders
// them through a configurable text pattern, and fans them out to pluggable
// backends, synchronously or through a bounded async pipeline.
//
// Key features
//   - Global level plus a bounded per-module override table with
//     trailing-wildcard patterns ("hal.*"); exact match wins, then the
//     longest wildcard
//   - Pattern formatting (%t, %L, %M, %m, ...) with bounded buffers and
//     message truncation; unknown tokens pass through verbatim
//   - Bounded backend registry with per-backend enable flag and minimum
//     level; one backend's write failure never starves the others
//   - Optional async pipeline: bounded queue, single consumer, overflow
//     policy (drop-oldest, drop-newest, block) and flush with a ceiling
//   - Interrupt-aware locking via a host-supplied context predicate
//   - Backends included: console, bounded memory ring, rotating file
//     (lumberjack) and a zerolog bridge
//
// Typical usage
//
//	cfg := logging.DefaultConfig()
//	cfg.Level = "debug"
//	svc := logging.NewService(&cfg)
//	if err := svc.Initialize(); err != nil { panic(err) }
//	defer svc.Close()
//
//	svc.RegisterBackend(logging.NewConsoleBackend("console", nil))
//	svc.SetModuleLevel("hal.*", logging.TraceLevel)
//	svc.Infof("hal.gpio", "pin %d configured", 4)
package logging
