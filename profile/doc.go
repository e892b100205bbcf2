// Package profile provides optional runtime profiling for the madseq
// application.
//
// Profiling integrates [github.com/pkg/profile] and must be enabled at build
// time with the "pprof" build tag. Without the tag every operation is a no-op
// with zero overhead, so callers never need to guard their use of the
// package.
//
// The supported modes with the pprof tag are allocs, block, clock, cpu,
// goroutine, heap, mem, mutex, thread, and trace; [Modes] returns the list
// programmatically. Profile files are written to the configured directory
// with names matching the mode (e.g. cpu.pprof) and analyzed with the
// standard go tool pprof workflow:
//
//	go tool pprof ./madseq /tmp/profiles/cpu.pprof
package profile
