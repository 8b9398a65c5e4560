// Package profile starts runtime profiles of the interpreter through
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	shibo --pprof-mode cpu script.shibo
//	go tool pprof -http=: ~/.cache/shibo/pprof/cpu.pprof
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op
// [Stopper]. Builds with the tag also register the [net/http/pprof]
// handlers.
package profile

// Tag is the build tag that enables profiling.
const Tag = `pprof`
