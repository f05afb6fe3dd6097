//go:build amd64

package cyclebench

// readTicks reads the CPU timestamp counter using RDTSC.
// Implemented in ticks_amd64.s
//
//go:noescape
func readTicks() Ticks
