//go:build arm64

package cyclebench

// readTicks reads the virtual counter (CNTVCT_EL0).
// Implemented in ticks_arm64.s
//
//go:noescape
func readTicks() Ticks
