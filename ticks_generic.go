//go:build !amd64 && !arm64

package cyclebench

import "time"

// readTicks falls back to the wall clock on platforms without a cycle
// counter read. Deltas are nanoseconds rather than cycles; calibration
// still yields a usable correction for the coarser timer.
func readTicks() Ticks {
	return Ticks(time.Now().UnixNano())
}
