package cyclebench

// Ticks is a raw value of the monotonic hardware cycle counter.
//
// Valid readings are never negative. A stored sample whose signed
// reinterpretation is negative indicates a counter wrap or an invalid
// read; the Analyzer clamps such samples to zero.
type Ticks uint64

// TickReader reads the cycle counter. The default reader has minimal
// and roughly constant overhead and no side effects; alternate readers
// can be injected for testing via WithTickReader.
type TickReader func() Ticks

// minDeltaAttempts bounds the direct minimum-tick-delta probe used as
// the last measurement-based fallback during calibration.
const minDeltaAttempts = 64

// MinTickDelta brackets two adjacent reads up to attempts times and
// returns the smallest strictly-positive delta observed, or 0 if the
// counter never advanced between reads.
func MinTickDelta(read TickReader, attempts int) Ticks {
	best := Ticks(1<<64 - 1)

	for i := 0; i < attempts; i++ {
		start := read()
		delta := read() - start

		if int64(delta) > 0 && delta < best {
			best = delta
		}
	}

	if best == 1<<64-1 {
		return 0
	}

	return best
}
