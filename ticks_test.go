package cyclebench

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// hasHardwareCounter reports whether the build uses a real cycle
// counter read; other platforms fall back to the wall clock, which
// needs a moment to visibly advance.
func hasHardwareCounter() bool {
	return runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64"
}

func TestReadTicksMonotonic(t *testing.T) {
	c1 := readTicks()

	if !hasHardwareCounter() {
		time.Sleep(time.Microsecond)
	}

	c2 := readTicks()

	assert.Greater(t, uint64(c2), uint64(c1), "tick counter must advance")
}

func TestMinTickDelta(t *testing.T) {
	t.Run("smallest positive delta wins", func(t *testing.T) {
		assert.Equal(t, Ticks(5), MinTickDelta(stepReader(5), 64))
	})

	t.Run("dead timer yields zero", func(t *testing.T) {
		assert.Equal(t, Ticks(0), MinTickDelta(frozenReader(), 64))
	})

	t.Run("ignores non-positive deltas", func(t *testing.T) {
		// Alternate a dead bracket with a live one; only the live
		// delta counts.
		read := patternReader(0, 0, 0, 9)
		assert.Equal(t, Ticks(9), MinTickDelta(read, 8))
	})

	t.Run("real counter advances between brackets", func(t *testing.T) {
		if !hasHardwareCounter() {
			t.Skip("wall-clock fallback may not advance between adjacent reads")
		}
		assert.Positive(t, uint64(MinTickDelta(readTicks, 64)))
	})
}

func BenchmarkReadTicks(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = readTicks()
	}
}

func BenchmarkStartStop(b *testing.B) {
	p := NewProfiler(WithPlatform(PlatformRyzen53600))
	p.Calibrate(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Start(1)
		p.Stop(1, 0)
	}
}
