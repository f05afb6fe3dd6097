package cyclebench

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlatformFromModel(t *testing.T) {
	tests := []struct {
		model string
		want  Platform
	}{
		{"AMD Ryzen 5 3600 6-Core Processor", PlatformRyzen53600},
		{"Intel(R) Core(TM) i3-7020U CPU @ 2.30GHz", PlatformI37020U},
		{"Intel(R) Xeon(R) CPU E5-2680 v4 @ 2.40GHz", PlatformXeon},
		{"AMD Opteron(tm) Processor 6172", PlatformOpteron},
		{"UltraSPARC T2 (Niagara 2)", PlatformNiagara},
		{"Apple M2", PlatformUnknown},
		{"", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, platformFromModel(tt.model))
		})
	}
}

func TestDefaultFallbacks(t *testing.T) {
	fallbacks := DefaultFallbacks()

	assert.Equal(t, 64.0, fallbacks[PlatformOpteron])
	assert.Equal(t, 68.0, fallbacks[PlatformOpteron2])
	assert.Equal(t, 20.0, fallbacks[PlatformXeon])
	assert.Equal(t, 20.0, fallbacks[PlatformXeon2])
	assert.Equal(t, 76.0, fallbacks[PlatformNiagara])
	assert.Equal(t, 32.0, fallbacks[PlatformRyzen53600])
	assert.Equal(t, 25.0, fallbacks[PlatformI37020U])

	// The unknown platform deliberately has no table entry; it is
	// served by the conservative default instead.
	_, ok := fallbacks[PlatformUnknown]
	assert.False(t, ok)

	for platform, v := range fallbacks {
		assert.Positive(t, v, "fallback for %s must be positive", platform)
	}
}

func TestNeedsWarmup(t *testing.T) {
	assert.True(t, PlatformXeon.needsWarmup())
	assert.True(t, PlatformXeon2.needsWarmup())
	assert.True(t, PlatformOpteron2.needsWarmup())
	assert.True(t, PlatformI37020U.needsWarmup())
	assert.True(t, PlatformUnknown.needsWarmup())

	assert.False(t, PlatformOpteron.needsWarmup())
	assert.False(t, PlatformNiagara.needsWarmup())
	assert.False(t, PlatformRyzen53600.needsWarmup())
}

func TestPlatformString(t *testing.T) {
	assert.Equal(t, "ryzen5-3600", PlatformRyzen53600.String())
	assert.Equal(t, "unknown", PlatformUnknown.String())
	assert.Equal(t, "unknown", Platform(999).String())
}

func TestDetectPlatform_NeverPanics(t *testing.T) {
	// Whatever CPU the test host reports, detection must resolve to
	// some Platform; unknown is an acceptable answer everywhere.
	p := DetectPlatform()
	assert.GreaterOrEqual(t, int(p), int(PlatformUnknown))
}
