package cyclebench

import (
	"math"
	"testing"
)

// AssertionConfig contains thresholds for calibration-quality
// assertions.
type AssertionConfig struct {
	// Maximum stability percentage (std dev as % of mean) a
	// calibration round may show and still count as stable.
	MaxStabilityPct float64

	// Highest correction, in ticks, considered plausible for
	// instrumentation overhead on current hardware.
	MaxCorrection Ticks
}

// DefaultAssertionConfig returns conservative thresholds.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		MaxStabilityPct: stabilityThreshold, // same 3% bar calibration applies
		MaxCorrection:   clampLimit,         // beyond this is an artifact, not overhead
	}
}

// AssertBandPartition verifies the structural invariant of a Deviation
// record: the five band counts sum exactly to the sample count, and no
// non-empty band carries NaN statistics.
func AssertBandPartition(t *testing.T, d Deviation) {
	t.Helper()

	var total uint64
	for b, band := range d.Bands {
		total += band.Count
		if band.Count > 0 && (math.IsNaN(band.Avg) || math.IsNaN(band.StdDev)) {
			t.Errorf("band %d has %d samples but NaN statistics", b, band.Count)
		}
	}

	if total != d.NumVals {
		t.Errorf("band counts sum to %d, want %d", total, d.NumVals)
	}

	t.Logf("✓ band partition: %d samples across %d bands", d.NumVals, NumBands)
}

// AssertPositiveCorrection verifies the unconditional post-calibration
// guarantee: a strictly positive correction, whatever the tick source
// did during measurement.
func AssertPositiveCorrection(t *testing.T, p *Profiler) {
	t.Helper()

	if !p.Calibrated() {
		t.Fatalf("profiler has not been calibrated")
	}
	if p.Correction() == 0 {
		t.Errorf("correction must be strictly positive after Calibrate")
	}

	t.Logf("✓ positive correction: %d ticks", uint64(p.Correction()))
}

// AssertStableCalibration verifies the retained record of a calibrated
// Profiler looks like a sane overhead measurement: finite average, a
// stability percentage within the configured bar, and a correction
// small enough to be instrumentation cost rather than an artifact.
func AssertStableCalibration(t *testing.T, p *Profiler, cfg AssertionConfig) {
	t.Helper()

	AssertPositiveCorrection(t, p)

	d := p.LastDeviation()
	if math.IsNaN(d.Avg) || math.IsInf(d.Avg, 0) {
		t.Errorf("retained average is not finite: %v", d.Avg)
	}

	if pct := stabilityPercent(d); !math.IsNaN(pct) && pct > cfg.MaxStabilityPct {
		t.Errorf("calibration unstable: stability %.1f%% (max: %.1f%%)",
			pct, cfg.MaxStabilityPct)
	}

	if p.Correction() > cfg.MaxCorrection {
		t.Errorf("correction %d exceeds plausible overhead bound %d",
			uint64(p.Correction()), uint64(cfg.MaxCorrection))
	}

	t.Logf("✓ stable calibration: avg %.1f, correction %d",
		d.Avg, uint64(p.Correction()))
}
