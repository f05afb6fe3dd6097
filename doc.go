// Package cyclebench provides self-calibrating cycle-counter profiling
// for very short code regions.
//
// # Overview
//
// Measuring a span of a few instructions with a hardware cycle counter
// is dominated by the cost of the measurement itself: the two counter
// reads around the region cost tens of cycles. cyclebench measures
// that cost, validates the measurement statistically, and publishes a
// correction that is subtracted from every later measurement, so raw
// tick deltas turn into accurate elapsed-cycle figures even for
// single-instruction regions.
//
// # Architecture
//
// The package components:
//
//   - ticks        - the monotonic cycle-counter read (RDTSC, CNTVCT_EL0,
//     or a wall-clock fallback) and the minimum-delta probe
//   - deviation    - the distributional analysis engine: band-wise and
//     aggregate statistics over a sample buffer
//   - calibrate    - the self-calibration protocol: measurement rounds,
//     stability checks, retries, and the fallback cascade
//   - platform     - per-platform fallback constants and host detection
//   - report       - raw-sample and statistics printing
//   - assertions   - test helpers for calibration properties
//
// # Quick Start
//
// Calibrate once, then bracket the region to measure:
//
//	p := cyclebench.NewProfiler()
//	p.Calibrate(10000)
//
//	for i := 0; i < 1000; i++ {
//	    p.Start(1)
//	    workUnderTest()
//	    p.Stop(1, i)
//	}
//
//	d := p.Report(1, 1000, 10) // print 10 raw samples + breakdown
//	fmt.Printf("mean cost: %.1f cycles\n", d.Avg)
//
// Stop records read() - start - correction, so the stored deltas are
// already net of instrumentation overhead.
//
// # Calibration
//
// Calibrate runs rounds of empty Start/Stop brackets and feeds each
// round to the analyzer. A round is accepted when its standard
// deviation stays within 3% of its mean; unstable rounds are retried
// up to 10 times. When every round is unstable the correction falls
// back to the median of the non-zero samples, then to a per-platform
// constant, then to a conservative default. A cascade of numeric
// guards resolves every degenerate average (NaN, zero, sub-cycle,
// overflow) locally, so Calibrate always returns with a strictly
// positive correction and never fails.
//
// # Statistics
//
// Analyze partitions samples into deviation bands around the mean
// (0-10%, 10-25%, 25-50%, 50-75%, and a residual band) and reports
// count, mean, absolute deviation and standard deviation per band and
// in aggregate. Band membership is decided by distance from the global
// mean; band dispersion is centered on the band's own mean. The band
// layout is fixed calibration policy, not a general statistics API.
//
// # Concurrency
//
// A Profiler is single-goroutine state. Goroutines that profile
// concurrently each own a Profiler and calibrate independently; there
// is no shared mutable state and therefore nothing to lock.
//
// # Testing
//
// Inject a deterministic tick reader and use the assertion helpers:
//
//	func TestHotPath(t *testing.T) {
//	    p := cyclebench.NewProfiler()
//	    p.Calibrate(10000)
//
//	    cyclebench.AssertPositiveCorrection(t, p)
//	    cyclebench.AssertStableCalibration(t, p, cyclebench.DefaultAssertionConfig())
//	}
//
// # See Also
//
//   - examples/calibrate - runnable calibration walkthrough
//   - cmd/cyclebench     - CLI wrapper around calibration and reporting
package cyclebench
