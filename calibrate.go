package cyclebench

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
)

const (
	// stabilityThreshold is the maximum stability percentage
	// (100*std/avg) a calibration round may show before it is
	// considered unstable and retried. Calibration policy constant.
	stabilityThreshold = 3.0

	// maxRetries bounds the number of re-measurements after an
	// unstable round, guaranteeing termination.
	maxRetries = 10

	// DefaultStores is the number of independent sample buffers a
	// Profiler allocates. Buffer 0 is the canonical calibration
	// buffer; the rest are free for concurrent measurement contexts
	// owned by the same Profiler.
	DefaultStores = 2
)

// warmupSink keeps the frequency warm-up spin observable so the
// compiler cannot drop the loop.
var warmupSink uint64

// Profiler measures the cost of very short code regions using the raw
// cycle counter, subtracting its own calibrated overhead from every
// bracketed measurement.
//
// A Profiler is owned by a single goroutine. There is no internal
// locking: goroutines that want to profile concurrently each construct
// their own Profiler and calibrate it independently, so no data is
// ever shared.
type Profiler struct {
	read      TickReader
	logger    *slog.Logger
	out       io.Writer
	platform  Platform
	fallbacks map[Platform]float64
	numStores int

	stores     [][]Ticks
	starts     []Ticks
	numEntries int

	correction Ticks
	calibrated bool
	last       Deviation
}

// Option configures a Profiler at construction.
type Option func(*Profiler)

// WithTickReader injects an alternate cycle counter read, typically a
// deterministic stub in tests.
func WithTickReader(read TickReader) Option {
	return func(p *Profiler) { p.read = read }
}

// WithLogger routes calibration warnings and the final summary to the
// given logger instead of slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Profiler) { p.logger = logger }
}

// WithOutput redirects the raw-sample and statistics report output,
// which defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(p *Profiler) { p.out = w }
}

// WithPlatform overrides host platform detection.
func WithPlatform(platform Platform) Option {
	return func(p *Profiler) { p.platform = platform }
}

// WithFallbacks replaces the platform fallback constant table.
func WithFallbacks(fallbacks map[Platform]float64) Option {
	return func(p *Profiler) { p.fallbacks = fallbacks }
}

// WithStores sets the number of sample buffers allocated per
// calibration. Values below 1 are ignored.
func WithStores(n int) Option {
	return func(p *Profiler) {
		if n >= 1 {
			p.numStores = n
		}
	}
}

// NewProfiler constructs a Profiler with the hardware tick reader, the
// detected host platform and the default fallback table.
func NewProfiler(opts ...Option) *Profiler {
	p := &Profiler{
		read:      readTicks,
		logger:    slog.Default(),
		out:       os.Stdout,
		platform:  DetectPlatform(),
		fallbacks: DefaultFallbacks(),
		numStores: DefaultStores,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// calState enumerates the calibration state machine. The retry path is
// a bounded loop: every transition either makes progress toward accept
// or decrements the finite retry budget.
type calState int

const (
	stateMeasure calState = iota
	stateEvaluate
	stateRetry
	stateFallback
	stateAccept
)

// Calibrate measures the overhead of the Start/Stop instrumentation
// itself and publishes a strictly-positive correction that Stop
// subtracts from every future measurement.
//
// Re-invocation fully replaces the sample stores and the correction.
// Calibrate never fails: every numeric degeneracy (non-finite, zero or
// negative averages, coarse timers that never advance) is resolved to
// a positive correction through the fallback chain. The only
// precondition is a positive numEntries; violating it panics.
func (p *Profiler) Calibrate(numEntries int) {
	if numEntries <= 0 {
		panic(fmt.Sprintf("cyclebench: Calibrate numEntries must be positive, got %d", numEntries))
	}

	p.initStores(numEntries)

	if p.platform.needsWarmup() {
		warmup()
	}

	// The calibration rounds measure through Start/Stop with the
	// correction zeroed, so the measured deltas are exactly the
	// instrumentation cost consumers will pay.
	p.correction = 0
	p.calibrated = false

	var (
		ad     Deviation
		stdPP  = math.NaN()
		tries  = 0
		warned = 0
	)

	for state := stateMeasure; state != stateAccept; {
		switch state {
		case stateMeasure:
			for i := 0; i < numEntries; i++ {
				p.Start(0)
				p.Stop(0, i)
			}
			state = stateEvaluate

		case stateEvaluate:
			ad = Analyze(p.stores[0])
			stdPP = stabilityPercent(ad)
			if stdPP > stabilityThreshold { // false for NaN
				state = stateRetry
			} else {
				state = stateAccept
			}

		case stateRetry:
			warned++
			if warned == 2 { // a single transient failure is not worth the noise
				p.logger.Warn("calibration round unstable, recalculating",
					"avg", ad.Avg, "stability_pct", finiteOr(stdPP, 0))
			}
			if tries < maxRetries {
				tries++
				state = stateMeasure
			} else {
				state = stateFallback
			}

		case stateFallback:
			p.logger.Warn("setting overhead correction manually")
			ad.Avg = p.fallbackAvg()
			state = stateAccept
		}
	}

	avg, correction := p.normalizeCorrection(ad.Avg)

	// The normalization guards are not provably exhaustive against
	// every platform timer anomaly, so enforce positivity once more.
	if correction == 0 {
		if probed := MinTickDelta(p.read, minDeltaAttempts); probed > 0 {
			correction = probed
			p.logger.Warn("enforcing positive correction via direct tick delta",
				"correction", uint64(correction))
		} else {
			correction = 1
			p.logger.Warn("enforcing minimum positive correction",
				"correction", uint64(correction))
		}
		avg = float64(correction)
	}

	ad.Avg = avg
	p.last = ad
	p.correction = correction
	p.calibrated = true

	p.logger.Info("overhead correction set",
		"correction", uint64(p.correction),
		"stability_pct", finiteOr(stdPP, 0),
		"platform", p.platform.String())
}

// fallbackAvg produces a manual correction average once retries are
// exhausted: the median of the non-zero samples when usable, otherwise
// the platform constant, otherwise the conservative default.
func (p *Profiler) fallbackAvg() float64 {
	median := MedianNonZero(p.stores[0])
	if !math.IsNaN(median) && !math.IsInf(median, 0) && median > 0 {
		p.logger.Warn("using median overhead correction after repeated retries",
			"avg", median)
		return median
	}

	if constant, ok := p.fallbacks[p.platform]; ok && constant > 0 {
		p.logger.Warn("using platform overhead constant",
			"platform", p.platform.String(), "avg", constant)
		return constant
	}

	p.logger.Warn("unknown platform, using conservative overhead default",
		"avg", ConservativeDefault)
	return ConservativeDefault
}

// normalizeCorrection resolves every degenerate average to a positive
// correction in one idempotent pass. Guard precedence: non-finite,
// non-positive, sub-cycle, overflowing, then round-half-up with a
// final zero check.
func (p *Profiler) normalizeCorrection(avg float64) (float64, Ticks) {
	switch {
	case math.IsNaN(avg) || math.IsInf(avg, 0):
		// All-identical raw samples can drive the average through a
		// division by zero; recover instead of propagating the NaN.
		avg = ConservativeDefault
		p.logger.Warn("measured correction is non-finite, using conservative default",
			"avg", avg)

	case avg <= 0:
		// The instrumentation overhead was too small to observe,
		// typically under coarse timers or aggressive virtualization.
		// Prefer a directly measured delta over the constant.
		if probed := MinTickDelta(p.read, minDeltaAttempts); probed > 0 {
			avg = float64(probed)
			p.logger.Warn("measured correction <= 0, using direct tick delta",
				"avg", avg)
		} else {
			avg = ConservativeDefault
			p.logger.Warn("measured correction <= 0, using conservative default",
				"avg", avg)
		}

	case avg < 1:
		// Sub-cycle averages are noise and would truncate to a zero
		// correction, which is unsafe.
		avg = 1
		p.logger.Warn("measured correction < 1, clamping", "avg", avg)
	}

	if avg >= float64(math.MaxUint64) {
		correction := Ticks(math.MaxUint64)
		p.logger.Warn("measured correction overflows, clamping",
			"correction", uint64(correction))
		return float64(correction), correction
	}

	correction := Ticks(avg + 0.5)
	if correction == 0 {
		correction = 1
		avg = float64(correction)
		p.logger.Warn("rounded correction was 0, clamping",
			"correction", uint64(correction))
	}

	return avg, correction
}

// Correction returns the calibrated overhead in ticks. It is zero
// until Calibrate has run and strictly positive afterwards.
func (p *Profiler) Correction() Ticks {
	return p.correction
}

// Calibrated reports whether a correction has been published.
func (p *Profiler) Calibrated() bool {
	return p.calibrated
}

// LastDeviation returns the statistics record retained by the most
// recent Calibrate or Report call.
func (p *Profiler) LastDeviation() Deviation {
	return p.last
}

// Start records the opening tick for the given store slot.
func (p *Profiler) Start(store int) {
	p.starts[store] = p.read()
}

// Stop closes the bracket opened by Start on the same slot and records
// the corrected delta at index idx of the store's buffer. A delta
// smaller than the correction wraps around; the Analyzer clamps such
// samples to zero.
func (p *Profiler) Stop(store, idx int) {
	p.stores[store][idx] = p.read() - p.starts[store] - p.correction
}

// Samples exposes a store's raw buffer for consumers that run their
// own analysis. The buffer is reused across measurements and replaced
// by the next Calibrate call.
func (p *Profiler) Samples(store int) []Ticks {
	return p.stores[store]
}

// initStores drops any previously allocated buffers and allocates a
// fresh set, so repeated calibrations never accumulate storage.
func (p *Profiler) initStores(numEntries int) {
	p.stores = nil
	p.starts = nil

	p.stores = make([][]Ticks, p.numStores)
	for i := range p.stores {
		p.stores[i] = make([]Ticks, numEntries)
	}
	p.starts = make([]Ticks, p.numStores)
	p.numEntries = numEntries
}

// stabilityPercent is the heuristic 100*(1-(avg-std)/avg), i.e. the
// standard deviation as a percentage of the mean. It is NaN when the
// average is zero or non-finite.
func stabilityPercent(d Deviation) float64 {
	if math.IsNaN(d.Avg) || math.IsInf(d.Avg, 0) || d.Avg == 0 {
		return math.NaN()
	}
	return 100 * (1 - (d.Avg-d.StdDev)/d.Avg)
}

// warmup spins the CPU for a fixed iteration budget so frequency
// scaling settles at the maximum clock before measurement. Best
// effort; on governors that ignore load it simply costs a moment.
func warmup() {
	var spin uint64
	for i := 0; i < 2e8; i++ {
		spin++
	}
	warmupSink = spin
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
