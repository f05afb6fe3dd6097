package cyclebench

import (
	"math"
	"sort"
)

// Deviation bands partition samples by absolute deviation from the
// sample mean. A sample lands in the first band whose threshold it
// does not exceed; anything beyond 75% falls in the residual band.
const (
	Band10p = iota // deviation <= 10% of the mean
	Band25p        // deviation <= 25%
	Band50p        // deviation <= 50%
	Band75p        // deviation <= 75%
	BandRest       // deviation > 75%

	NumBands
)

// bandThresholds are fractions of the sample mean. Fixed calibration
// policy, not configurable.
var bandThresholds = [NumBands - 1]float64{0.10, 0.25, 0.50, 0.75}

// clampLimit is the highest sample value considered a real overhead
// measurement; anything above it is an instrumentation artifact and is
// zeroed before averaging.
const clampLimit = 1500

// Band holds the statistics of one deviation band.
//
// Band membership is decided by distance from the global mean, but the
// reported dispersion (AbsDev, StdDev) is centered on the band's own
// average. Avg, AbsDev and StdDev are NaN when Count is zero; callers
// must check Count before using them.
type Band struct {
	Count  uint64  // Samples classified into this band
	Avg    float64 // Mean of the band's samples
	AbsDev float64 // Mean absolute deviation around the band average
	StdDev float64 // Standard deviation around the band average
}

// Deviation is the statistics record produced by Analyze for one
// sample set. Band counts always sum to NumVals.
type Deviation struct {
	NumVals uint64  // Sample count
	Avg     float64 // Global mean (after clamping)
	AbsDev  float64 // Mean absolute deviation around Avg
	StdDev  float64 // Standard deviation around Avg

	MinVal    float64 // Smallest sample value
	MinValIdx uint64  // First index holding MinVal
	MaxVal    float64 // Largest sample value
	MaxValIdx uint64  // First index holding MaxVal

	Bands [NumBands]Band
}

// Analyze reduces a raw sample buffer to a Deviation record.
//
// Side effect: samples interpreted as negative (counter wrap) or above
// the 1500-cycle artifact limit are zeroed in place before averaging.
// An empty input yields a NaN-bearing record rather than a panic;
// callers must check NumVals before relying on the averages.
func Analyze(samples []Ticks) Deviation {
	n := len(samples)
	if n == 0 {
		return Deviation{
			Avg:    math.NaN(),
			AbsDev: math.NaN(),
			StdDev: math.NaN(),
			MinVal: math.NaN(),
			MaxVal: math.NaN(),
			Bands:  emptyBands(),
		}
	}

	var sum Ticks
	for i, v := range samples {
		if int64(v) < 0 || v > clampLimit {
			samples[i] = 0
			v = 0
		}
		sum += v
	}

	d := Deviation{NumVals: uint64(n)}
	d.Avg = float64(sum) / float64(n)

	var limits [NumBands - 1]float64
	for i, frac := range bandThresholds {
		limits[i] = frac * d.Avg
	}

	minVal := math.MaxFloat64
	maxVal := 0.0
	var sumAbs, sumSq float64
	var bandSums [NumBands]float64

	for i, v := range samples {
		val := float64(v)
		ad := math.Abs(val - d.Avg)

		if val > maxVal {
			maxVal = val
			d.MaxValIdx = uint64(i)
		}
		if val < minVal {
			minVal = val
			d.MinValIdx = uint64(i)
		}

		b := classify(ad, limits)
		d.Bands[b].Count++
		bandSums[b] += val

		sumAbs += ad
		sumSq += ad * ad
	}

	d.MinVal = minVal
	d.MaxVal = maxVal
	d.AbsDev = sumAbs / float64(n)
	d.StdDev = math.Sqrt(sumSq / float64(n))

	for b := range d.Bands {
		d.Bands[b].Avg = bandSums[b] / float64(d.Bands[b].Count)
	}

	// Second pass: dispersion within each band, centered on the
	// band's own average rather than the global one.
	var bandAbs, bandSq [NumBands]float64
	for _, v := range samples {
		val := float64(v)
		b := classify(math.Abs(val-d.Avg), limits)
		ad := math.Abs(val - d.Bands[b].Avg)
		bandAbs[b] += ad
		bandSq[b] += ad * ad
	}

	for b := range d.Bands {
		cnt := float64(d.Bands[b].Count)
		d.Bands[b].AbsDev = bandAbs[b] / cnt
		d.Bands[b].StdDev = math.Sqrt(bandSq[b] / cnt)
	}

	return d
}

// classify returns the first band whose limit the deviation does not
// exceed; ties go to the tighter band.
func classify(ad float64, limits [NumBands - 1]float64) int {
	for b, limit := range limits {
		if ad <= limit {
			return b
		}
	}
	return BandRest
}

func emptyBands() [NumBands]Band {
	var bands [NumBands]Band
	for b := range bands {
		bands[b].Avg = math.NaN()
		bands[b].AbsDev = math.NaN()
		bands[b].StdDev = math.NaN()
	}
	return bands
}

// MedianNonZero returns the median of the non-zero samples: the middle
// value of the sorted set, or the mean of the two middle values for an
// even count. Returns NaN when every sample is zero or the set is
// empty. Used only as a calibration fallback, never in band analysis.
func MedianNonZero(samples []Ticks) float64 {
	scratch := make([]Ticks, 0, len(samples))
	for _, v := range samples {
		if v != 0 {
			scratch = append(scratch, v)
		}
	}

	if len(scratch) == 0 {
		return math.NaN()
	}

	sort.Slice(scratch, func(i, j int) bool { return scratch[i] < scratch[j] })

	mid := len(scratch) / 2
	if len(scratch)%2 == 0 {
		return (float64(scratch[mid-1]) + float64(scratch[mid])) / 2
	}
	return float64(scratch[mid])
}
