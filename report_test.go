package cyclebench

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_PrintsSamplesAndStatistics(t *testing.T) {
	out := &bytes.Buffer{}
	p, _ := testProfiler(t, WithTickReader(stepReader(40)), WithOutput(out))

	p.Calibrate(20)
	out.Reset()

	d := p.Report(0, 20, 5)

	text := out.String()
	assert.Equal(t, 5, strings.Count(text, "["), "exactly numPrint raw samples printed")
	assert.Contains(t, text, "---- statistics:")
	assert.Contains(t, text, "avg")
	assert.Contains(t, text, "0-10%")
	assert.Contains(t, text, "75-100%")

	assert.EqualValues(t, 20, d.NumVals)

	// The record is retained for introspection. Empty bands carry
	// NaN, so compare the defined fields rather than the whole value.
	retained := p.LastDeviation()
	assert.Equal(t, d.Avg, retained.Avg)
	assert.Equal(t, d.NumVals, retained.NumVals)
	assert.Equal(t, d.Bands[Band10p].Count, retained.Bands[Band10p].Count)
}

func TestReport_ClampsPrintCount(t *testing.T) {
	out := &bytes.Buffer{}
	p, _ := testProfiler(t, WithTickReader(stepReader(40)), WithOutput(out))

	p.Calibrate(8)
	out.Reset()

	p.Report(0, 8, 100)

	assert.Equal(t, 8, strings.Count(out.String(), "["), "print count clamped to numVals")
}

func TestReport_SecondStore(t *testing.T) {
	out := &bytes.Buffer{}
	p, _ := testProfiler(t, WithTickReader(stepReader(40)), WithOutput(out))
	p.Calibrate(10)

	// Brackets around nothing: store 1 holds corrected deltas of 0.
	for i := 0; i < 10; i++ {
		p.Start(1)
		p.Stop(1, i)
	}
	out.Reset()

	d := p.Report(1, 10, 0)

	require.EqualValues(t, 10, d.NumVals)
	assert.Equal(t, 0.0, d.Avg, "instrumentation overhead fully subtracted")
	AssertBandPartition(t, d)
}

func TestPrintDeviation_EmptyBandsRenderNaN(t *testing.T) {
	out := &bytes.Buffer{}

	d := Analyze([]Ticks{100, 100})
	PrintDeviation(out, d)

	text := out.String()
	lines := strings.Split(strings.TrimSpace(text), "\n")
	// Header, aggregate, extrema, then one row per band.
	require.Len(t, lines, 3+NumBands)
	assert.Contains(t, text, "NaN", "empty bands carry undefined statistics")
}
