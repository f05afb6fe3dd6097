package cyclebench

import (
	"fmt"
	"io"
)

// bandLabels index-aligns with the Bands array of a Deviation record.
var bandLabels = [NumBands]string{
	"  0-10%", " 10-25%", " 25-50%", " 50-75%", "75-100%",
}

// Report prints the first numPrint raw samples of a store followed by
// the full statistical breakdown, and returns the record for
// programmatic inspection. numPrint is clamped to numVals. The record
// is also retained as the Profiler's last deviation.
func (p *Profiler) Report(store, numVals, numPrint int) Deviation {
	if numVals > p.numEntries {
		numVals = p.numEntries
	}
	if numPrint > numVals {
		numPrint = numVals
	}

	for i := 0; i < numPrint; i++ {
		fmt.Fprintf(p.out, "[%3d: %4d] ", i, uint64(p.stores[store][i]))
	}

	d := Analyze(p.stores[store][:numVals])
	PrintDeviation(p.out, d)

	p.last = d
	return d
}

// PrintDeviation renders a Deviation record as the aggregate line, the
// extrema line and one row per deviation band. Band rows show the
// band's share of the population and its own stability percentage;
// empty bands print NaN statistics.
func PrintDeviation(w io.Writer, d Deviation) {
	fmt.Fprintf(w, "\n ---- statistics:\n")
	fmt.Fprintf(w, "    avg : %-10.1f abs dev : %-10.1f std dev : %-10.1f num     : %d\n",
		d.Avg, d.AbsDev, d.StdDev, d.NumVals)
	fmt.Fprintf(w, "    min : %-10.1f (element: %6d)    max     : %-10.1f (element: %6d)\n",
		d.MinVal, d.MinValIdx, d.MaxVal, d.MaxValIdx)

	for b, band := range d.Bands {
		share := 100 * float64(band.Count) / float64(d.NumVals)
		stability := 100 * (1 - (band.Avg-band.StdDev)/band.Avg)
		fmt.Fprintf(w, "%s : %-10d ( %5.1f%%  |  avg: %7.1f  |  abs dev: %7.1f  |  std dev: %7.1f = %5.1f%% )\n",
			bandLabels[b], band.Count, share, band.Avg, band.AbsDev, band.StdDev, stability)
	}
}
