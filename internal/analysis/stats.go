package analysis

import (
	"math"
	"sort"
	"strconv"

	"github.com/montanaflynn/stats"
)

// Float is a float64 that encodes NaN and ±Inf as JSON null.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

// Mean returns the arithmetic mean, or NaN for no values.
func Mean(vals []float64) float64 {
	m, err := stats.Mean(vals)
	if err != nil {
		return math.NaN()
	}
	return m
}

// Median returns the median, or NaN for no values.
func Median(vals []float64) float64 {
	m, err := stats.Median(vals)
	if err != nil {
		return math.NaN()
	}
	return m
}

// StdDev returns the sample standard deviation (n-1 denominator), NaN when
// fewer than two values are available.
func StdDev(vals []float64) float64 {
	if len(vals) < 2 {
		return math.NaN()
	}
	s, err := stats.StandardDeviationSample(vals)
	if err != nil {
		return math.NaN()
	}
	return s
}

// PopStdDev returns the population standard deviation (n denominator).
func PopStdDev(vals []float64) float64 {
	s, err := stats.StandardDeviationPopulation(vals)
	if err != nil {
		return math.NaN()
	}
	return s
}

// Quantiles returns the requested quantiles of vals using linear
// interpolation between closest ranks, the same rule spreadsheet PERCENTILE.INC uses.
func Quantiles(vals []float64, qs ...float64) []float64 {
	out := make([]float64, len(qs))
	if len(vals) == 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	for i, q := range qs {
		out[i] = quantile(cp, q)
	}
	return out
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// MedianMAD computes median and MAD (median absolute deviation) of values.
func MedianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	median = Median(vals)
	dev := make([]float64, len(vals))
	for i, v := range vals {
		dev[i] = math.Abs(v - median)
	}
	mad = Median(dev)
	return
}

// Range returns min and max, or NaN for no values.
func Range(vals []float64) (lo, hi float64) {
	lo, err := stats.Min(vals)
	if err != nil {
		return math.NaN(), math.NaN()
	}
	hi, _ = stats.Max(vals)
	return lo, hi
}
