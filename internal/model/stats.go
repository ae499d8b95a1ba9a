package model

import "math"

// DefaultBins is the histogram resolution used by the dashboard.
const DefaultBins = 20

// Summarize computes mean, min, max and sample standard deviation of one
// column. NaN and infinite values are skipped. An empty series or unknown
// metric yields NoData with zero values.
func Summarize(series VitalSeries, metric string) MetricSummary {
	sum := MetricSummary{Metric: metric, Unit: UnitOf(metric)}
	vals := finite(series.Values(metric))
	if len(vals) == 0 {
		sum.NoData = true
		return sum
	}

	sum.Count = len(vals)
	sum.Min, sum.Max = vals[0], vals[0]
	var total float64
	for _, v := range vals {
		total += v
		if v < sum.Min {
			sum.Min = v
		}
		if v > sum.Max {
			sum.Max = v
		}
	}
	sum.Mean = total / float64(len(vals))
	sum.StdDev = stddev(vals, sum.Mean)
	return sum
}

// SummarizeAll summarizes every recorded column in column order.
func SummarizeAll(series VitalSeries) []MetricSummary {
	out := make([]MetricSummary, 0, len(SeriesMetrics))
	for _, m := range SeriesMetrics {
		out = append(out, Summarize(series, m))
	}
	return out
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// finite returns the values that are neither NaN nor infinite.
func finite(vals []float64) []float64 {
	out := vals[:0:0]
	for _, v := range vals {
		if isFinite(v) {
			out = append(out, v)
		}
	}
	return out
}

// stddev uses the n-1 denominator; fewer than two values give 0.
func stddev(vals []float64, mean float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	var ss float64
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)-1))
}

// CorrelationMatrix computes pairwise Pearson correlation across the ranged
// metrics. The diagonal is 1. Samples where either value is not finite are
// left out of a pair. Pairs involving a constant column, or fewer than two
// usable samples, are 0.
func CorrelationMatrix(series VitalSeries) Correlation {
	metrics := RangedMetrics()
	cols := make([][]float64, len(metrics))
	for i, m := range metrics {
		cols[i] = series.Values(m)
	}

	matrix := make([][]float64, len(metrics))
	for i := range matrix {
		matrix[i] = make([]float64, len(metrics))
		matrix[i][i] = 1
	}
	for i := 0; i < len(metrics); i++ {
		for j := i + 1; j < len(metrics); j++ {
			r := pearson(cols[i], cols[j])
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}
	return Correlation{Metrics: metrics, Matrix: matrix}
}

func pearson(x, y []float64) float64 {
	if len(x) != len(y) {
		return 0
	}
	var fx, fy []float64
	for i := range x {
		if isFinite(x[i]) && isFinite(y[i]) {
			fx = append(fx, x[i])
			fy = append(fy, y[i])
		}
	}
	x, y = fx, fy
	n := len(x)
	if n < 2 {
		return 0
	}
	var mx, my float64
	for i := 0; i < n; i++ {
		mx += x[i]
		my += y[i]
	}
	mx /= float64(n)
	my /= float64(n)

	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	r := sxy / math.Sqrt(sxx*syy)
	if !isFinite(r) {
		return 0
	}
	// Keep rounding noise inside [-1, 1].
	return math.Max(-1, math.Min(1, r))
}

// Histogram builds an equal-width histogram of one column. bins <= 0 uses
// DefaultBins. NaN and infinite values are skipped. A constant column
// collapses into a single bucket.
func Histogram(series VitalSeries, metric string, bins int) Distribution {
	if bins <= 0 {
		bins = DefaultBins
	}
	d := Distribution{Metric: metric}
	vals := finite(series.Values(metric))
	if len(vals) == 0 {
		return d
	}
	d.Total = len(vals)

	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		d.Buckets = []HistBucket{{Low: lo, High: hi, Count: len(vals)}}
		return d
	}

	width := (hi - lo) / float64(bins)
	d.Buckets = make([]HistBucket, bins)
	for i := range d.Buckets {
		d.Buckets[i].Low = lo + float64(i)*width
		d.Buckets[i].High = lo + float64(i+1)*width
	}
	d.Buckets[bins-1].High = hi
	for _, v := range vals {
		idx := 0
		if f := (v - lo) / width; isFinite(f) {
			idx = int(f)
		}
		if idx >= bins {
			idx = bins - 1
		}
		d.Buckets[idx].Count++
	}
	return d
}
