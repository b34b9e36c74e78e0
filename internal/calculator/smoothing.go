package calculator

// wilder applies Wilder's running average to values[start:]. The seed is the
// plain mean of the first `period` values and lands on index start+period-1.
// Callers guarantee len(values) >= start+period.
func wilder(values []float64, start, period int) []float64 {
	out := nanSeries(len(values))
	seed := start + period - 1
	sum := 0.0
	for i := start; i <= seed; i++ {
		sum += values[i]
	}
	out[seed] = sum / float64(period)
	p := float64(period)
	for i := seed + 1; i < len(values); i++ {
		out[i] = (out[i-1]*(p-1) + values[i]) / p
	}
	return out
}
