package format

// sparklineChars are the eight block heights, lowest first.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as a row of block characters scaled between
// their own minimum and maximum. Only the last width values are drawn when
// width is positive. A constant series renders at the lowest height.
func Sparkline(values []float64, width int) string {
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	runes := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if hi > lo {
			idx = min(int((v-lo)/(hi-lo)*7.0), 7)
		}
		runes[i] = sparklineChars[idx]
	}
	return string(runes)
}
