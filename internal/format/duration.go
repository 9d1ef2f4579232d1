// Package format converts durations and timings into the strings the
// benchmark prints.
package format

import (
	"fmt"
	"time"
)

// Millis converts d to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// FormatMillis renders a millisecond value with three decimals, e.g. "12.345".
func FormatMillis(ms float64) string {
	return fmt.Sprintf("%.3f", ms)
}

// FormatExecutionDuration formats a duration for human display: microseconds
// below a millisecond, milliseconds below a second, and the default
// representation otherwise.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return d.String()
	}
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
