// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//   - Format* functions return strings without performing I/O.
//   - Print* functions write diagnostic blocks to the error stream.

package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/agbru/sumbench/internal/bench"
	"github.com/agbru/sumbench/internal/format"
)

// FormatReportLines returns the three stdout lines of a report: mean in
// milliseconds, median in milliseconds, and the last sum. No color or
// label is ever added so the output stays machine-readable.
func FormatReportLines(r bench.Report) [3]string {
	return [3]string{
		format.FormatMillis(r.Mean),
		format.FormatMillis(r.Median),
		strconv.FormatInt(r.LastSum, 10),
	}
}

// DisplayReport writes the report lines of r to out, one per line.
func DisplayReport(out io.Writer, r bench.Report) {
	for _, line := range FormatReportLines(r) {
		fmt.Fprintln(out, line)
	}
}
