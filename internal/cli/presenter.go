package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/sumbench/internal/bench"
	apperrors "github.com/agbru/sumbench/internal/errors"
	"github.com/agbru/sumbench/internal/format"
	"github.com/agbru/sumbench/internal/orchestration"
	"github.com/agbru/sumbench/internal/ui"
)

// CLIProgressReporter shows trial progress with a terminal spinner.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress implements orchestration.ProgressReporter.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, updates <-chan orchestration.ProgressUpdate, numStrategies int, out io.Writer) {
	DisplayProgress(wg, updates, numStrategies, out)
}

// CLIResultPresenter writes report lines and the comparison table for a
// terminal.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

// PresentReport writes the three report lines of r.
func (CLIResultPresenter) PresentReport(r bench.Report, out io.Writer) {
	DisplayReport(out, r)
}

// PresentComparison writes a bordered table comparing every successful
// strategy. Speed-up is relative to the slowest mean.
func (CLIResultPresenter) PresentComparison(results []orchestration.BenchmarkResult, opts orchestration.PresentationOptions, out io.Writer) {
	fmt.Fprintln(out, FormatComparisonTable(results, opts))
}

// HandleError prints err and maps it to an exit code.
func (CLIResultPresenter) HandleError(err error, out io.Writer) int {
	return apperrors.HandleBenchmarkError(err, out)
}

// SparklineWidth caps the per-strategy trial trend in the comparison table.
const SparklineWidth = 60

// FormatComparisonTable renders the comparison table with the active theme.
func FormatComparisonTable(results []orchestration.BenchmarkResult, opts orchestration.PresentationOptions) string {
	styles := ui.CurrentTableStyles()

	var ok []bench.Report
	for _, res := range results {
		if res.Err == nil {
			ok = append(ok, res.Report)
		}
	}

	var slowest bench.Report
	best := -1
	for i, r := range ok {
		if r.Mean > slowest.Mean {
			slowest = r
		}
		if best < 0 || r.Mean < ok[best].Mean {
			best = i
		}
	}

	headers := []string{"Strategy", "Mean ms", "Median ms", "Min ms", "Max ms", "Speed-up", "Sum", "Total"}
	rows := make([][]string, 0, len(ok))
	for _, r := range ok {
		speedup := "-"
		if s := r.Speedup(slowest); s > 0 {
			speedup = fmt.Sprintf("%.2fx", s)
		}
		rows = append(rows, []string{
			r.Strategy,
			format.FormatMillis(r.Mean),
			format.FormatMillis(r.Median),
			format.FormatMillis(r.Min),
			format.FormatMillis(r.Max),
			speedup,
			fmt.Sprintf("%d", r.LastSum),
			format.FormatExecutionDuration(r.Total),
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var lines []string
	lines = append(lines, styles.Title.Render("Comparison"))
	lines = append(lines, renderRow(headers, widths, styles.Header))
	for i, row := range rows {
		style := styles.Cell
		if i == best && len(rows) > 1 {
			style = styles.Best
		}
		lines = append(lines, renderRow(row, widths, style))
	}
	nameWidth := widths[0]
	for _, r := range ok {
		trend := fmt.Sprintf("%-*s  %s", nameWidth, r.Strategy, format.Sparkline(r.Measurements, SparklineWidth))
		lines = append(lines, styles.Dim.Render(trend))
	}
	lines = append(lines, styles.Dim.Render(fmt.Sprintf("expected sum %d", opts.Expected)))
	if opts.Verbose {
		for _, r := range ok {
			lines = append(lines, styles.Dim.Render(r.Strategy+" trials: "+formatSamples(r.Measurements)))
		}
	}
	return styles.Border.Render(strings.Join(lines, "\n"))
}

func renderRow(cells []string, widths []int, style lipgloss.Style) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		align := lipgloss.Right
		if i == 0 {
			align = lipgloss.Left
		}
		parts[i] = style.Width(widths[i]).Align(align).Render(cell)
	}
	return strings.Join(parts, "  ")
}

func formatSamples(ms []float64) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = format.FormatMillis(m)
	}
	return strings.Join(parts, " ")
}
