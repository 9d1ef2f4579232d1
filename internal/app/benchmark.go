package app

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/agbru/sumbench/internal/bench"
	"github.com/agbru/sumbench/internal/cli"
	"github.com/agbru/sumbench/internal/config"
	"github.com/agbru/sumbench/internal/dataset"
	apperrors "github.com/agbru/sumbench/internal/errors"
	"github.com/agbru/sumbench/internal/logging"
	"github.com/agbru/sumbench/internal/memory"
	"github.com/agbru/sumbench/internal/metrics"
	"github.com/agbru/sumbench/internal/orchestration"
	"github.com/agbru/sumbench/internal/sum"
	"github.com/agbru/sumbench/internal/sysmon"
	"github.com/agbru/sumbench/internal/tui"
)

// runBenchmark allocates the dataset, runs every selected strategy and
// reports the results.
func (a *Application) runBenchmark(ctx context.Context, out io.Writer, logger *logging.ZerologAdapter) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := a.Config
	presenter := cli.CLIResultPresenter{}

	if err := sysmon.EnsureAvailable(dataset.BytesFor(cfg.Length)); err != nil {
		logger.Error("dataset does not fit in memory", err, logging.Int("length", cfg.Length))
		return presenter.HandleError(err, a.ErrWriter)
	}
	ds, err := dataset.New(cfg.Length, int32(cfg.FillValue))
	if err != nil {
		return presenter.HandleError(apperrors.WrapError(err, "allocating dataset"), a.ErrWriter)
	}
	logger.Info("dataset allocated",
		logging.Int("length", ds.Len()),
		logging.Uint64("bytes", ds.SizeBytes()),
		logging.Int64("expected_sum", ds.ExpectedSum()),
	)

	strategies, err := orchestration.GetStrategiesToRun(cfg.Strategies, a.Factory)
	if err != nil {
		return presenter.HandleError(err, a.ErrWriter)
	}

	recorder := metrics.NewRecorder()
	recorder.SetDataset(ds.Len(), ds.SizeBytes())

	if cfg.Details {
		cli.PrintExecutionConfig(cfg, ds, sysmon.DescribeHost(), a.ErrWriter)
	}

	gcMode, _ := memory.ParseGCMode(cfg.GCMode)
	gc := memory.NewGCController(gcMode, ds.Len())
	gc.SetLogger(logger.Zerolog().With().Str("component", "gc").Logger())

	memCollector := metrics.NewMemoryCollector()
	memBefore := memCollector.Snapshot()
	sampleBefore := sysmon.Sample()
	logger.Debug("system sample",
		logging.String("when", "before"),
		logging.Float64("cpu_percent", sampleBefore.CPUPercent),
		logging.Float64("mem_percent", sampleBefore.MemPercent),
	)

	harnessOpts := []bench.Option{bench.WithLogger(logger), bench.WithRecorder(recorder)}
	gc.Begin()
	reporter := a.progressReporter(strategies, cancel)
	results := orchestration.ExecuteBenchmarks(ctx, strategies, ds, cfg, harnessOpts, reporter, a.ErrWriter)
	gc.End()

	sampleAfter := sysmon.Sample()
	recorder.ObserveMemory(memBefore, memCollector.Snapshot())
	logger.Debug("system sample",
		logging.String("when", "after"),
		logging.Float64("cpu_percent", sampleAfter.CPUPercent),
		logging.Float64("mem_percent", sampleAfter.MemPercent),
	)

	opts := orchestration.PresentationOptions{
		Details:  cfg.Details,
		Verbose:  cfg.Verbose,
		Expected: ds.ExpectedSum(),
	}
	exitCode := orchestration.AnalyzeResults(results, opts, presenter, presenter, out, a.ErrWriter)

	if cfg.Details {
		if gc.Active() {
			cli.DisplayMemoryStats(gc.Stats(), a.ErrWriter)
		}
		cli.PrintSystemSample("before", sampleBefore, a.ErrWriter)
		cli.PrintSystemSample("after", sampleAfter, a.ErrWriter)
	}

	if cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Error("metrics export failed", err)
			if exitCode == apperrors.ExitSuccess {
				exitCode = apperrors.ExitErrorGeneric
			}
		} else {
			logger.Info("metrics written", logging.String("path", cfg.MetricsFile))
		}
	}
	return exitCode
}

// progressReporter returns the progress display for this run. Quitting the
// dashboard calls stop.
func (a *Application) progressReporter(strategies []sum.Strategy, stop context.CancelFunc) orchestration.ProgressReporter {
	return selectProgressReporter(a.Config, isTerminal(a.ErrWriter), strategies, stop)
}

// selectProgressReporter picks nothing when progress is disabled or the
// error stream is not a terminal, the dashboard with --tui, and the spinner
// otherwise.
func selectProgressReporter(cfg config.AppConfig, terminal bool, strategies []sum.Strategy, stop context.CancelFunc) orchestration.ProgressReporter {
	switch {
	case cfg.NoProgress || !terminal:
		return orchestration.NullProgressReporter{}
	case cfg.TUI:
		names := make([]string, len(strategies))
		for i, s := range strategies {
			names[i] = s.Name()
		}
		return tui.NewProgressReporter(names, stop)
	default:
		return cli.CLIProgressReporter{}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
