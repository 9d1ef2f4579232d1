// Package app wires configuration, dataset, strategies and presentation
// into the sumbench command.
package app

import (
	"context"
	"errors"
	"flag"
	"io"

	"github.com/rs/zerolog"

	"github.com/agbru/sumbench/internal/config"
	"github.com/agbru/sumbench/internal/logging"
	"github.com/agbru/sumbench/internal/sum"
	"github.com/agbru/sumbench/internal/ui"
)

// FactoryFunc builds the strategy registry for a resolved worker count.
type FactoryFunc func(workers int) *sum.Factory

// Application is one configured sumbench invocation.
type Application struct {
	Config    config.AppConfig
	Factory   *sum.Factory
	ErrWriter io.Writer

	newFactory FactoryFunc
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactoryFunc replaces the default strategy registry.
func WithFactoryFunc(fn FactoryFunc) AppOption {
	return func(a *Application) { a.newFactory = fn }
}

// New parses args (args[0] is the program name) and prepares the
// application. Help requests come back as flag.ErrHelp; see IsHelpError.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, newFactory: sum.NewDefaultFactory}
	for _, opt := range opts {
		opt(app)
	}

	programName := "sumbench"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	// The registry's names do not depend on the worker count.
	available := app.newFactory(sum.DefaultWorkers).List()
	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, available)
	if err != nil {
		return nil, err
	}

	app.Config = cfg
	app.Factory = app.newFactory(cfg.ResolveWorkers())
	return app, nil
}

// Run executes the benchmark, writing report lines to out and everything
// else to the application's error writer. It returns the exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)
	return a.runBenchmark(ctx, out, a.newLogger())
}

// newLogger builds the stderr logger in the configured format. Only
// warnings and errors are shown unless --verbose is set, so a default run
// prints nothing but its report.
func (a *Application) newLogger() *logging.ZerologAdapter {
	level := zerolog.WarnLevel
	if a.Config.Verbose {
		level = zerolog.DebugLevel
	}
	if a.Config.LogFormat == config.LogFormatJSON {
		return logging.NewLogger(a.ErrWriter, "sumbench").WithLevel(level)
	}
	return logging.NewConsoleLogger(a.ErrWriter, level, !ui.ColorEnabled())
}

// IsHelpError reports whether err is a --help request.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
