package main

import (
	"context"
	"os"

	"github.com/agbru/sumbench/internal/app"
	apperrors "github.com/agbru/sumbench/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.HandleBenchmarkError(err, os.Stderr))
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
