// Package orchestration runs the selected summation strategies one after
// another over a shared dataset and turns their reports into output lines and
// an exit code. Presentation is reached only through the ProgressReporter,
// ResultPresenter and ErrorHandler interfaces.
package orchestration
