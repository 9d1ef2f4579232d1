// Package tui implements the optional interactive dashboard shown with
// --tui. It is built on bubbletea and consumes the same progress updates as
// the spinner, rendering one row per strategy with its trial count, timings
// and a sparkline of trial durations. The dashboard writes to the
// diagnostic stream only; report lines are still printed by the cli
// presenter once the run ends.
package tui
