// Package ui holds the color themes and lipgloss styles shared by the
// command-line presentation code. Report lines on stdout are never styled;
// only the diagnostic output on stderr is.
package ui
