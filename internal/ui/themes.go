package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a set of ANSI escape sequences for inline colorization.
type Theme struct {
	Name      string
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Bold      string
	Underline string
	Reset     string
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",
		Secondary: "\033[38;5;245m",
		Success:   "\033[38;5;82m",
		Warning:   "\033[38;5;220m",
		Error:     "\033[38;5;196m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// LightTheme suits light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",
		Secondary: "\033[38;5;240m",
		Success:   "\033[38;5;28m",
		Warning:   "\033[38;5;130m",
		Error:     "\033[38;5;124m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// NoColorTheme emits no escape sequences at all.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme activates a theme by name: "dark", "light" or "none". Unknown
// names select the dark theme.
func SetTheme(name string) {
	switch name {
	case "light":
		SetCurrentTheme(LightTheme)
	case "none":
		SetCurrentTheme(NoColorTheme)
	default:
		SetCurrentTheme(DarkTheme)
	}
}

// InitTheme picks the theme at startup. Colors are disabled when noColor is
// set or the NO_COLOR environment variable is present (https://no-color.org/).
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}

// ColorEnabled reports whether the active theme emits colors.
func ColorEnabled() bool { return GetCurrentTheme().Name != NoColorTheme.Name }

func ColorPrimary() string   { return GetCurrentTheme().Primary }
func ColorSecondary() string { return GetCurrentTheme().Secondary }
func ColorGreen() string     { return GetCurrentTheme().Success }
func ColorYellow() string    { return GetCurrentTheme().Warning }
func ColorRed() string       { return GetCurrentTheme().Error }
func ColorBold() string      { return GetCurrentTheme().Bold }
func ColorUnderline() string { return GetCurrentTheme().Underline }
func ColorReset() string     { return GetCurrentTheme().Reset }

// TableStyles holds the lipgloss styles of the details table.
type TableStyles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Cell   lipgloss.Style
	Best   lipgloss.Style
	Dim    lipgloss.Style
	Border lipgloss.Style
}

// CurrentTableStyles returns table styles matching the active theme.
func CurrentTableStyles() TableStyles {
	if !ColorEnabled() {
		plain := lipgloss.NewStyle()
		return TableStyles{
			Title:  plain.Bold(true),
			Header: plain.Bold(true),
			Cell:   plain,
			Best:   plain,
			Dim:    plain,
			Border: plain.Border(lipgloss.NormalBorder()),
		}
	}
	accent := lipgloss.AdaptiveColor{Light: "#005FAF", Dark: "#00AFFF"}
	good := lipgloss.AdaptiveColor{Light: "#008700", Dark: "#5FFF00"}
	dim := lipgloss.AdaptiveColor{Light: "#585858", Dark: "#8A8A8A"}
	return TableStyles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		Header: lipgloss.NewStyle().Bold(true).Underline(true),
		Cell:   lipgloss.NewStyle(),
		Best:   lipgloss.NewStyle().Bold(true).Foreground(good),
		Dim:    lipgloss.NewStyle().Foreground(dim),
		Border: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
	}
}
