package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
)

// isFlagSet reports whether a flag was given explicitly on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny is isFlagSet over a flag and its aliases.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride maps one environment key (without EnvPrefix) to the flags it
// shadows and the function that applies its value. Unparsable values are
// ignored and the flag default stays in effect.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

func intOverride(set func(*AppConfig, int)) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			set(c, parsed)
		}
	}
}

func boolOverride(get func(*AppConfig) *bool) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		p := get(c)
		*p = parseBoolEnv(v, *p)
	}
}

var envOverrides = []envOverride{
	{"LENGTH", []string{"n", "length"}, intOverride(func(c *AppConfig, v int) { c.Length = v })},
	{"FILL", []string{"fill"}, intOverride(func(c *AppConfig, v int) { c.FillValue = v })},
	{"WORKERS", []string{"w", "workers"}, intOverride(func(c *AppConfig, v int) { c.Workers = v })},
	{"ITERATIONS", []string{"i", "iterations"}, intOverride(func(c *AppConfig, v int) { c.Iterations = v })},

	{"STRATEGIES", []string{"s", "strategies"}, func(c *AppConfig, v string) {
		c.Strategies = SplitStrategies(v)
	}},
	{"GC", []string{"gc"}, func(c *AppConfig, v string) { c.GCMode = strings.TrimSpace(v) }},
	{"METRICS_FILE", []string{"metrics-file"}, func(c *AppConfig, v string) { c.MetricsFile = v }},
	{"LOG_FORMAT", []string{"log-format"}, func(c *AppConfig, v string) { c.LogFormat = strings.ToLower(strings.TrimSpace(v)) }},

	{"DETAILS", []string{"d", "details"}, boolOverride(func(c *AppConfig) *bool { return &c.Details })},
	{"VERBOSE", []string{"v", "verbose"}, boolOverride(func(c *AppConfig) *bool { return &c.Verbose })},
	{"NO_COLOR", []string{"no-color"}, boolOverride(func(c *AppConfig) *bool { return &c.NoColor })},
	{"NO_PROGRESS", []string{"no-progress"}, boolOverride(func(c *AppConfig) *bool { return &c.NoProgress })},
	{"TUI", []string{"tui"}, boolOverride(func(c *AppConfig) *bool { return &c.TUI })},
}

// parseBoolEnv accepts true/1/yes and false/0/no, case-insensitively, and
// returns defaultVal for anything else.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies SUMBENCH_* variables to every setting whose flag
// was not given explicitly. Priority: flags > environment > defaults.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
