package format

import (
	"testing"
	"time"
)

func TestMillis(t *testing.T) {
	t.Parallel()
	tests := []struct {
		d    time.Duration
		want float64
	}{
		{0, 0},
		{time.Millisecond, 1},
		{1500 * time.Microsecond, 1.5},
		{2 * time.Second, 2000},
		{1, 0.000001},
	}
	for _, tt := range tests {
		if got := Millis(tt.d); got != tt.want {
			t.Errorf("Millis(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestFormatMillis(t *testing.T) {
	t.Parallel()
	tests := []struct {
		ms   float64
		want string
	}{
		{0, "0.000"},
		{12.3456, "12.346"},
		{1.5, "1.500"},
		{1234.0004, "1234.000"},
	}
	for _, tt := range tests {
		if got := FormatMillis(tt.ms); got != tt.want {
			t.Errorf("FormatMillis(%v) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"microseconds", 250 * time.Microsecond, "250µs"},
		{"milliseconds", 42 * time.Millisecond, "42ms"},
		{"seconds", 1500 * time.Millisecond, "1.5s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatExecutionDuration(tt.d); got != tt.want {
				t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		b    uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{800_000_000, "762.9 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.b); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.b, got, tt.want)
		}
	}
}
