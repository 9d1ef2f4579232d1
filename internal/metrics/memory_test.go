package metrics

import "testing"

func TestMemoryCollector_Snapshot(t *testing.T) {
	t.Parallel()

	snap := NewMemoryCollector().Snapshot()
	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
}

func TestMemoryCollector_SysNeverShrinks(t *testing.T) {
	t.Parallel()

	mc := NewMemoryCollector()
	before := mc.Snapshot()
	_ = make([]int32, 1<<18)
	after := mc.Snapshot()

	if after.Sys < before.Sys {
		t.Error("Sys should not decrease between snapshots")
	}
}

func TestGCDuring(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name          string
		before, after uint32
		want          uint32
	}{
		{"no cycles", 4, 4, 0},
		{"three cycles", 4, 7, 3},
		{"counter went backwards", 7, 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := GCDuring(MemorySnapshot{NumGC: tt.before}, MemorySnapshot{NumGC: tt.after})
			if got != tt.want {
				t.Errorf("GCDuring = %d, want %d", got, tt.want)
			}
		})
	}
}
