package store

import (
	"testing"
	"time"
)

func infosAt(now time.Time, ages ...time.Duration) []SnapshotInfo {
	infos := make([]SnapshotInfo, len(ages))
	for i, age := range ages {
		infos[i] = SnapshotInfo{ID: age.String(), Timestamp: now.Add(-age)}
	}
	return infos
}

func ids(infos []SnapshotInfo) []string {
	out := make([]string, len(infos))
	for i, info := range infos {
		out[i] = info.ID
	}
	return out
}

func TestSelectForDeletion(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	infos := infosAt(now, 1*day, 10*day, 3*day, 40*day)

	tests := []struct {
		name      string
		keepLast  int
		olderThan time.Duration
		want      []string
	}{
		{"no policy", 0, 0, nil},
		{"by age", 0, 7 * day, []string{"960h0m0s", "240h0m0s"}},
		{"by count", 2, 0, []string{"960h0m0s", "240h0m0s"}},
		{"keep more than exist", 10, 0, nil},
		{"combined no duplicates", 3, 7 * day, []string{"960h0m0s", "240h0m0s"}},
		{"combined count wins", 1, 30 * day, []string{"960h0m0s", "240h0m0s", "72h0m0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(SelectForDeletion(infos, tt.keepLast, tt.olderThan, now))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}
