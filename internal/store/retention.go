package store

import (
	"sort"
	"time"
)

// SelectForDeletion applies a retention policy to infos.
// olderThan > 0 selects snapshots taken before now-olderThan; keepLast > 0
// selects all but the keepLast newest. A snapshot matched by both rules is
// returned once. The result is ordered oldest first.
func SelectForDeletion(infos []SnapshotInfo, keepLast int, olderThan time.Duration, now time.Time) []SnapshotInfo {
	sorted := make([]SnapshotInfo, len(infos))
	copy(sorted, infos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	cutoff := now.Add(-olderThan)
	excess := 0
	if keepLast > 0 && len(sorted) > keepLast {
		excess = len(sorted) - keepLast
	}

	var toDelete []SnapshotInfo
	for i, info := range sorted {
		tooOld := olderThan > 0 && info.Timestamp.Before(cutoff)
		if tooOld || i < excess {
			toDelete = append(toDelete, info)
		}
	}
	return toDelete
}
