package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// FSStore implements Store on the filesystem.
// Snapshots live in <baseDir>/snapshots/<id>/snapshot.json.
//
// Writes go to a temp file that is renamed into place, so concurrent readers
// never observe a half-written snapshot and no locks are needed.
type FSStore struct {
	baseDir string
}

// NewFSStore creates a filesystem store rooted at baseDir, creating it if needed.
func NewFSStore(baseDir string) (*FSStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &FSStore{baseDir: baseDir}, nil
}

// BaseDir returns the store root.
func (fs *FSStore) BaseDir() string {
	return fs.baseDir
}

func (fs *FSStore) snapshotsDir() string {
	return filepath.Join(fs.baseDir, "snapshots")
}

func (fs *FSStore) snapshotDir(id string) string {
	return filepath.Join(fs.snapshotsDir(), id)
}

func (fs *FSStore) snapshotPath(id string) string {
	return filepath.Join(fs.snapshotDir(id), "snapshot.json")
}

// Save atomically writes a snapshot.
func (fs *FSStore) Save(snapshot *Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}
	if err := snapshot.Validate(); err != nil {
		return err
	}

	dir := fs.snapshotDir(snapshot.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	stored := *snapshot
	stored.Document = snapshot.Document.Normalized()
	data, err := json.MarshalIndent(&stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	finalPath := fs.snapshotPath(snapshot.ID)
	tempPath := finalPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp snapshot file: %w", err)
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename snapshot file: %w", err)
	}

	slog.Debug("Snapshot saved", "id", snapshot.ID, "path", finalPath)
	return nil
}

// Load retrieves the snapshot with the given ID.
func (fs *FSStore) Load(id string) (*Snapshot, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	path := fs.snapshotPath(id)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{ID: id}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to deserialize snapshot: %w", err)
	}
	snapshot.Document = snapshot.Document.Normalized()

	slog.Debug("Snapshot loaded", "id", id, "path", path)
	return &snapshot, nil
}

// List returns metadata for all stored snapshots, oldest first.
// Unreadable snapshots are logged and skipped.
func (fs *FSStore) List() ([]SnapshotInfo, error) {
	entries, err := os.ReadDir(fs.snapshotsDir())
	if os.IsNotExist(err) {
		return []SnapshotInfo{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read snapshots directory: %w", err)
	}

	infos := []SnapshotInfo{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id := entry.Name()
		if _, err := os.Stat(fs.snapshotPath(id)); os.IsNotExist(err) {
			continue
		}

		snapshot, err := fs.Load(id)
		if err != nil {
			slog.Warn("Failed to load snapshot for listing", "id", id, "error", err)
			continue
		}
		infos = append(infos, snapshot.ToInfo())
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Timestamp.Before(infos[j].Timestamp)
	})

	slog.Debug("Listed snapshots", "count", len(infos))
	return infos, nil
}

// Delete removes the snapshot directory.
func (fs *FSStore) Delete(id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	dir := fs.snapshotDir(id)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return &NotFoundError{ID: id}
	} else if err != nil {
		return fmt.Errorf("failed to stat snapshot directory: %w", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove snapshot directory: %w", err)
	}

	slog.Debug("Snapshot deleted", "id", id, "path", dir)
	return nil
}
