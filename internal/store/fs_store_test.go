package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cwbudde/openclinfo/internal/clinfo"
)

// setupTestStore creates a temporary directory and returns an FSStore for testing.
func setupTestStore(t *testing.T) (*FSStore, string) {
	t.Helper()

	tempDir := t.TempDir()
	store, err := NewFSStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	return store, tempDir
}

// createTestSnapshot creates a snapshot with one platform and one GPU.
func createTestSnapshot(ts time.Time) *Snapshot {
	return &Snapshot{
		ID:        uuid.New().String(),
		Host:      "build-01",
		Timestamp: ts,
		Outcome:   clinfo.OutcomeComplete,
		Document: clinfo.Document{Platforms: []clinfo.PlatformInfo{{
			Name:    "NVIDIA CUDA",
			Version: "OpenCL 3.0 CUDA 12.2.148",
			Devices: []clinfo.DeviceInfo{{
				Type:            clinfo.DeviceTypeGPU,
				VendorID:        0x10de,
				MaxComputeUnits: 46,
				Name:            "NVIDIA GeForce RTX 3070",
			}},
		}}},
	}
}

func TestNewFSStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := NewFSStore(dir)
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}
	if store.BaseDir() != dir {
		t.Errorf("BaseDir = %s, want %s", store.BaseDir(), dir)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Fatal("Base directory was not created")
	}
}

func TestSaveAndLoad(t *testing.T) {
	store, tempDir := setupTestStore(t)
	snapshot := createTestSnapshot(time.Now())

	if err := store.Save(snapshot); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	expectedPath := filepath.Join(tempDir, "snapshots", snapshot.ID, "snapshot.json")
	if _, err := os.Stat(expectedPath); os.IsNotExist(err) {
		t.Fatalf("Snapshot file was not created at %s", expectedPath)
	}
	if _, err := os.Stat(expectedPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temp file should be renamed away")
	}

	loaded, err := store.Load(snapshot.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := clinfo.Diff(snapshot.Document, loaded.Document); len(diff) != 0 {
		t.Errorf("Document changed after round trip: %v", diff)
	}
	if loaded.Host != "build-01" || loaded.Outcome != clinfo.OutcomeComplete {
		t.Errorf("Metadata mismatch: %+v", loaded)
	}
	if !loaded.Timestamp.Equal(snapshot.Timestamp) {
		t.Errorf("Timestamp mismatch: %v vs %v", loaded.Timestamp, snapshot.Timestamp)
	}
}

func TestSave_Overwrites(t *testing.T) {
	store, _ := setupTestStore(t)
	snapshot := createTestSnapshot(time.Now())
	if err := store.Save(snapshot); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	snapshot.Host = "build-02"
	if err := store.Save(snapshot); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	loaded, err := store.Load(snapshot.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Host != "build-02" {
		t.Errorf("Expected overwritten host, got %s", loaded.Host)
	}
}

func TestSave_Validation(t *testing.T) {
	store, _ := setupTestStore(t)

	tests := []struct {
		name   string
		modify func(*Snapshot)
		field  string
	}{
		{"empty id", func(s *Snapshot) { s.ID = "" }, "ID"},
		{"path id", func(s *Snapshot) { s.ID = "../../etc" }, "ID"},
		{"zero timestamp", func(s *Snapshot) { s.Timestamp = time.Time{} }, "Timestamp"},
		{"unknown outcome", func(s *Snapshot) { s.Outcome = "bogus" }, "Outcome"},
		{"complete with error", func(s *Snapshot) { s.Error = "boom" }, "Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := createTestSnapshot(time.Now())
			tt.modify(s)
			err := store.Save(s)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %s, want %s", verr.Field, tt.field)
			}
		})
	}

	if err := store.Save(nil); err == nil {
		t.Error("Expected error for nil snapshot")
	}
}

func TestLoad_NotFound(t *testing.T) {
	store, _ := setupTestStore(t)
	id := uuid.New().String()

	_, err := store.Load(id)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if err.Error() != "snapshot not found: "+id {
		t.Errorf("Unexpected message: %s", err.Error())
	}
}

func TestLoad_Corrupted(t *testing.T) {
	store, tempDir := setupTestStore(t)
	id := uuid.New().String()
	dir := filepath.Join(tempDir, "snapshots", id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "snapshot.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load(id); err == nil {
		t.Fatal("Expected error for corrupted snapshot")
	}

	// Listing skips the corrupted entry.
	infos, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("Expected 0 infos, got %d", len(infos))
	}
}

func TestList_SortedOldestFirst(t *testing.T) {
	store, tempDir := setupTestStore(t)
	now := time.Now()
	newer := createTestSnapshot(now)
	older := createTestSnapshot(now.Add(-time.Hour))
	for _, s := range []*Snapshot{newer, older} {
		if err := store.Save(s); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	// Stray files and empty directories are ignored.
	os.WriteFile(filepath.Join(tempDir, "snapshots", "README"), []byte("x"), 0644)
	os.MkdirAll(filepath.Join(tempDir, "snapshots", uuid.New().String()), 0755)

	infos, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("Expected 2 infos, got %d", len(infos))
	}
	if infos[0].ID != older.ID || infos[1].ID != newer.ID {
		t.Error("Snapshots not sorted by timestamp")
	}
	if infos[0].Platforms != 1 || infos[0].Devices != 1 {
		t.Errorf("Unexpected counts: %+v", infos[0])
	}
}

func TestList_Empty(t *testing.T) {
	store, _ := setupTestStore(t)
	infos, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if infos == nil || len(infos) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", infos)
	}
}

func TestDelete(t *testing.T) {
	store, tempDir := setupTestStore(t)
	snapshot := createTestSnapshot(time.Now())
	if err := store.Save(snapshot); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Delete(snapshot.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "snapshots", snapshot.ID)); !os.IsNotExist(err) {
		t.Error("Snapshot directory should be removed")
	}
	if err := store.Delete(snapshot.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestNewSnapshot(t *testing.T) {
	layer := clinfo.NewMockLayer(clinfo.PlatformInfo{Name: "p"})
	layer.InjectFault(clinfo.Fault{Stage: clinfo.StageDeviceIDs, Platform: -1, Device: -1, Status: clinfo.StatusOutOfResources})
	res := clinfo.New(layer).Enumerate()

	s := NewSnapshot(res)
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if s.Outcome != clinfo.OutcomePartial {
		t.Errorf("Outcome = %s", s.Outcome)
	}
	if s.Error == "" {
		t.Error("Expected error text for partial snapshot")
	}
	if s.Document.Platforms == nil {
		t.Error("Document should be normalized")
	}
	want, err := clinfo.Fingerprint(s.Document)
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	if s.Digest != want {
		t.Errorf("Digest = %q, want %q", s.Digest, want)
	}
	if s.ToInfo().Digest != s.Digest {
		t.Error("ToInfo should carry the digest")
	}
}
