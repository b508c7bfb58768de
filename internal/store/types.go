package store

import (
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/cwbudde/openclinfo/internal/clinfo"
)

// Snapshot is one persisted enumeration result.
type Snapshot struct {
	ID        string          `json:"id"`
	Host      string          `json:"host"`
	Timestamp time.Time       `json:"timestamp"`
	Outcome   clinfo.Outcome  `json:"outcome"`
	Error     string          `json:"error,omitempty"`
	Digest    string          `json:"digest,omitempty"`
	Document  clinfo.Document `json:"document"`
}

// SnapshotInfo is snapshot metadata without the document.
type SnapshotInfo struct {
	ID        string         `json:"id"`
	Host      string         `json:"host"`
	Timestamp time.Time      `json:"timestamp"`
	Outcome   clinfo.Outcome `json:"outcome"`
	Digest    string         `json:"digest,omitempty"`
	Platforms int            `json:"platforms"`
	Devices   int            `json:"devices"`
}

// NewSnapshot captures an enumeration result under a fresh ID.
func NewSnapshot(res clinfo.Result) *Snapshot {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	s := &Snapshot{
		ID:        uuid.New().String(),
		Host:      host,
		Timestamp: time.Now(),
		Outcome:   res.Outcome,
		Document:  res.Document.Normalized(),
	}
	if res.Err != nil {
		s.Error = res.Err.Error()
	}
	if digest, err := clinfo.Fingerprint(s.Document); err == nil {
		s.Digest = digest
	}
	return s
}

// ToInfo converts a Snapshot to its metadata.
func (s *Snapshot) ToInfo() SnapshotInfo {
	return SnapshotInfo{
		ID:        s.ID,
		Host:      s.Host,
		Timestamp: s.Timestamp,
		Outcome:   s.Outcome,
		Digest:    s.Digest,
		Platforms: len(s.Document.Platforms),
		Devices:   s.Document.DeviceCount(),
	}
}

// ValidateID checks that id is a UUID, which also keeps it safe as a directory name.
func ValidateID(id string) error {
	if id == "" {
		return &ValidationError{Field: "ID", Reason: "cannot be empty"}
	}
	if _, err := uuid.Parse(id); err != nil {
		return &ValidationError{Field: "ID", Reason: "must be a UUID"}
	}
	return nil
}

// Validate checks if the snapshot has valid data.
func (s *Snapshot) Validate() error {
	if err := ValidateID(s.ID); err != nil {
		return err
	}
	if s.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	switch s.Outcome {
	case clinfo.OutcomeComplete:
		if s.Error != "" {
			return &ValidationError{Field: "Error", Reason: "must be empty for a complete snapshot"}
		}
	case clinfo.OutcomePartial, clinfo.OutcomeUnavailable:
	default:
		return &ValidationError{Field: "Outcome", Reason: "unknown value " + string(s.Outcome)}
	}
	return nil
}

// ValidationError represents a snapshot validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}
