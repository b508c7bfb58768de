package store

// Store defines the interface for capability snapshot persistence.
// Implementations must be safe for concurrent use.
//
// Error handling conventions:
//   - Return ErrNotFound if a snapshot doesn't exist (for Load/Delete)
//   - Return *ValidationError for malformed snapshots or IDs
//   - Wrap underlying errors with context using fmt.Errorf("context: %w", err)
type Store interface {
	// Save atomically writes a snapshot, replacing any snapshot with the same ID.
	Save(snapshot *Snapshot) error

	// Load retrieves the snapshot with the given ID.
	Load(id string) (*Snapshot, error)

	// List returns metadata for all stored snapshots, oldest first.
	List() ([]SnapshotInfo, error)

	// Delete removes the snapshot and its directory.
	Delete(id string) error
}

// ErrNotFound is returned when a requested snapshot does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing snapshot.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return "snapshot not found: " + e.ID
	}
	return "snapshot not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
