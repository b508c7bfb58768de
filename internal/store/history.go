package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cwbudde/openclinfo/internal/clinfo"
)

// HistoryEntry is one line of the enumeration history log.
type HistoryEntry struct {
	Timestamp  time.Time      `json:"timestamp"`
	Outcome    clinfo.Outcome `json:"outcome"`
	Platforms  int            `json:"platforms"`
	Devices    int            `json:"devices"`
	SnapshotID string         `json:"snapshotId,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// NewHistoryEntry summarizes a snapshot for the history log.
func NewHistoryEntry(s *Snapshot) HistoryEntry {
	return HistoryEntry{
		Timestamp:  s.Timestamp,
		Outcome:    s.Outcome,
		Platforms:  len(s.Document.Platforms),
		Devices:    s.Document.DeviceCount(),
		SnapshotID: s.ID,
		Error:      s.Error,
	}
}

func historyPath(baseDir string) string {
	return filepath.Join(baseDir, "history.jsonl")
}

// HistoryWriter appends entries to <baseDir>/history.jsonl.
// It is safe for concurrent use.
type HistoryWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
}

// NewHistoryWriter opens the history log for appending, creating it if needed.
func NewHistoryWriter(baseDir string) (*HistoryWriter, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	file, err := os.OpenFile(historyPath(baseDir), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	return &HistoryWriter{file: file, writer: bufio.NewWriter(file)}, nil
}

// Write buffers one entry; it reaches disk on Flush or Close.
func (hw *HistoryWriter) Write(entry HistoryEntry) error {
	hw.mu.Lock()
	defer hw.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}
	data = append(data, '\n')
	if _, err := hw.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write history entry: %w", err)
	}
	return nil
}

// Flush writes buffered entries and syncs the file.
func (hw *HistoryWriter) Flush() error {
	hw.mu.Lock()
	defer hw.mu.Unlock()

	if err := hw.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush history writer: %w", err)
	}
	if err := hw.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync history file: %w", err)
	}
	return nil
}

// Close flushes and closes the log.
func (hw *HistoryWriter) Close() error {
	hw.mu.Lock()
	defer hw.mu.Unlock()

	if err := hw.writer.Flush(); err != nil {
		hw.file.Close()
		return fmt.Errorf("failed to flush on close: %w", err)
	}
	if err := hw.file.Close(); err != nil {
		return fmt.Errorf("failed to close history file: %w", err)
	}
	return nil
}

// AppendHistory writes a single entry and closes the log.
func AppendHistory(baseDir string, entry HistoryEntry) error {
	hw, err := NewHistoryWriter(baseDir)
	if err != nil {
		return err
	}
	if err := hw.Write(entry); err != nil {
		hw.Close()
		return err
	}
	return hw.Close()
}

// ReadHistory returns all entries in the log, oldest first.
// A missing log yields an empty slice.
func ReadHistory(baseDir string) ([]HistoryEntry, error) {
	file, err := os.Open(historyPath(baseDir))
	if os.IsNotExist(err) {
		return []HistoryEntry{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	return readHistory(file)
}

func readHistory(r io.Reader) ([]HistoryEntry, error) {
	entries := []HistoryEntry{}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var entry HistoryEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan history: %w", err)
	}
	return entries, nil
}
