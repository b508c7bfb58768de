package clinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FormatForPath picks a format from a file extension. Unknown extensions are treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".cbor":
		return FormatCBOR
	default:
		return FormatJSON
	}
}

// ReadDocument loads a saved document from disk.
func ReadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read document: %w", err)
	}
	doc, err := Decode(data, FormatForPath(path))
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadFixture builds a MockLayer that replays the document stored at path.
func LoadFixture(path string) (*MockLayer, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	return NewMockLayerFromDocument(doc), nil
}
