package clinfo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format selects a document encoding.
type Format string

const (
	// FormatJSON is compact JSON, the encoding published through the registry.
	FormatJSON       Format = "json"
	FormatJSONIndent Format = "json-indent"
	FormatYAML       Format = "yaml"
	FormatCBOR       Format = "cbor"
)

// ErrUnknownFormat is returned for an unrecognised format name.
var ErrUnknownFormat = errors.New("unknown document format")

var _ pflag.Value = (*Format)(nil)

// ParseFormat maps user input to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "json-indent", "pretty":
		return FormatJSONIndent, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
}

// SupportedFormats lists the canonical format names.
func SupportedFormats() []Format {
	return []Format{FormatJSON, FormatJSONIndent, FormatYAML, FormatCBOR}
}

func (f *Format) String() string {
	if *f == "" {
		return string(FormatJSON)
	}
	return string(*f)
}

func (f *Format) Set(name string) error {
	parsed, err := ParseFormat(name)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f *Format) Type() string {
	return "format"
}

// ContentType returns the media type of documents encoded in f.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatCBOR:
		return "application/cbor"
	default:
		return "application/json"
	}
}

// Encode serializes doc. Empty platform and device lists encode as empty
// arrays, never as null.
func Encode(doc Document, format Format) ([]byte, error) {
	doc = doc.Normalized()
	switch format {
	case FormatJSON, "":
		return json.Marshal(doc)
	case FormatJSONIndent:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatCBOR:
		return cbor.Marshal(doc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// Decode parses a document. JSON input may contain comments and trailing commas.
func Decode(data []byte, format Format) (Document, error) {
	var doc Document
	switch format {
	case FormatJSON, FormatJSONIndent, "":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("failed to decode json document: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("failed to decode yaml document: %w", err)
		}
	case FormatCBOR:
		if err := cbor.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("failed to decode cbor document: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	return doc.Normalized(), nil
}
