package registry

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/openclinfo/internal/clinfo"
)

// InfoPath is where the OpenCL capability document is published.
const InfoPath = "/devices/opencl/info"

// Options controls how the OpenCL info call behaves.
type Options struct {
	// Strict makes partial or unavailable enumerations return an error
	// instead of the truncated document.
	Strict bool
	// Format of the returned text. Defaults to compact JSON.
	Format clinfo.Format
	Logger *slog.Logger
}

// Init registers the enumerator's info call with reg.
func Init(reg *Registry, enumerator *clinfo.Enumerator, opts Options) error {
	format := opts.Format
	if format == "" {
		format = clinfo.FormatJSON
	}
	return reg.AddWithContentType(InfoPath, format.ContentType(), InfoCall(enumerator, opts))
}

// InfoCall wraps enumerator as a registry call. Every invocation runs a fresh
// enumeration.
func InfoCall(enumerator *clinfo.Enumerator, opts Options) Call {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	format := opts.Format
	if format == "" {
		format = clinfo.FormatJSON
	}

	return func() (string, error) {
		res := enumerator.Enumerate()
		if res.Outcome != clinfo.OutcomeComplete {
			if opts.Strict {
				return "", fmt.Errorf("opencl enumeration %s: %w", res.Outcome, res.Err)
			}
			logger.Debug("Publishing truncated OpenCL document", "outcome", res.Outcome, "platforms", len(res.Document.Platforms))
		}
		data, err := clinfo.Encode(res.Document, format)
		if err != nil {
			return "", fmt.Errorf("failed to encode opencl document: %w", err)
		}
		return string(data), nil
	}
}
