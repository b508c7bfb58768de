package clinfo

import (
	"errors"
	"log/slog"
)

const (
	// MaxPlatforms bounds how many platforms one enumeration visits.
	MaxPlatforms = 64
	// MaxDevices bounds how many devices are visited per platform.
	MaxDevices = 64
	// InfoBufferSize is the fixed read buffer for string attributes.
	InfoBufferSize = 1024
)

// Outcome classifies an enumeration result.
type Outcome string

const (
	// OutcomeComplete means every platform and device was read.
	OutcomeComplete Outcome = "complete"
	// OutcomePartial means a query failed; the document holds the
	// platforms read before the failure.
	OutcomePartial Outcome = "partial"
	// OutcomeUnavailable means the platform layer could not be used at all.
	OutcomeUnavailable Outcome = "unavailable"
)

// Result is the explicit outcome of one enumeration.
type Result struct {
	Document Document
	Outcome  Outcome
	// Err is the *QueryError that stopped the enumeration, nil when complete.
	Err error
}

// Enumerator walks a platform layer and builds capability documents.
// It holds no per-call state and may be used from several goroutines
// if the layer allows concurrent queries.
type Enumerator struct {
	layer        Layer
	logger       *slog.Logger
	maxPlatforms int
	maxDevices   int
}

// Option configures an Enumerator.
type Option func(*Enumerator)

// WithLogger sets the logger used for debug traces of the walk.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enumerator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLimits overrides the platform and device caps. Non-positive values keep the defaults.
func WithLimits(maxPlatforms, maxDevices int) Option {
	return func(e *Enumerator) {
		if maxPlatforms > 0 {
			e.maxPlatforms = maxPlatforms
		}
		if maxDevices > 0 {
			e.maxDevices = maxDevices
		}
	}
}

// New creates an enumerator over layer.
func New(layer Layer, opts ...Option) *Enumerator {
	e := &Enumerator{
		layer:        layer,
		logger:       slog.Default(),
		maxPlatforms: MaxPlatforms,
		maxDevices:   MaxDevices,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot enumerates in legacy mode: failures are not reported and the
// document is returned as accumulated up to the failing query.
func (e *Enumerator) Snapshot() Document {
	return e.Enumerate().Document
}

// Enumerate queries all platforms and their devices.
//
// Platforms and devices appear in the order the layer returns them. A failed
// query stops the walk; the platform being read at that point is dropped, so
// the document only ever holds fully populated entries.
func (e *Enumerator) Enumerate() Result {
	doc := Document{Platforms: []PlatformInfo{}}

	ids, err := e.layer.PlatformIDs(e.maxPlatforms)
	if err != nil {
		if s, ok := StatusOf(err); ok && s == StatusPlatformNotFound {
			e.logger.Debug("No OpenCL platforms installed")
			return Result{Document: doc, Outcome: OutcomeComplete}
		}
		return e.fail(doc, &QueryError{Stage: StagePlatformIDs, Platform: -1, Device: -1, Err: err})
	}
	if len(ids) > e.maxPlatforms {
		ids = ids[:e.maxPlatforms]
	}

	for pi, pid := range ids {
		platform, qerr := e.readPlatform(pi, pid)
		if qerr != nil {
			return e.fail(doc, qerr)
		}
		doc.Platforms = append(doc.Platforms, platform)
	}

	e.logger.Debug("OpenCL enumeration complete",
		"platforms", len(doc.Platforms),
		"devices", doc.DeviceCount())
	return Result{Document: doc, Outcome: OutcomeComplete}
}

func (e *Enumerator) readPlatform(index int, id PlatformID) (PlatformInfo, *QueryError) {
	platform := PlatformInfo{Devices: []DeviceInfo{}}

	key, err := readAttrs(platformAttrs, &platform, InfoBufferSize, func(param uint32, buf []byte) (int, error) {
		return e.layer.PlatformInfo(id, PlatformParam(param), buf)
	})
	if err != nil {
		return PlatformInfo{}, &QueryError{Stage: StagePlatformInfo, Platform: index, Device: -1, Attribute: key, Err: err}
	}

	deviceIDs, err := e.layer.DeviceIDs(id, e.maxDevices)
	if err != nil {
		if s, ok := StatusOf(err); ok && s == StatusDeviceNotFound {
			e.logger.Debug("OpenCL platform has no devices", "platform", index, "name", platform.Name)
			return platform, nil
		}
		return PlatformInfo{}, &QueryError{Stage: StageDeviceIDs, Platform: index, Device: -1, Err: err}
	}
	if len(deviceIDs) > e.maxDevices {
		deviceIDs = deviceIDs[:e.maxDevices]
	}

	for di, did := range deviceIDs {
		var device DeviceInfo
		key, err := readAttrs(deviceAttrs, &device, InfoBufferSize, func(param uint32, buf []byte) (int, error) {
			return e.layer.DeviceInfo(did, DeviceParam(param), buf)
		})
		if err != nil {
			return PlatformInfo{}, &QueryError{Stage: StageDeviceInfo, Platform: index, Device: di, Attribute: key, Err: err}
		}
		platform.Devices = append(platform.Devices, device)
	}

	e.logger.Debug("Read OpenCL platform",
		"platform", index,
		"name", platform.Name,
		"devices", len(platform.Devices))
	return platform, nil
}

func (e *Enumerator) fail(doc Document, qerr *QueryError) Result {
	outcome := OutcomePartial
	if qerr.Stage == StagePlatformIDs && (errors.Is(qerr.Err, ErrNotBuilt) || errors.Is(qerr.Err, ErrUnavailable)) {
		outcome = OutcomeUnavailable
	}
	e.logger.Warn("OpenCL enumeration stopped",
		"outcome", outcome,
		"stage", qerr.Stage,
		"platforms", len(doc.Platforms),
		"error", qerr)
	return Result{Document: doc, Outcome: outcome, Err: qerr}
}
