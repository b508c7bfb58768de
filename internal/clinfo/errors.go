package clinfo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotBuilt indicates the binary was built without OpenCL support.
	ErrNotBuilt = errors.New("opencl support requires building with '-tags gpu'")

	// ErrUnavailable indicates the platform layer cannot be used at all,
	// e.g. the ICD loader is missing.
	ErrUnavailable = errors.New("opencl platform layer unavailable")
)

// Stage names the enumeration step at which a query failed.
type Stage string

const (
	StagePlatformIDs  Stage = "platform-ids"
	StagePlatformInfo Stage = "platform-info"
	StageDeviceIDs    Stage = "device-ids"
	StageDeviceInfo   Stage = "device-info"
)

// QueryError records the query that stopped an enumeration.
type QueryError struct {
	Stage     Stage
	Platform  int    // index of the platform being read, -1 before any
	Device    int    // index of the device being read, -1 if none
	Attribute string // document key of the attribute, empty for ID queries
	Err       error
}

func (e *QueryError) Error() string {
	msg := "opencl query failed at " + string(e.Stage)
	if e.Platform >= 0 {
		msg += fmt.Sprintf(" platform %d", e.Platform)
	}
	if e.Device >= 0 {
		msg += fmt.Sprintf(" device %d", e.Device)
	}
	if e.Attribute != "" {
		msg += " " + e.Attribute
	}
	return msg + ": " + e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// StatusOf extracts the OpenCL status from err, if it carries one.
func StatusOf(err error) (Status, bool) {
	var s Status
	if errors.As(err, &s) {
		return s, true
	}
	return 0, false
}
