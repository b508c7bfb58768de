package clinfo

import "fmt"

// PlatformID is an opaque platform handle issued by a Layer.
type PlatformID uintptr

// DeviceID is an opaque device handle issued by a Layer.
type DeviceID uintptr

// PlatformParam is a cl_platform_info selector.
type PlatformParam uint32

// DeviceParam is a cl_device_info selector.
type DeviceParam uint32

const (
	PlatformProfile    PlatformParam = 0x0900
	PlatformVersion    PlatformParam = 0x0901
	PlatformName       PlatformParam = 0x0902
	PlatformVendor     PlatformParam = 0x0903
	PlatformExtensions PlatformParam = 0x0904
)

const (
	DeviceTypeParam             DeviceParam = 0x1000
	DeviceVendorID              DeviceParam = 0x1001
	DeviceMaxComputeUnits       DeviceParam = 0x1002
	DeviceMaxWorkItemDimensions DeviceParam = 0x1003
	DeviceMaxWorkGroupSize      DeviceParam = 0x1004
	DeviceMaxMemAllocSize       DeviceParam = 0x1010
	DeviceImageSupport          DeviceParam = 0x1016
	DeviceName                  DeviceParam = 0x102B
	DeviceVendor                DeviceParam = 0x102C
	DeviceProfile               DeviceParam = 0x102E
	DeviceVersion               DeviceParam = 0x102F
	DeviceExtensions            DeviceParam = 0x1030
	DeviceOpenCLCVersion        DeviceParam = 0x103D
)

// Layer is the OpenCL platform layer as seen by the enumerator.
//
// Info reads behave like clGetPlatformInfo/clGetDeviceInfo with a bounded
// output buffer: the value is written into buf and its byte length returned.
// Fixed-size values that do not fit fail with StatusInvalidValue. String
// values that do not fit are cut to len(buf)-1 bytes followed by a NUL.
type Layer interface {
	// PlatformIDs returns at most max platform handles.
	PlatformIDs(max int) ([]PlatformID, error)
	PlatformInfo(id PlatformID, param PlatformParam, buf []byte) (int, error)
	// DeviceIDs returns at most max device handles of any type.
	DeviceIDs(platform PlatformID, max int) ([]DeviceID, error)
	DeviceInfo(id DeviceID, param DeviceParam, buf []byte) (int, error)
}

// Status is an OpenCL cl_int status code.
type Status int32

const (
	StatusSuccess           Status = 0
	StatusDeviceNotFound    Status = -1
	StatusDeviceNotAvail    Status = -2
	StatusOutOfResources    Status = -5
	StatusOutOfHostMemory   Status = -6
	StatusInvalidValue      Status = -30
	StatusInvalidDeviceType Status = -31
	StatusInvalidPlatform   Status = -32
	StatusInvalidDevice     Status = -33
	StatusPlatformNotFound  Status = -1001 // CL_PLATFORM_NOT_FOUND_KHR
)

var statusNames = map[Status]string{
	StatusSuccess:           "CL_SUCCESS",
	StatusDeviceNotFound:    "CL_DEVICE_NOT_FOUND",
	StatusDeviceNotAvail:    "CL_DEVICE_NOT_AVAILABLE",
	-3:                      "CL_COMPILER_NOT_AVAILABLE",
	-4:                      "CL_MEM_OBJECT_ALLOCATION_FAILURE",
	StatusOutOfResources:    "CL_OUT_OF_RESOURCES",
	StatusOutOfHostMemory:   "CL_OUT_OF_HOST_MEMORY",
	StatusInvalidValue:      "CL_INVALID_VALUE",
	StatusInvalidDeviceType: "CL_INVALID_DEVICE_TYPE",
	StatusInvalidPlatform:   "CL_INVALID_PLATFORM",
	StatusInvalidDevice:     "CL_INVALID_DEVICE",
	-34:                     "CL_INVALID_CONTEXT",
	-59:                     "CL_INVALID_OPERATION",
	StatusPlatformNotFound:  "CL_PLATFORM_NOT_FOUND_KHR",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "CL_UNKNOWN_ERROR"
}

// Error lets a non-success status travel as an error value.
func (s Status) Error() string {
	return fmt.Sprintf("%s (%d)", s.String(), int32(s))
}
