package clinfo

import "strings"

// DeviceType is the OpenCL device type bitmask (cl_device_type).
type DeviceType uint64

const (
	DeviceTypeDefault     DeviceType = 1 << 0
	DeviceTypeCPU         DeviceType = 1 << 1
	DeviceTypeGPU         DeviceType = 1 << 2
	DeviceTypeAccelerator DeviceType = 1 << 3
	DeviceTypeCustom      DeviceType = 1 << 4
	DeviceTypeAll         DeviceType = 0xFFFFFFFF
)

var deviceTypeNames = []struct {
	bit  DeviceType
	name string
}{
	{DeviceTypeDefault, "Default"},
	{DeviceTypeCPU, "CPU"},
	{DeviceTypeGPU, "GPU"},
	{DeviceTypeAccelerator, "Accelerator"},
	{DeviceTypeCustom, "Custom"},
}

// Has reports whether every bit of mask is set in t.
func (t DeviceType) Has(mask DeviceType) bool {
	return mask != 0 && t&mask == mask
}

// String renders the set bits joined by "|", e.g. "CPU|GPU".
func (t DeviceType) String() string {
	var parts []string
	for _, n := range deviceTypeNames {
		if t&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "Unknown"
	}
	return strings.Join(parts, "|")
}

// DeviceInfo captures the queried capabilities of one OpenCL device.
// Struct tags carry the document key names and must not change.
type DeviceInfo struct {
	Type                  DeviceType `json:"CL_DEVICE_TYPE" yaml:"CL_DEVICE_TYPE"`
	VendorID              uint32     `json:"CL_DEVICE_VENDOR_ID" yaml:"CL_DEVICE_VENDOR_ID"`
	MaxComputeUnits       uint32     `json:"CL_DEVICE_MAX_COMPUTE_UNITS" yaml:"CL_DEVICE_MAX_COMPUTE_UNITS"`
	MaxWorkItemDimensions uint32     `json:"CL_DEVICE_MAX_WORK_ITEM_DIMENSIONS" yaml:"CL_DEVICE_MAX_WORK_ITEM_DIMENSIONS"`
	MaxWorkGroupSize      uint       `json:"CL_DEVICE_MAX_WORK_GROUP_SIZE" yaml:"CL_DEVICE_MAX_WORK_GROUP_SIZE"`
	MaxMemAllocSize       uint64     `json:"CL_DEVICE_MAX_MEM_ALLOC_SIZE" yaml:"CL_DEVICE_MAX_MEM_ALLOC_SIZE"`
	ImageSupport          bool       `json:"CL_DEVICE_IMAGE_SUPPORT" yaml:"CL_DEVICE_IMAGE_SUPPORT"`
	Name                  string     `json:"CL_DEVICE_NAME" yaml:"CL_DEVICE_NAME"`
	Vendor                string     `json:"CL_DEVICE_VENDOR" yaml:"CL_DEVICE_VENDOR"`
	Version               string     `json:"CL_DEVICE_VERSION" yaml:"CL_DEVICE_VERSION"`
	Profile               string     `json:"CL_DEVICE_PROFILE" yaml:"CL_DEVICE_PROFILE"`
	OpenCLCVersion        string     `json:"CL_DEVICE_OPENCL_C_VERSION" yaml:"CL_DEVICE_OPENCL_C_VERSION"`
	Extensions            string     `json:"CL_DEVICE_EXTENSIONS" yaml:"CL_DEVICE_EXTENSIONS"`
}

// PlatformInfo captures one OpenCL platform and its devices in discovery order.
type PlatformInfo struct {
	Profile    string       `json:"CL_PLATFORM_PROFILE" yaml:"CL_PLATFORM_PROFILE"`
	Version    string       `json:"CL_PLATFORM_VERSION" yaml:"CL_PLATFORM_VERSION"`
	Name       string       `json:"CL_PLATFORM_NAME" yaml:"CL_PLATFORM_NAME"`
	Vendor     string       `json:"CL_PLATFORM_VENDOR" yaml:"CL_PLATFORM_VENDOR"`
	Extensions string       `json:"CL_PLATFORM_EXTENSIONS" yaml:"CL_PLATFORM_EXTENSIONS"`
	Devices    []DeviceInfo `json:"OpenCL Device" yaml:"OpenCL Device"`
}

// ExtensionList splits the space-separated extension string.
func (p PlatformInfo) ExtensionList() []string {
	return strings.Fields(p.Extensions)
}

// ExtensionList splits the space-separated extension string.
func (d DeviceInfo) ExtensionList() []string {
	return strings.Fields(d.Extensions)
}

// Document is the capability snapshot produced by one enumeration.
// It holds plain values only, so it stays valid after the driver state changes.
type Document struct {
	Platforms []PlatformInfo `json:"OpenCL Platform" yaml:"OpenCL Platform"`
}

// DeviceCount returns the number of devices across all platforms.
func (d Document) DeviceCount() int {
	n := 0
	for _, p := range d.Platforms {
		n += len(p.Devices)
	}
	return n
}

// Normalized returns a deep copy in which every nil list is replaced by an
// empty one, so encoders emit [] instead of null.
func (d Document) Normalized() Document {
	out := Document{Platforms: make([]PlatformInfo, len(d.Platforms))}
	for i, p := range d.Platforms {
		devices := make([]DeviceInfo, len(p.Devices))
		copy(devices, p.Devices)
		p.Devices = devices
		out.Platforms[i] = p
	}
	return out
}
