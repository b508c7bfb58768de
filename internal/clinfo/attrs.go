package clinfo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
)

// valueKind is the C type an attribute is read as.
type valueKind int

const (
	kindString valueKind = iota
	kindUint32           // cl_uint
	kindUint64           // cl_ulong, cl_device_type
	kindSize             // size_t
	kindBool             // cl_bool
)

// width returns the read buffer size for the kind.
func (k valueKind) width(stringBuf int) int {
	switch k {
	case kindUint32, kindBool:
		return 4
	case kindUint64:
		return 8
	case kindSize:
		return strconv.IntSize / 8
	default:
		return stringBuf
	}
}

type value struct {
	u uint64
	s string
	b bool
}

// attr maps one info selector to a document field.
type attr[T any] struct {
	param uint32
	kind  valueKind
	key   string
	set   func(*T, value)
}

var platformAttrs = []attr[PlatformInfo]{
	{uint32(PlatformProfile), kindString, "CL_PLATFORM_PROFILE", func(p *PlatformInfo, v value) { p.Profile = v.s }},
	{uint32(PlatformVersion), kindString, "CL_PLATFORM_VERSION", func(p *PlatformInfo, v value) { p.Version = v.s }},
	{uint32(PlatformName), kindString, "CL_PLATFORM_NAME", func(p *PlatformInfo, v value) { p.Name = v.s }},
	{uint32(PlatformVendor), kindString, "CL_PLATFORM_VENDOR", func(p *PlatformInfo, v value) { p.Vendor = v.s }},
	{uint32(PlatformExtensions), kindString, "CL_PLATFORM_EXTENSIONS", func(p *PlatformInfo, v value) { p.Extensions = v.s }},
}

var deviceAttrs = []attr[DeviceInfo]{
	{uint32(DeviceTypeParam), kindUint64, "CL_DEVICE_TYPE", func(d *DeviceInfo, v value) { d.Type = DeviceType(v.u) }},
	{uint32(DeviceVendorID), kindUint32, "CL_DEVICE_VENDOR_ID", func(d *DeviceInfo, v value) { d.VendorID = uint32(v.u) }},
	{uint32(DeviceMaxComputeUnits), kindUint32, "CL_DEVICE_MAX_COMPUTE_UNITS", func(d *DeviceInfo, v value) { d.MaxComputeUnits = uint32(v.u) }},
	{uint32(DeviceMaxWorkItemDimensions), kindUint32, "CL_DEVICE_MAX_WORK_ITEM_DIMENSIONS", func(d *DeviceInfo, v value) { d.MaxWorkItemDimensions = uint32(v.u) }},
	{uint32(DeviceMaxWorkGroupSize), kindSize, "CL_DEVICE_MAX_WORK_GROUP_SIZE", func(d *DeviceInfo, v value) { d.MaxWorkGroupSize = uint(v.u) }},
	{uint32(DeviceMaxMemAllocSize), kindUint64, "CL_DEVICE_MAX_MEM_ALLOC_SIZE", func(d *DeviceInfo, v value) { d.MaxMemAllocSize = v.u }},
	{uint32(DeviceImageSupport), kindBool, "CL_DEVICE_IMAGE_SUPPORT", func(d *DeviceInfo, v value) { d.ImageSupport = v.b }},
	{uint32(DeviceName), kindString, "CL_DEVICE_NAME", func(d *DeviceInfo, v value) { d.Name = v.s }},
	{uint32(DeviceVendor), kindString, "CL_DEVICE_VENDOR", func(d *DeviceInfo, v value) { d.Vendor = v.s }},
	{uint32(DeviceVersion), kindString, "CL_DEVICE_VERSION", func(d *DeviceInfo, v value) { d.Version = v.s }},
	{uint32(DeviceProfile), kindString, "CL_DEVICE_PROFILE", func(d *DeviceInfo, v value) { d.Profile = v.s }},
	{uint32(DeviceOpenCLCVersion), kindString, "CL_DEVICE_OPENCL_C_VERSION", func(d *DeviceInfo, v value) { d.OpenCLCVersion = v.s }},
	{uint32(DeviceExtensions), kindString, "CL_DEVICE_EXTENSIONS", func(d *DeviceInfo, v value) { d.Extensions = v.s }},
}

// readAttrs reads every attribute of the table into target, in table order.
// On failure it returns the key of the attribute that could not be read.
func readAttrs[T any](attrs []attr[T], target *T, stringBuf int, read func(param uint32, buf []byte) (int, error)) (string, error) {
	for _, a := range attrs {
		buf := make([]byte, a.kind.width(stringBuf))
		n, err := read(a.param, buf)
		if err != nil {
			return a.key, err
		}
		v, err := decodeValue(a.kind, buf, n)
		if err != nil {
			return a.key, err
		}
		a.set(target, v)
	}
	return "", nil
}

func decodeValue(kind valueKind, buf []byte, n int) (value, error) {
	if n < 0 || n > len(buf) {
		n = len(buf)
	}
	raw := buf[:n]
	if kind == kindString {
		if i := bytes.IndexByte(raw, 0); i >= 0 {
			raw = raw[:i]
		}
		return value{s: string(raw)}, nil
	}

	want := kind.width(0)
	if n < want {
		return value{}, fmt.Errorf("short value: got %d bytes, want %d", n, want)
	}
	switch want {
	case 4:
		u := uint64(binary.NativeEndian.Uint32(raw))
		return value{u: u, b: u != 0}, nil
	default:
		u := binary.NativeEndian.Uint64(raw)
		return value{u: u, b: u != 0}, nil
	}
}
