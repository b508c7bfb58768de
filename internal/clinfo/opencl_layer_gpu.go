//go:build gpu

package clinfo

/*
#cgo LDFLAGS: -lOpenCL
#define CL_TARGET_OPENCL_VERSION 120
#ifdef __APPLE__
#include <OpenCL/cl.h>
#else
#include <CL/cl.h>
#endif
*/
import "C"

import (
	"unsafe"
)

// nativeLayer queries the installed ICD loader through libOpenCL.
type nativeLayer struct{}

// NativeLayer returns the platform layer backed by the system OpenCL runtime.
func NativeLayer() Layer {
	return nativeLayer{}
}

func (nativeLayer) PlatformIDs(max int) ([]PlatformID, error) {
	if max <= 0 {
		return nil, nil
	}
	ids := make([]C.cl_platform_id, max)
	var count C.cl_uint
	if status := C.clGetPlatformIDs(C.cl_uint(max), &ids[0], &count); status != C.CL_SUCCESS {
		return nil, Status(status)
	}
	n := min(int(count), max)
	out := make([]PlatformID, n)
	for i := 0; i < n; i++ {
		out[i] = PlatformID(uintptr(unsafe.Pointer(ids[i])))
	}
	return out, nil
}

func (nativeLayer) PlatformInfo(id PlatformID, param PlatformParam, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, StatusInvalidValue
	}
	pid := C.cl_platform_id(unsafe.Pointer(uintptr(id)))
	var size C.size_t
	status := C.clGetPlatformInfo(pid, C.cl_platform_info(param), C.size_t(len(buf)), unsafe.Pointer(&buf[0]), &size)
	if status == C.CL_INVALID_VALUE {
		// The value does not fit: read it whole and cut it down.
		return boundedRead(buf, func(n C.size_t, dst unsafe.Pointer, ret *C.size_t) C.cl_int {
			return C.clGetPlatformInfo(pid, C.cl_platform_info(param), n, dst, ret)
		})
	}
	if status != C.CL_SUCCESS {
		return 0, Status(status)
	}
	return min(int(size), len(buf)), nil
}

func (nativeLayer) DeviceIDs(platform PlatformID, max int) ([]DeviceID, error) {
	if max <= 0 {
		return nil, nil
	}
	pid := C.cl_platform_id(unsafe.Pointer(uintptr(platform)))
	ids := make([]C.cl_device_id, max)
	var count C.cl_uint
	if status := C.clGetDeviceIDs(pid, C.CL_DEVICE_TYPE_ALL, C.cl_uint(max), &ids[0], &count); status != C.CL_SUCCESS {
		return nil, Status(status)
	}
	n := min(int(count), max)
	out := make([]DeviceID, n)
	for i := 0; i < n; i++ {
		out[i] = DeviceID(uintptr(unsafe.Pointer(ids[i])))
	}
	return out, nil
}

func (nativeLayer) DeviceInfo(id DeviceID, param DeviceParam, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, StatusInvalidValue
	}
	did := C.cl_device_id(unsafe.Pointer(uintptr(id)))
	var size C.size_t
	status := C.clGetDeviceInfo(did, C.cl_device_info(param), C.size_t(len(buf)), unsafe.Pointer(&buf[0]), &size)
	if status == C.CL_INVALID_VALUE && isStringParam(param) {
		return boundedRead(buf, func(n C.size_t, dst unsafe.Pointer, ret *C.size_t) C.cl_int {
			return C.clGetDeviceInfo(did, C.cl_device_info(param), n, dst, ret)
		})
	}
	if status != C.CL_SUCCESS {
		return 0, Status(status)
	}
	return min(int(size), len(buf)), nil
}

func isStringParam(param DeviceParam) bool {
	for _, a := range deviceAttrs {
		if DeviceParam(a.param) == param {
			return a.kind == kindString
		}
	}
	return false
}

// boundedRead fetches a string value longer than buf and keeps the first
// len(buf)-1 bytes plus a NUL terminator.
func boundedRead(buf []byte, get func(C.size_t, unsafe.Pointer, *C.size_t) C.cl_int) (int, error) {
	var size C.size_t
	if status := get(0, nil, &size); status != C.CL_SUCCESS {
		return 0, Status(status)
	}
	if size == 0 {
		buf[0] = 0
		return 1, nil
	}
	full := make([]byte, int(size))
	if status := get(size, unsafe.Pointer(&full[0]), nil); status != C.CL_SUCCESS {
		return 0, Status(status)
	}
	return putString(buf, trimNull(full)), nil
}

func trimNull(buf []byte) string {
	if len(buf) > 0 && buf[len(buf)-1] == 0 {
		buf = buf[:len(buf)-1]
	}
	return string(buf)
}
