package clinfo

import (
	"io"
	"log/slog"
	"strings"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testGPU(name string, computeUnits uint32) DeviceInfo {
	return DeviceInfo{
		Type:                  DeviceTypeGPU,
		VendorID:              0x1002,
		MaxComputeUnits:       computeUnits,
		MaxWorkItemDimensions: 3,
		MaxWorkGroupSize:      256,
		MaxMemAllocSize:       4 << 30,
		ImageSupport:          true,
		Name:                  name,
		Vendor:                "Advanced Micro Devices, Inc.",
		Version:               "OpenCL 2.0 AMD-APP",
		Profile:               "FULL_PROFILE",
		OpenCLCVersion:        "OpenCL C 2.0",
		Extensions:            "cl_khr_fp64 cl_khr_global_int32_base_atomics",
	}
}

func testCPU(name string) DeviceInfo {
	return DeviceInfo{
		Type:                  DeviceTypeCPU | DeviceTypeDefault,
		VendorID:              0x8086,
		MaxComputeUnits:       16,
		MaxWorkItemDimensions: 3,
		MaxWorkGroupSize:      8192,
		MaxMemAllocSize:       8 << 30,
		Name:                  name,
		Vendor:                "Intel(R) Corporation",
		Version:               "OpenCL 3.0 (Build 0)",
		Profile:               "FULL_PROFILE",
		OpenCLCVersion:        "OpenCL C 3.0",
		Extensions:            "cl_khr_icd cl_khr_fp64",
	}
}

func testPlatform(name string, devices ...DeviceInfo) PlatformInfo {
	if devices == nil {
		devices = []DeviceInfo{}
	}
	return PlatformInfo{
		Profile:    "FULL_PROFILE",
		Version:    "OpenCL 2.1 " + name,
		Name:       name,
		Vendor:     name + " Vendor",
		Extensions: "cl_khr_icd cl_khr_d3d10_sharing",
		Devices:    devices,
	}
}

func longString(n int) string {
	return strings.Repeat("x", n)
}
