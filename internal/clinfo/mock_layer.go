package clinfo

import (
	"encoding/binary"
	"strconv"
	"sync"
)

// Fault makes a MockLayer fail one class of query.
// Platform and Device select the target by index; -1 matches any index.
// Param, when non-zero, restricts info faults to one selector.
type Fault struct {
	Stage    Stage
	Platform int
	Device   int
	Param    uint32
	Status   Status
}

// MockLayer is an in-memory platform layer serving a fixed set of platforms.
// It is safe for concurrent use.
type MockLayer struct {
	mu        sync.Mutex
	platforms []PlatformInfo
	// firstDevice[p] is the flat index of platform p's first device.
	firstDevice []int
	devices     []deviceRef
	faults      []Fault
	calls       int
}

type deviceRef struct {
	platform int
	device   int
}

// NewMockLayer returns a layer exposing platforms in the given order.
func NewMockLayer(platforms ...PlatformInfo) *MockLayer {
	m := &MockLayer{platforms: Document{Platforms: platforms}.Normalized().Platforms}
	m.firstDevice = make([]int, len(m.platforms))
	for pi, p := range m.platforms {
		m.firstDevice[pi] = len(m.devices)
		for di := range p.Devices {
			m.devices = append(m.devices, deviceRef{platform: pi, device: di})
		}
	}
	return m
}

// NewMockLayerFromDocument returns a layer replaying doc.
func NewMockLayerFromDocument(doc Document) *MockLayer {
	return NewMockLayer(doc.Platforms...)
}

// InjectFault registers a failure. Faults stay active until ClearFaults.
func (m *MockLayer) InjectFault(f Fault) {
	m.mu.Lock()
	m.faults = append(m.faults, f)
	m.mu.Unlock()
}

// ClearFaults removes all injected failures.
func (m *MockLayer) ClearFaults() {
	m.mu.Lock()
	m.faults = nil
	m.mu.Unlock()
}

// Calls returns how many queries the layer has served.
func (m *MockLayer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockLayer) fault(stage Stage, platform, device int, param uint32) error {
	m.calls++
	for _, f := range m.faults {
		if f.Stage != stage {
			continue
		}
		if f.Platform >= 0 && f.Platform != platform {
			continue
		}
		if f.Device >= 0 && f.Device != device {
			continue
		}
		if f.Param != 0 && f.Param != param {
			continue
		}
		if f.Status == StatusSuccess {
			return StatusInvalidValue
		}
		return f.Status
	}
	return nil
}

// Handles are 1-based so the zero value never names a real entry.
func platformHandle(i int) PlatformID { return PlatformID(i + 1) }

// deviceHandle numbers devices across all platforms, so no platform or
// device count can make two handles collide.
func (m *MockLayer) deviceHandle(p, d int) DeviceID {
	if p < 0 || p >= len(m.platforms) || d < 0 {
		return 0
	}
	return DeviceID(m.firstDevice[p] + d + 1)
}

func (m *MockLayer) splitDeviceHandle(id DeviceID) (int, int, bool) {
	i := int(id) - 1
	if id == 0 || i >= len(m.devices) {
		return -1, -1, false
	}
	ref := m.devices[i]
	return ref.platform, ref.device, true
}

func (m *MockLayer) PlatformIDs(max int) ([]PlatformID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(StagePlatformIDs, -1, -1, 0); err != nil {
		return nil, err
	}
	if len(m.platforms) == 0 {
		return nil, StatusPlatformNotFound
	}
	n := min(len(m.platforms), max)
	ids := make([]PlatformID, n)
	for i := range ids {
		ids[i] = platformHandle(i)
	}
	return ids, nil
}

func (m *MockLayer) PlatformInfo(id PlatformID, param PlatformParam, buf []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pi := int(id) - 1
	if pi < 0 || pi >= len(m.platforms) {
		return 0, StatusInvalidPlatform
	}
	if err := m.fault(StagePlatformInfo, pi, -1, uint32(param)); err != nil {
		return 0, err
	}
	p := m.platforms[pi]
	switch param {
	case PlatformProfile:
		return putString(buf, p.Profile), nil
	case PlatformVersion:
		return putString(buf, p.Version), nil
	case PlatformName:
		return putString(buf, p.Name), nil
	case PlatformVendor:
		return putString(buf, p.Vendor), nil
	case PlatformExtensions:
		return putString(buf, p.Extensions), nil
	default:
		return 0, StatusInvalidValue
	}
}

func (m *MockLayer) DeviceIDs(platform PlatformID, max int) ([]DeviceID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pi := int(platform) - 1
	if pi < 0 || pi >= len(m.platforms) {
		return nil, StatusInvalidPlatform
	}
	if err := m.fault(StageDeviceIDs, pi, -1, 0); err != nil {
		return nil, err
	}
	devices := m.platforms[pi].Devices
	if len(devices) == 0 {
		return nil, StatusDeviceNotFound
	}
	n := min(len(devices), max)
	ids := make([]DeviceID, n)
	for i := range ids {
		ids[i] = m.deviceHandle(pi, i)
	}
	return ids, nil
}

func (m *MockLayer) DeviceInfo(id DeviceID, param DeviceParam, buf []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pi, di, ok := m.splitDeviceHandle(id)
	if !ok {
		return 0, StatusInvalidDevice
	}
	if err := m.fault(StageDeviceInfo, pi, di, uint32(param)); err != nil {
		return 0, err
	}
	d := m.platforms[pi].Devices[di]
	switch param {
	case DeviceTypeParam:
		return putUint64(buf, uint64(d.Type))
	case DeviceVendorID:
		return putUint32(buf, d.VendorID)
	case DeviceMaxComputeUnits:
		return putUint32(buf, d.MaxComputeUnits)
	case DeviceMaxWorkItemDimensions:
		return putUint32(buf, d.MaxWorkItemDimensions)
	case DeviceMaxWorkGroupSize:
		if strconv.IntSize == 32 {
			return putUint32(buf, uint32(d.MaxWorkGroupSize))
		}
		return putUint64(buf, uint64(d.MaxWorkGroupSize))
	case DeviceMaxMemAllocSize:
		return putUint64(buf, d.MaxMemAllocSize)
	case DeviceImageSupport:
		var b uint32
		if d.ImageSupport {
			b = 1
		}
		return putUint32(buf, b)
	case DeviceName:
		return putString(buf, d.Name), nil
	case DeviceVendor:
		return putString(buf, d.Vendor), nil
	case DeviceVersion:
		return putString(buf, d.Version), nil
	case DeviceProfile:
		return putString(buf, d.Profile), nil
	case DeviceOpenCLCVersion:
		return putString(buf, d.OpenCLCVersion), nil
	case DeviceExtensions:
		return putString(buf, d.Extensions), nil
	default:
		return 0, StatusInvalidValue
	}
}

// putString writes s NUL-terminated, cut to fit buf.
func putString(buf []byte, s string) int {
	if len(buf) == 0 {
		return 0
	}
	n := copy(buf[:len(buf)-1], s)
	buf[n] = 0
	return n + 1
}

func putUint32(buf []byte, v uint32) (int, error) {
	if len(buf) < 4 {
		return 0, StatusInvalidValue
	}
	binary.NativeEndian.PutUint32(buf, v)
	return 4, nil
}

func putUint64(buf []byte, v uint64) (int, error) {
	if len(buf) < 8 {
		return 0, StatusInvalidValue
	}
	binary.NativeEndian.PutUint64(buf, v)
	return 8, nil
}
