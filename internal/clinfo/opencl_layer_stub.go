//go:build !gpu

package clinfo

// stubLayer stands in for the OpenCL runtime when it is not compiled in.
type stubLayer struct{}

// NativeLayer returns a layer that reports ErrNotBuilt for every query.
func NativeLayer() Layer {
	return stubLayer{}
}

func (stubLayer) PlatformIDs(int) ([]PlatformID, error) {
	return nil, ErrNotBuilt
}

func (stubLayer) PlatformInfo(PlatformID, PlatformParam, []byte) (int, error) {
	return 0, ErrNotBuilt
}

func (stubLayer) DeviceIDs(PlatformID, int) ([]DeviceID, error) {
	return nil, ErrNotBuilt
}

func (stubLayer) DeviceInfo(DeviceID, DeviceParam, []byte) (int, error) {
	return 0, ErrNotBuilt
}
