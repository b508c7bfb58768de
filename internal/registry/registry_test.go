package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AddAndCall(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Add("/test/hello", func() (string, error) { return "hi", nil }))

	out, err := reg.Call("/test/hello")
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
}

func TestRegistry_CallPropagatesError(t *testing.T) {
	reg := New()
	boom := errors.New("boom")
	require.NoError(t, reg.Add("/test/fail", func() (string, error) { return "", boom }))

	_, err := reg.Call("/test/fail")
	assert.ErrorIs(t, err, boom)
}

func TestRegistry_NotFound(t *testing.T) {
	_, err := New().Call("/nothing/here")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_Duplicate(t *testing.T) {
	reg := New()
	call := func() (string, error) { return "", nil }
	require.NoError(t, reg.Add("/a", call))
	assert.ErrorIs(t, reg.Add("/a", call), ErrExists)
}

func TestRegistry_NilCall(t *testing.T) {
	assert.Error(t, New().Add("/a", nil))
}

func TestValidatePath(t *testing.T) {
	valid := []string{"/a", "/devices/opencl/info", "/blocks/opencl_kernel"}
	for _, p := range valid {
		assert.NoError(t, ValidatePath(p), p)
	}
	invalid := []string{"", "/", "a/b", "/a/", "/a//b", "/a/../b", "/./a"}
	for _, p := range invalid {
		assert.ErrorIs(t, ValidatePath(p), ErrInvalidPath, p)
	}
}

func TestRegistry_PathsSortedAndRemove(t *testing.T) {
	reg := New()
	call := func() (string, error) { return "", nil }
	for _, p := range []string{"/z", "/a/b", "/m"} {
		require.NoError(t, reg.Add(p, call))
	}
	assert.Equal(t, []string{"/a/b", "/m", "/z"}, reg.Paths())

	assert.True(t, reg.Remove("/m"))
	assert.False(t, reg.Remove("/m"))
	assert.Equal(t, []string{"/a/b", "/z"}, reg.Paths())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := fmt.Sprintf("/p/%d", i)
			assert.NoError(t, reg.Add(path, func() (string, error) { return path, nil }))
			out, err := reg.Call(path)
			assert.NoError(t, err)
			assert.Equal(t, path, out)
			reg.Paths()
		}(i)
	}
	wg.Wait()
	assert.Len(t, reg.Paths(), 20)
}

// A call may use the registry it is registered in.
func TestRegistry_CallCanReenter(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Add("/inner", func() (string, error) { return "inner", nil }))
	require.NoError(t, reg.Add("/outer", func() (string, error) { return reg.Call("/inner") }))

	out, err := reg.Call("/outer")
	require.NoError(t, err)
	assert.Equal(t, "inner", out)
}

func TestRegistry_ContentType(t *testing.T) {
	reg := New()
	call := func() (string, error) { return "a: 1", nil }
	require.NoError(t, reg.Add("/plain", call))
	require.NoError(t, reg.AddWithContentType("/typed", "application/yaml", call))
	require.NoError(t, reg.AddWithContentType("/untyped", "", call))

	assert.Equal(t, DefaultContentType, reg.ContentType("/plain"))
	assert.Equal(t, "application/yaml", reg.ContentType("/typed"))
	assert.Equal(t, DefaultContentType, reg.ContentType("/untyped"))
	assert.Equal(t, DefaultContentType, reg.ContentType("/missing"))
}
