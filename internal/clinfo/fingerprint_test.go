package clinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	doc := Document{Platforms: []PlatformInfo{testPlatform("A", testGPU("gpu0", 32))}}

	a, err := Fingerprint(doc)
	require.NoError(t, err)
	assert.Len(t, a, 64)

	b, err := Fingerprint(doc.Normalized())
	require.NoError(t, err)
	assert.Equal(t, a, b, "normalization must not change the fingerprint")

	changed := doc.Normalized()
	changed.Platforms[0].Devices[0].MaxComputeUnits++
	c, err := Fingerprint(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestFingerprint_EmptyDocument(t *testing.T) {
	a, err := Fingerprint(Document{})
	require.NoError(t, err)
	b, err := Fingerprint(Document{Platforms: []PlatformInfo{}})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
