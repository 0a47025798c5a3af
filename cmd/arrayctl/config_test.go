package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arrayrt"
)

const testConfig = `
types:
  pixel: (unsigned-byte 4)
  octet: (unsigned-byte 8)
arrays:
  - name: frame
    element_type: pixel
    dimensions: [2, 3]
    initial_element: 9
  - name: log
    element_type: character
    dimensions: [16]
    adjustable: true
    fill_pointer: 0
cache:
  hash_bits: 6
  keys: 100
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arrayctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, []string{"octet", "pixel"}, cfg.typeNames())
	assert.Equal(t, uint(6), cfg.Cache.HashBits)
	assert.Equal(t, 100, cfg.Cache.Keys)

	spec, err := cfg.Array("log")
	require.NoError(t, err)
	require.NotNil(t, spec.FillPointer)
	assert.Equal(t, 0, *spec.FillPointer)
	assert.Len(t, spec.Options(), 2)

	_, err = cfg.Array("missing")
	require.Error(t, err)
}

func TestArraySpec_BuildsThroughRuntime(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, testConfig))
	require.NoError(t, err)

	rt := arrayrt.New()
	for _, name := range cfg.typeNames() {
		require.NoError(t, rt.DefineType(name, cfg.Types[name]))
	}

	spec, err := cfg.Array("frame")
	require.NoError(t, err)
	a, err := rt.MakeArray(spec.Dimensions, spec.ElementType, spec.Options()...)
	require.NoError(t, err)
	v, err := a.Aref(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), v)

	spec, err = cfg.Array("log")
	require.NoError(t, err)
	l, err := rt.MakeArray(spec.Dimensions, spec.ElementType, spec.Options()...)
	require.NoError(t, err)
	assert.True(t, l.HasFillPointer())
	assert.Equal(t, 0, l.Length())
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "types: [unterminated"))
	require.Error(t, err)
}
