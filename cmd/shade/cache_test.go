package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	a, err := MakeCacheKey(1.5, "x", []int{1, 2})
	require.NoError(t, err)
	b, err := MakeCacheKey(1.5, "x", []int{1, 2})
	require.NoError(t, err)
	c, err := MakeCacheKey(1.5, "x", []int{1, 3})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a.String(), 64)

	_, err = MakeCacheKey(func() {})
	assert.Error(t, err)
}

func TestCacheLoadSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewCache(dir)
	ck, err := MakeCacheKey("light")
	require.NoError(t, err)

	var got []SunLight
	ok, err := c.Load(ck, &got)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache")

	want := []SunLight{{SunPos: SunPos{T: solsticeNoon, Altitude: 71}, Light: 0.05, Foliage: true}}
	require.NoError(t, c.Save(ck, want))
	ok, err = c.Load(ck, &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got, 1)
	assert.True(t, want[0].T.Equal(got[0].T))
	assert.Equal(t, want[0].Light, got[0].Light)
	assert.Equal(t, want[0].Foliage, got[0].Foliage)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")

	// A corrupt entry is a miss.
	require.NoError(t, os.WriteFile(filepath.Join(dir, ck.String()), []byte("junk"), 0666))
	ok, err = c.Load(ck, &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNilCache(t *testing.T) {
	var c *Cache
	ck, err := MakeCacheKey("x")
	require.NoError(t, err)
	ok, err := c.Load(ck, new(int))
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Save(ck, 1))
}
