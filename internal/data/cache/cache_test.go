package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroviz/hydroviz/internal/core/model"
)

func testIndex() *model.TimeIndex {
	return &model.TimeIndex{
		Ranges: map[float64]model.LineRange{
			0:   {Start: 1, End: 2},
			0.5: {Start: 3, End: 4},
		},
		Times: []float64{0, 0.5},
	}
}

func writeSourceFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCacheRoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	cache, err := NewIndexCache(filepath.Join(tempDir, "cache"))
	require.NoError(t, err)

	source := writeSourceFile(t, tempDir, "Plot_scalar.run1", "header\ndata\ndata\ndata\ndata\n")
	require.NoError(t, cache.Set(source, model.KindScalar, testIndex()))

	got, ok := cache.Get(source)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0.5}, got.Times)
	assert.Equal(t, model.LineRange{Start: 1, End: 2}, got.Ranges[0])
	assert.Equal(t, model.LineRange{Start: 3, End: 4}, got.Ranges[0.5])
}

func TestCacheMissForUnknownPath(t *testing.T) {
	cache, err := NewIndexCache(t.TempDir())
	require.NoError(t, err)

	_, ok := cache.Get("/nonexistent/Plot_scalar.x")
	assert.False(t, ok)
}

func TestCacheInvalidatedByContentChange(t *testing.T) {
	tempDir := t.TempDir()
	cache, err := NewIndexCache(filepath.Join(tempDir, "cache"))
	require.NoError(t, err)

	source := writeSourceFile(t, tempDir, "Plot_scalar.run1", "original content\n")
	require.NoError(t, cache.Set(source, model.KindScalar, testIndex()))

	// Grow the file: size (and fingerprint) no longer match.
	require.NoError(t, os.WriteFile(source, []byte("original content\nappended step\n"), 0644))

	_, ok := cache.Get(source)
	assert.False(t, ok)
}

func TestCacheInvalidatedByTouchWithSameSize(t *testing.T) {
	tempDir := t.TempDir()
	cache, err := NewIndexCache(filepath.Join(tempDir, "cache"))
	require.NoError(t, err)

	source := writeSourceFile(t, tempDir, "Plot_scalar.run1", "stable content\n")
	require.NoError(t, cache.Set(source, model.KindScalar, testIndex()))

	// Same size, different modtime.
	newTime := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(source, newTime, newTime))

	_, ok := cache.Get(source)
	assert.False(t, ok)
}

func TestCacheSurvivesMemoryLoss(t *testing.T) {
	tempDir := t.TempDir()
	cacheDir := filepath.Join(tempDir, "cache")

	cache, err := NewIndexCache(cacheDir)
	require.NoError(t, err)
	source := writeSourceFile(t, tempDir, "Plot_scalar.run1", "persistent content\n")
	require.NoError(t, cache.Set(source, model.KindScalar, testIndex()))

	// A fresh cache instance must recover the entry from disk.
	reopened, err := NewIndexCache(cacheDir)
	require.NoError(t, err)
	got, ok := reopened.Get(source)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0.5}, got.Times)
}

func TestCacheClear(t *testing.T) {
	tempDir := t.TempDir()
	cache, err := NewIndexCache(filepath.Join(tempDir, "cache"))
	require.NoError(t, err)

	source := writeSourceFile(t, tempDir, "Plot_scalar.run1", "content\n")
	require.NoError(t, cache.Set(source, model.KindScalar, testIndex()))
	require.NoError(t, cache.Clear())

	_, ok := cache.Get(source)
	assert.False(t, ok)
}

func TestCacheKeysDistinguishIdenticalBasenames(t *testing.T) {
	tempDir := t.TempDir()
	cache, err := NewIndexCache(filepath.Join(tempDir, "cache"))
	require.NoError(t, err)

	dirA := filepath.Join(tempDir, "runA")
	dirB := filepath.Join(tempDir, "runB")
	require.NoError(t, os.MkdirAll(dirA, 0755))
	require.NoError(t, os.MkdirAll(dirB, 0755))

	sourceA := writeSourceFile(t, dirA, "Plot_scalar.out", "run A data\n")
	sourceB := writeSourceFile(t, dirB, "Plot_scalar.out", "run B data with different length\n")

	indexA := &model.TimeIndex{
		Ranges: map[float64]model.LineRange{1: {Start: 0, End: 0}},
		Times:  []float64{1},
	}
	require.NoError(t, cache.Set(sourceA, model.KindScalar, indexA))
	require.NoError(t, cache.Set(sourceB, model.KindScalar, testIndex()))

	gotA, ok := cache.Get(sourceA)
	require.True(t, ok)
	assert.Equal(t, []float64{1}, gotA.Times)

	gotB, ok := cache.Get(sourceB)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0.5}, gotB.Times)
}
