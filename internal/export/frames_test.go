package export

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroviz/hydroviz/internal/core/session"
	"github.com/hydroviz/hydroviz/internal/render"
)

func writeScalarFixture(t *testing.T, dir string, times ...float64) string {
	t.Helper()
	lines := []string{scalarHeader}
	for _, tv := range times {
		for _, x := range []string{"1.0", "2.0"} {
			lines = append(lines, fmt.Sprintf("%s 0.0 0.0 %g 100.0 1.0e6 1.0 1.0", x, tv))
		}
	}
	path := filepath.Join(dir, "Plot_scalar.frames")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644))
	return path
}

func archiveNames(t *testing.T, path string) []string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

func TestExportFrames(t *testing.T) {
	dir := t.TempDir()
	scalarPath := writeScalarFixture(t, dir, 0, 1, 2)

	sess := session.NewSession(nil)
	require.NoError(t, sess.LoadScalar(scalarPath))

	outPath := filepath.Join(dir, "frames.zip")
	opts := FrameOptions{
		Variable: "temperature",
		Width:    32,
		Height:   24,
		Window:   render.FullColorWindow(),
	}
	require.NoError(t, ExportFrames(sess, opts, outPath))

	names := archiveNames(t, outPath)
	assert.Contains(t, names, "frame_0000.png")
	assert.Contains(t, names, "frame_0001.png")
	assert.Contains(t, names, "frame_0002.png")
	assert.Contains(t, names, "manifest.json")
	assert.NotContains(t, names, "animation.gif")
}

func TestExportFramesStrideAndManifest(t *testing.T) {
	dir := t.TempDir()
	scalarPath := writeScalarFixture(t, dir, 0, 1, 2, 3, 4)

	sess := session.NewSession(nil)
	require.NoError(t, sess.LoadScalar(scalarPath))

	outPath := filepath.Join(dir, "frames.zip")
	opts := FrameOptions{
		Variable: "temperature",
		Stride:   2,
		Width:    32,
		Height:   24,
		Window:   render.FullColorWindow(),
	}
	require.NoError(t, ExportFrames(sess, opts, outPath))

	r, err := zip.OpenReader(outPath)
	require.NoError(t, err)
	defer r.Close()

	var manifest frameManifest
	for _, f := range r.File {
		if f.Name != "manifest.json" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rc).Decode(&manifest))
		rc.Close()
	}

	// Stride 2 over times 0..4 keeps 0, 2, 4.
	assert.Equal(t, []float64{0, 2, 4}, manifest.Times)
	assert.Equal(t, 2, manifest.Stride)
	assert.Equal(t, 32, manifest.Width)
}

func TestExportFramesGIF(t *testing.T) {
	dir := t.TempDir()
	scalarPath := writeScalarFixture(t, dir, 0, 1)

	sess := session.NewSession(nil)
	require.NoError(t, sess.LoadScalar(scalarPath))

	outPath := filepath.Join(dir, "frames.zip")
	opts := FrameOptions{
		Variable: "temperature",
		Width:    32,
		Height:   24,
		Window:   render.FullColorWindow(),
		GIF:      true,
	}
	require.NoError(t, ExportFrames(sess, opts, outPath))

	assert.Contains(t, archiveNames(t, outPath), "animation.gif")
}

func TestExportFramesRequiresLoadedScalar(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "frames.zip")
	err := ExportFrames(session.NewSession(nil), FrameOptions{Variable: "temperature"}, outPath)
	assert.Error(t, err)
}
