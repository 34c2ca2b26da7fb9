package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroviz/hydroviz/internal/config"
	"github.com/hydroviz/hydroviz/internal/core/query"
	"github.com/hydroviz/hydroviz/internal/core/session"
)

const scalarHeader = "      X(km)       Y(km)       Z(km)    Time(yr)  Temp(Deg.C)  Pres(dyne/cm^2)   Sat(-)   Phase No."

func testHub(t *testing.T) *Hub {
	t.Helper()
	dir := t.TempDir()
	lines := []string{scalarHeader}
	for _, tv := range []float64{0, 1} {
		for _, x := range []string{"1.0", "2.0"} {
			lines = append(lines, fmt.Sprintf("%s 0.0 0.0 %g 100.0 1.0e6 1.0 1.0", x, tv))
		}
	}
	path := filepath.Join(dir, "Plot_scalar.hub")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644))

	sess := session.NewSession(nil)
	require.NoError(t, sess.LoadScalar(path))
	return NewHub(sess, config.Default())
}

func TestHubTimes(t *testing.T) {
	hub := testHub(t)

	resp := hub.Handle(Request{Type: "times"})
	require.Equal(t, "times", resp.Type)

	var times []float64
	require.NoError(t, sonic.Unmarshal([]byte(resp.Content), &times))
	assert.Equal(t, []float64{0, 1}, times)
}

func TestHubFrame(t *testing.T) {
	hub := testHub(t)

	resp := hub.Handle(Request{Type: "frame", Time: 1})
	require.Equal(t, "frame", resp.Type)

	var frame struct {
		Variable string       `json:"variable"`
		Matrix   [][]*float64 `json:"matrix"`
	}
	require.NoError(t, sonic.Unmarshal([]byte(resp.Content), &frame))
	assert.Equal(t, "temperature", frame.Variable)
	require.Len(t, frame.Matrix, 1)
	require.Len(t, frame.Matrix[0], 2)
}

func TestHubFrameUnknownTime(t *testing.T) {
	hub := testHub(t)

	resp := hub.Handle(Request{Type: "frame", Time: 42})
	assert.Equal(t, "error", resp.Type)
	assert.NotEmpty(t, resp.Content)
}

func TestHubFrameArrowFailureDegrades(t *testing.T) {
	hub := testHub(t)

	// No vector file loaded: the frame still renders, without an overlay.
	resp := hub.Handle(Request{Type: "frame", Time: 0, WithArrows: true})
	require.Equal(t, "frame", resp.Type)
	assert.NotContains(t, resp.Content, "arrows")
}

func TestHubSeries(t *testing.T) {
	hub := testHub(t)

	resp := hub.Handle(Request{
		Type:   "series",
		Points: []PointParam{{X: 1, Z: 0}},
	})
	require.Equal(t, "series", resp.Type)

	var series []query.Series
	require.NoError(t, sonic.Unmarshal([]byte(resp.Content), &series))
	require.Len(t, series, 1)
	assert.Equal(t, "point1", series[0].Point.Label)
	assert.Len(t, series[0].Samples, 2)
}

func TestHubSeriesPointCap(t *testing.T) {
	hub := testHub(t)

	points := make([]PointParam, session.MaxPlotPoints+1)
	resp := hub.Handle(Request{Type: "series", Points: points})
	assert.Equal(t, "error", resp.Type)

	resp = hub.Handle(Request{Type: "series"})
	assert.Equal(t, "error", resp.Type)
}

func TestHubUnknownRequestType(t *testing.T) {
	hub := testHub(t)

	resp := hub.Handle(Request{Type: "shutdown"})
	assert.Equal(t, "error", resp.Type)
	assert.Contains(t, resp.Content, "shutdown")
}
