package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroviz/hydroviz/internal/core/model"
	"github.com/hydroviz/hydroviz/internal/core/query"
)

func TestRampColorEndpoints(t *testing.T) {
	lo := RampColor(0, 0, 1)
	hi := RampColor(1, 0, 1)
	assert.NotEqual(t, lo, hi)

	// Out-of-range values clamp to the endpoints.
	assert.Equal(t, lo, RampColor(-5, 0, 1))
	assert.Equal(t, hi, RampColor(42, 0, 1))

	// A degenerate range still yields a valid color.
	assert.Equal(t, RampColor(1, 1, 1), RampColor(2, 1, 1))
}

func TestRenderFrameDimensionsAndEncoding(t *testing.T) {
	p := NewPayload(testGrid(), FullColorWindow())

	frame := RenderFrame(p, 64, 48)
	require.NotNil(t, frame)
	assert.Equal(t, 64, frame.Bounds().Dx())
	assert.Equal(t, 48, frame.Bounds().Dy())

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, frame))
	assert.NotZero(t, buf.Len())
}

func TestRenderSeriesChartProducesPNG(t *testing.T) {
	series := []query.Series{
		{
			Point: model.PlotPoint{Label: "point1", X: 1, Z: 0},
			Samples: []query.SeriesSample{
				{Time: 0, Value: 100},
				{Time: 1, Value: 110},
				{Time: 2, Value: 108},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderSeriesChart(&buf, series, model.VarTemperature))

	// PNG signature.
	require.Greater(t, buf.Len(), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, buf.Bytes()[:4])
}
