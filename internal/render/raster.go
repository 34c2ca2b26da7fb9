package render

import (
	"image"
	"image/color"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/hydroviz/hydroviz/internal/core/query"
	"github.com/hydroviz/hydroviz/internal/util"
)

var (
	missingCell = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	frameBorder = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
)

// rampColors is heatRamp parsed once for interpolation.
var rampColors = func() []drawing.Color {
	colors := make([]drawing.Color, len(heatRamp))
	for i, hex := range heatRamp {
		colors[i] = drawing.ColorFromHex(hex[1:])
	}
	return colors
}()

// RampColor maps a value inside [lo, hi] onto the heat ramp with linear
// interpolation between the ramp stops. Out-of-window values clamp.
func RampColor(v, lo, hi float64) color.RGBA {
	t := 0.0
	if hi > lo {
		t = (v - lo) / (hi - lo)
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	pos := t * float64(len(rampColors)-1)
	i := int(pos)
	if i >= len(rampColors)-1 {
		c := rampColors[len(rampColors)-1]
		return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
	}
	frac := pos - float64(i)
	a, b := rampColors[i], rampColors[i+1]
	return color.RGBA{
		R: uint8(float64(a.R) + frac*(float64(b.R)-float64(a.R))),
		G: uint8(float64(a.G) + frac*(float64(b.G)-float64(a.G))),
		B: uint8(float64(a.B) + frac*(float64(b.B)-float64(a.B))),
		A: 0xff,
	}
}

// RenderFrame rasterizes the payload's grid into an RGBA heatmap frame.
// Each grid cell maps to a pixel block; missing cells render as gaps in
// the neutral background color. Rows are drawn with z increasing upward.
func RenderFrame(p *Payload, width, height int) *image.RGBA {
	const margin = 2

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, missingCell)
		}
	}
	for x := 0; x < width; x++ {
		img.SetRGBA(x, 0, frameBorder)
		img.SetRGBA(x, height-1, frameBorder)
	}
	for y := 0; y < height; y++ {
		img.SetRGBA(0, y, frameBorder)
		img.SetRGBA(width-1, y, frameBorder)
	}

	cols := len(p.XAxis)
	rows := len(p.ZAxis)
	if cols == 0 || rows == 0 {
		return img
	}

	innerW := width - 2*margin
	innerH := height - 2*margin

	for zi, row := range p.Matrix {
		for xi, v := range row {
			if v == nil {
				continue
			}
			c := RampColor(*v, p.ColorMin, p.ColorMax)
			x0 := margin + xi*innerW/cols
			x1 := margin + (xi+1)*innerW/cols
			// Flip vertically: matrix row 0 is the lowest z.
			y0 := margin + (rows-1-zi)*innerH/rows
			y1 := margin + (rows-zi)*innerH/rows
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					img.SetRGBA(x, y, c)
				}
			}
		}
	}

	return img
}

// seriesPalette assigns the classic probe colors, cycling past four.
var seriesPalette = []drawing.Color{
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("ff7f0e"),
}

// RenderSeriesChart draws the assembled point series as a PNG line chart.
func RenderSeriesChart(w io.Writer, series []query.Series, variable string) error {
	var chartSeries []chart.Series
	for i, s := range series {
		if len(s.Samples) == 0 {
			continue
		}
		xs := make([]float64, len(s.Samples))
		ys := make([]float64, len(s.Samples))
		for j, sample := range s.Samples {
			xs[j] = sample.Time
			ys[j] = sample.Value
		}
		name := s.Point.Label
		if name == "" {
			name = "point" + util.FormatNumber(i+1)
		}
		chartSeries = append(chartSeries, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: seriesPalette[i%len(seriesPalette)],
				StrokeWidth: 2,
			},
		})
	}

	c := chart.Chart{
		Title:  variable + " over time",
		XAxis:  chart.XAxis{Name: "time (yr)"},
		YAxis:  chart.YAxis{Name: variable},
		Series: chartSeries,
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}

	return c.Render(chart.PNG, w)
}
