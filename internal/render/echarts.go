package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/hydroviz/hydroviz/internal/util"
)

// heatRamp is the visual-map color ramp, cold to hot.
var heatRamp = []string{
	"#313695", "#4575b4", "#74add1", "#abd9e9", "#e0f3f8",
	"#ffffbf", "#fee090", "#fdae61", "#f46d43", "#d73027", "#a50026",
}

// WriteHTML renders the payload as a self-contained HTML page: a heatmap
// of the grid plus, when arrows are present, a line chart of the flow
// overlay geometry.
func WriteHTML(w io.Writer, p *Payload) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("hydroviz - %s @ %s yr", p.Variable, util.FormatTimeValue(p.Time))
	page.AddCharts(heatmapChart(p))
	if p.Arrows != nil {
		page.AddCharts(arrowChart(p))
	}
	return page.Render(w)
}

func heatmapChart(p *Payload) *charts.HeatMap {
	heatmap := charts.NewHeatMap()

	xLabels := make([]string, len(p.XAxis))
	for i, x := range p.XAxis {
		xLabels[i] = util.FormatCoordinate(x)
	}
	zLabels := make([]string, len(p.ZAxis))
	for i, z := range p.ZAxis {
		zLabels[i] = util.FormatCoordinate(z)
	}

	heatmap.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s at t=%s yr", p.Variable, util.FormatTimeValue(p.Time)),
			Subtitle: fmt.Sprintf("range %s to %s", util.FormatDataValue(p.Min), util.FormatDataValue(p.Max)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "x (km)",
			Type: "category",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "z (km)",
			Type: "category",
			Data: zLabels,
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(p.ColorMin),
			Max:        float32(p.ColorMax),
			InRange:    &opts.VisualMapInRange{Color: heatRamp},
		}),
	)

	// Missing cells are simply omitted, which echarts renders as gaps.
	var data []opts.HeatMapData
	for zi, row := range p.Matrix {
		for xi, v := range row {
			if v == nil {
				continue
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{xi, zi, *v}})
		}
	}

	heatmap.SetXAxis(xLabels).AddSeries(p.Variable, data)
	return heatmap
}

func arrowChart(p *Payload) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s flow overlay (%d arrows)", p.VectorType, p.Arrows.Count),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x (km)", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "z (km)", Type: "value"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)

	// Null entries carry the path breaks between disjoint arrows.
	line.AddSeries("shafts", segmentSeries(p.Arrows.LineX, p.Arrows.LineZ))
	line.AddSeries("heads", segmentSeries(p.Arrows.HeadX, p.Arrows.HeadZ))
	return line
}

func segmentSeries(xs, zs []*float64) []opts.LineData {
	data := make([]opts.LineData, 0, len(xs))
	for i := range xs {
		if xs[i] == nil || zs[i] == nil {
			data = append(data, opts.LineData{Value: nil})
			continue
		}
		data = append(data, opts.LineData{Value: []interface{}{*xs[i], *zs[i]}})
	}
	return data
}
