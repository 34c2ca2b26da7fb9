package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/hydroviz/hydroviz/internal/core/model"
	"github.com/hydroviz/hydroviz/internal/core/query"
	"github.com/hydroviz/hydroviz/internal/core/session"
	"github.com/hydroviz/hydroviz/internal/export"
	"github.com/hydroviz/hydroviz/internal/render"
	"github.com/hydroviz/hydroviz/internal/util"
)

var (
	seriesPoints   []string
	seriesVariable string
	seriesFormat   string
	seriesOutFile  string

	seriesCmd = &cobra.Command{
		Use:   "series <scalar-file>",
		Short: "Extract time series at plotted points",
		Long: `series extracts one value per time step near each plotted point.

Points are given as x,z pairs (up to 4). Without any points the command
samples spread-out grid locations automatically.

Formats:
  json  series with matched samples (near-point match within 0.1)
  csv   one row per time step, nearest record per point (blank on miss)
  png   chart image, one line per point

Examples:
  hydroviz series Plot_scalar.run1 -p 1.0,0.0 -p 2.5,0.5
  hydroviz series Plot_scalar.run1 -v pressure -f csv -o series.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runSeries,
	}
)

func init() {
	seriesCmd.Flags().StringArrayVarP(&seriesPoints, "point", "p", nil,
		"Plot point as x,z (repeatable, max 4)")
	seriesCmd.Flags().StringVarP(&seriesVariable, "variable", "v", "",
		"Scalar variable (temperature, pressure, saturation, phase)")
	seriesCmd.Flags().StringVarP(&seriesFormat, "format", "f", "json",
		"Output format (json, csv, png)")
	seriesCmd.Flags().StringVarP(&seriesOutFile, "out", "o", "",
		"Write output to file instead of stdout")

	rootCmd.AddCommand(seriesCmd)
}

func parsePoints(specs []string) ([]model.PlotPoint, error) {
	points := make([]model.PlotPoint, 0, len(specs))
	for i, spec := range specs {
		parts := strings.Split(spec, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid point %q: expected x,z", spec)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", spec, err)
		}
		z, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", spec, err)
		}
		points = append(points, model.PlotPoint{
			Label: fmt.Sprintf("point%d", i+1),
			X:     x,
			Z:     z,
		})
	}
	return points, nil
}

func runSeries(cmd *cobra.Command, args []string) error {
	cfg, indexCache, err := setup()
	if err != nil {
		return err
	}
	if seriesVariable == "" {
		seriesVariable = cfg.Grid.Variable
	}

	sess := session.NewSession(indexCache)
	if err := sess.LoadScalar(expandPath(args[0])); err != nil {
		return err
	}

	points, err := parsePoints(seriesPoints)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		records := sess.Scalar.Doc.ExtractScalar(sess.Times()[0])
		points = query.AutoSamplePoints(records, session.MaxPlotPoints)
		for i := range points {
			points[i].Label = fmt.Sprintf("point%d", i+1)
		}
		util.LogInfof("No points given, sampled %d automatically", len(points))
	}
	if err := sess.SetPoints(points); err != nil {
		return err
	}

	out := os.Stdout
	if seriesOutFile != "" {
		f, err := os.Create(expandPath(seriesOutFile))
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch seriesFormat {
	case "csv":
		return export.WriteSeriesCSV(out, sess.Scalar.Doc, seriesVariable, points)
	case "png":
		series, err := query.ExtractSeries(sess.Scalar.Doc, seriesVariable, points)
		if err != nil {
			return err
		}
		return render.RenderSeriesChart(out, series, seriesVariable)
	case "json":
		series, err := query.ExtractSeries(sess.Scalar.Doc, seriesVariable, points)
		if err != nil {
			return err
		}
		body, err := sonic.MarshalIndent(series, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(body))
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected json, csv or png)", seriesFormat)
	}
}
