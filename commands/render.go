package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hydroviz/hydroviz/internal/core/session"
	"github.com/hydroviz/hydroviz/internal/render"
	"github.com/hydroviz/hydroviz/internal/util"
)

var (
	renderTime      float64
	renderVariable  string
	renderVector    string
	renderVecType   string
	renderScaleExp  float64
	renderMaxArrows int
	renderColorLow  float64
	renderColorHi   float64
	renderOutFile   string

	renderCmd = &cobra.Command{
		Use:   "render <scalar-file>",
		Short: "Render one time step as an interactive HTML heatmap",
		Long: `render draws the heatmap of one time step as a standalone HTML page.
With a vector file the flow arrows of the nearest vector time step are
overlaid as a second chart.

Examples:
  hydroviz render Plot_scalar.run1 -t 2.0 -o step.html
  hydroviz render Plot_scalar.run1 --vector Plot_vector.run1 --scale-exp 1`,
		Args: cobra.ExactArgs(1),
		RunE: runRender,
	}
)

func init() {
	renderCmd.Flags().Float64VarP(&renderTime, "time", "t", 0,
		"Time step to render (years, snapped to nearest)")
	renderCmd.Flags().StringVarP(&renderVariable, "variable", "v", "",
		"Scalar variable (temperature, pressure, saturation, phase)")
	renderCmd.Flags().StringVar(&renderVector, "vector", "",
		"Vector file for the flow arrow overlay")
	renderCmd.Flags().StringVar(&renderVecType, "vector-type", "",
		"Vector field (water, steam)")
	renderCmd.Flags().Float64Var(&renderScaleExp, "scale-exp", 0,
		"Arrow length scale exponent (length = log10(m)*10^exp)")
	renderCmd.Flags().IntVar(&renderMaxArrows, "max-arrows", 0,
		"Arrow count cap (stride-sampled above it)")
	renderCmd.Flags().Float64Var(&renderColorLow, "color-low", 0,
		"Color window low bound (percent of data range)")
	renderCmd.Flags().Float64Var(&renderColorHi, "color-high", 100,
		"Color window high bound (percent of data range)")
	renderCmd.Flags().StringVarP(&renderOutFile, "out", "o", "heatmap.html",
		"Output HTML file")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, indexCache, err := setup()
	if err != nil {
		return err
	}
	if renderVariable == "" {
		renderVariable = cfg.Grid.Variable
	}
	if renderVecType == "" {
		renderVecType = cfg.Vector.Type
	}
	if renderMaxArrows <= 0 {
		renderMaxArrows = cfg.Vector.MaxArrows
	}
	if !cmd.Flags().Changed("scale-exp") {
		renderScaleExp = cfg.Vector.ScaleExponent
	}

	sess := session.NewSession(indexCache)
	if err := sess.LoadScalar(expandPath(args[0])); err != nil {
		return err
	}
	if renderVector != "" {
		if err := sess.LoadVector(expandPath(renderVector)); err != nil {
			return err
		}
	}

	t := renderTime
	if !cmd.Flags().Changed("time") {
		t = sess.Times()[0]
	} else if snapped, ok := sess.Scalar.Doc.Index.NearestTime(renderTime); ok {
		t = snapped
	}

	g, err := sess.GridAt(t, renderVariable)
	if err != nil {
		return err
	}
	payload := render.NewPayload(g, render.ColorWindow{LowPct: renderColorLow, HighPct: renderColorHi})

	if sess.Vector != nil {
		set, vectorTime, err := sess.ArrowsAt(t, renderVecType, renderScaleExp, renderMaxArrows)
		if err != nil {
			util.LogWarnf("Arrow overlay skipped: %v", err)
		} else {
			payload = payload.WithArrows(set, vectorTime, renderVecType)
		}
	}

	f, err := os.Create(expandPath(renderOutFile))
	if err != nil {
		return err
	}
	defer f.Close()
	if err := render.WriteHTML(f, payload); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}

	fmt.Printf("Rendered %s at t=%s to %s\n",
		renderVariable, util.FormatTimeValue(t), renderOutFile)
	return nil
}
