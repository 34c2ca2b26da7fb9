package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/hydroviz/hydroviz/internal/core/session"
	"github.com/hydroviz/hydroviz/internal/export"
	"github.com/hydroviz/hydroviz/internal/render"
)

var (
	exportVariable string
	exportVector   string
	exportVecType  string
	exportScaleExp float64
	exportStride   int
	exportWidth    int
	exportHeight   int
	exportColorLow float64
	exportColorHi  float64
	exportGIF      bool
	exportDelayMs  int
	exportOutFile  string

	exportCmd = &cobra.Command{
		Use:   "export <scalar-file>",
		Short: "Export heatmap frames for every time step",
		Long: `export renders one PNG frame per sampled time step and bundles them
into a zip archive together with a manifest of the rendered times.
With --gif an assembled animation joins the archive.

Examples:
  hydroviz export Plot_scalar.run1 -o frames.zip
  hydroviz export Plot_scalar.run1 --stride 5 --gif
  hydroviz export Plot_scalar.run1 --vector Plot_vector.run1 --scale-exp 1`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}
)

func init() {
	exportCmd.Flags().StringVarP(&exportVariable, "variable", "v", "",
		"Scalar variable (temperature, pressure, saturation, phase)")
	exportCmd.Flags().StringVar(&exportVector, "vector", "",
		"Vector file for the flow arrow overlay")
	exportCmd.Flags().StringVar(&exportVecType, "vector-type", "",
		"Vector field (water, steam)")
	exportCmd.Flags().Float64Var(&exportScaleExp, "scale-exp", 0,
		"Arrow length scale exponent")
	exportCmd.Flags().IntVar(&exportStride, "stride", 0,
		"Render every Nth time step")
	exportCmd.Flags().IntVar(&exportWidth, "width", 0,
		"Frame width in pixels")
	exportCmd.Flags().IntVar(&exportHeight, "height", 0,
		"Frame height in pixels")
	exportCmd.Flags().Float64Var(&exportColorLow, "color-low", 0,
		"Color window low bound (percent of data range)")
	exportCmd.Flags().Float64Var(&exportColorHi, "color-high", 100,
		"Color window high bound (percent of data range)")
	exportCmd.Flags().BoolVar(&exportGIF, "gif", false,
		"Also assemble an animated GIF into the archive")
	exportCmd.Flags().IntVar(&exportDelayMs, "delay", 0,
		"Pause between frames in milliseconds")
	exportCmd.Flags().StringVarP(&exportOutFile, "out", "o", "frames.zip",
		"Output archive path")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, indexCache, err := setup()
	if err != nil {
		return err
	}
	if exportVariable == "" {
		exportVariable = cfg.Grid.Variable
	}
	if exportVecType == "" {
		exportVecType = cfg.Vector.Type
	}
	if !cmd.Flags().Changed("scale-exp") {
		exportScaleExp = cfg.Vector.ScaleExponent
	}
	if exportStride <= 0 {
		exportStride = cfg.Export.Stride
	}
	if exportWidth <= 0 {
		exportWidth = cfg.Export.Width
	}
	if exportHeight <= 0 {
		exportHeight = cfg.Export.Height
	}
	if exportDelayMs <= 0 {
		exportDelayMs = cfg.Export.DelayMs
	}
	if !cmd.Flags().Changed("gif") {
		exportGIF = cfg.Export.GIF
	}

	sess := session.NewSession(indexCache)
	if err := sess.LoadScalar(expandPath(args[0])); err != nil {
		return err
	}
	if exportVector != "" {
		if err := sess.LoadVector(expandPath(exportVector)); err != nil {
			return err
		}
	}

	opts := export.FrameOptions{
		Variable:      exportVariable,
		Stride:        exportStride,
		Width:         exportWidth,
		Height:        exportHeight,
		Window:        render.ColorWindow{LowPct: exportColorLow, HighPct: exportColorHi},
		WithArrows:    exportVector != "",
		VectorType:    exportVecType,
		ScaleExponent: exportScaleExp,
		MaxArrows:     cfg.Vector.MaxArrows,
		GIF:           exportGIF,
		Delay:         time.Duration(exportDelayMs) * time.Millisecond,
	}
	return export.ExportFrames(sess, opts, expandPath(exportOutFile))
}
