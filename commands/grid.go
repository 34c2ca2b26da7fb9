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
	gridTime     float64
	gridVariable string
	gridColorLow float64
	gridColorHi  float64
	gridOutFile  string

	gridCmd = &cobra.Command{
		Use:   "grid <scalar-file>",
		Short: "Extract one time step as a 2D grid payload",
		Long: `grid extracts the records of one time step, pivots them onto the
x/z coordinate grid and prints the result as JSON. Cells without a record
are null. The requested time snaps to the nearest indexed time step.`,
		Args: cobra.ExactArgs(1),
		RunE: runGrid,
	}
)

func init() {
	gridCmd.Flags().Float64VarP(&gridTime, "time", "t", 0,
		"Time step to extract (years, snapped to nearest)")
	gridCmd.Flags().StringVarP(&gridVariable, "variable", "v", "",
		"Scalar variable (temperature, pressure, saturation, phase)")
	gridCmd.Flags().Float64Var(&gridColorLow, "color-low", 0,
		"Color window low bound (percent of data range)")
	gridCmd.Flags().Float64Var(&gridColorHi, "color-high", 100,
		"Color window high bound (percent of data range)")
	gridCmd.Flags().StringVarP(&gridOutFile, "out", "o", "",
		"Write JSON to file instead of stdout")

	rootCmd.AddCommand(gridCmd)
}

func runGrid(cmd *cobra.Command, args []string) error {
	cfg, indexCache, err := setup()
	if err != nil {
		return err
	}
	if gridVariable == "" {
		gridVariable = cfg.Grid.Variable
	}

	sess := session.NewSession(indexCache)
	if err := sess.LoadScalar(expandPath(args[0])); err != nil {
		return err
	}

	t := gridTime
	if !cmd.Flags().Changed("time") {
		t = sess.Times()[0]
	} else if snapped, ok := sess.Scalar.Doc.Index.NearestTime(gridTime); ok {
		t = snapped
	}

	g, err := sess.GridAt(t, gridVariable)
	if err != nil {
		return err
	}

	payload := render.NewPayload(g, render.ColorWindow{LowPct: gridColorLow, HighPct: gridColorHi})
	body, err := payload.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode grid: %w", err)
	}

	if gridOutFile != "" {
		if err := os.WriteFile(expandPath(gridOutFile), body, 0644); err != nil {
			return err
		}
		util.LogInfof("Grid written to %s", gridOutFile)
		return nil
	}
	fmt.Println(string(body))
	return nil
}
