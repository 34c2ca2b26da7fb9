package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hydroviz/hydroviz/internal/config"
	"github.com/hydroviz/hydroviz/internal/core/model"
	"github.com/hydroviz/hydroviz/internal/core/session"
	"github.com/hydroviz/hydroviz/internal/data/cache"
	"github.com/hydroviz/hydroviz/internal/data/scanner"
	"github.com/hydroviz/hydroviz/internal/presentation/formatter"
	"github.com/hydroviz/hydroviz/internal/util"
)

var (
	// Logging related
	debug bool

	// Configuration
	configPath string
	reset      bool

	// Output related
	outputFormat string

	rootCmd = &cobra.Command{
		Use:   "hydroviz <file-or-directory>",
		Short: "Time-indexed viewer for simulation plot files",
		Long: `hydroviz loads Plot_scalar and Plot_vector simulation output files,
builds a time index over them in one streaming pass, and exposes per-time-step
grids, flow arrow overlays and multi-point time series.

Run with a file or directory to validate and summarize it.

Examples:
  hydroviz Plot_scalar.run1                          # Validate and summarize one file
  hydroviz ./output --output json                    # Summarize a whole run directory
  hydroviz grid Plot_scalar.run1 --time 1.5          # Extract one time step's grid
  hydroviz series Plot_scalar.run1 -p 1.0,0.0        # Time series at a point
  hydroviz view Plot_scalar.run1 --vector Plot_vector.run1
  hydroviz export Plot_scalar.run1 --gif -o frames.zip`,
		Args: cobra.ExactArgs(1),
		RunE: runInfo,
	}
)

const (
	defaultLogFile    = "~/.hydroviz/logs/app.log"
	defaultCacheDir   = "~/.hydroviz/cache"
	defaultConfigFile = "~/.hydroviz/config.ini"
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigFile,
		"Config file path")
	rootCmd.PersistentFlags().BoolVarP(&reset, "reset", "r", false,
		"Clear the index cache first")

	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv)")
}

func Execute() error {
	return rootCmd.Execute()
}

// setup initializes logging, config and the index cache; every command
// runs through it.
func setup() (*config.Config, *cache.IndexCache, error) {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	util.InitLogger(logLevel, logFile, debug)

	cfg, err := config.Load(expandPath(configPath))
	if err != nil {
		return nil, nil, err
	}

	indexCache, err := cache.NewIndexCache(expandPath(defaultCacheDir))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if reset {
		if err := indexCache.Clear(); err != nil {
			return nil, nil, fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("Index cache cleared")
	}

	return cfg, indexCache, nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	_, indexCache, err := setup()
	if err != nil {
		return err
	}

	target := expandPath(args[0])
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	var files []string
	if info.IsDir() {
		dataset, err := scanner.NewDatasetScanner(target).Scan()
		if err != nil {
			return fmt.Errorf("failed to scan directory: %w", err)
		}
		files = append(files, dataset.ScalarFiles...)
		files = append(files, dataset.VectorFiles...)
		if len(files) == 0 {
			return fmt.Errorf("no plot files found in %s", target)
		}
	} else {
		files = []string{target}
	}

	for _, file := range files {
		summary, err := summarize(file, indexCache)
		if err != nil {
			return err
		}
		if err := formatSummary(summary); err != nil {
			return err
		}
	}

	return nil
}

// summarize loads and indexes one plot file and reports its time steps.
func summarize(path string, indexCache *cache.IndexCache) (*formatter.DatasetSummary, error) {
	kind, err := scanner.KindForFilename(path)
	if err != nil {
		return nil, err
	}

	sess := session.NewSession(indexCache)
	var state *session.FileState
	if kind == model.KindScalar {
		if err := sess.LoadScalar(path); err != nil {
			return nil, err
		}
		state = sess.Scalar
	} else {
		if err := sess.LoadVector(path); err != nil {
			return nil, err
		}
		state = sess.Vector
	}

	summary := &formatter.DatasetSummary{
		Path:       path,
		Kind:       kind.String(),
		Lines:      state.Doc.LineCount(),
		DataLines:  state.Validation.Stats.DataLines,
		ValidLines: state.Validation.Stats.ValidLines,
	}
	for _, t := range state.Doc.Index.Times {
		r, _ := state.Doc.Index.Range(t)
		records := 0
		if kind == model.KindScalar {
			records = len(state.Doc.ExtractScalar(t))
		} else {
			records = len(state.Doc.ExtractVector(t))
		}
		summary.TimeSteps = append(summary.TimeSteps, formatter.TimeStepInfo{
			Time:      t,
			StartLine: r.Start,
			EndLine:   r.End,
			Records:   records,
		})
	}

	return summary, nil
}

func formatSummary(summary *formatter.DatasetSummary) error {
	switch outputFormat {
	case "json":
		return formatter.NewJSONFormatter().Format(summary)
	case "csv":
		return formatter.NewCSVFormatter().Format(summary)
	default:
		return formatter.NewTableFormatter().Format(summary)
	}
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
