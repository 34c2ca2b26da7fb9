package config

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"

	"github.com/hydroviz/hydroviz/internal/core/model"
	"github.com/hydroviz/hydroviz/internal/core/vector"
	"github.com/hydroviz/hydroviz/internal/util"
)

// Config holds the user-tunable defaults. Flags override file values,
// file values override built-ins.
type Config struct {
	Grid   GridConfig
	Vector VectorConfig
	Export ExportConfig
	Serve  ServeConfig
}

type GridConfig struct {
	Variable     string
	ColorLowPct  float64
	ColorHighPct float64
}

type VectorConfig struct {
	Type          string
	ScaleExponent float64
	MaxArrows     int
	Color         string
}

type ExportConfig struct {
	Width   int
	Height  int
	Stride  int
	DelayMs int
	GIF     bool
}

type ServeConfig struct {
	Addr string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Variable:     model.VarTemperature,
			ColorLowPct:  0,
			ColorHighPct: 100,
		},
		Vector: VectorConfig{
			Type:          model.VectorWater,
			ScaleExponent: 0,
			MaxArrows:     vector.DefaultMaxArrows,
			Color:         "#000000",
		},
		Export: ExportConfig{
			Width:   640,
			Height:  480,
			Stride:  1,
			DelayMs: 50,
		},
		Serve: ServeConfig{
			Addr: ":9000",
		},
	}
}

// Load reads an ini config file over the defaults. A missing file is not
// an error; the defaults apply unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		util.LogDebug(fmt.Sprintf("No config file at %s, using defaults", path))
		return cfg, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	gridSec := file.Section("grid")
	cfg.Grid.Variable = gridSec.Key("variable").MustString(cfg.Grid.Variable)
	cfg.Grid.ColorLowPct = gridSec.Key("color_low_pct").MustFloat64(cfg.Grid.ColorLowPct)
	cfg.Grid.ColorHighPct = gridSec.Key("color_high_pct").MustFloat64(cfg.Grid.ColorHighPct)

	vecSec := file.Section("vector")
	cfg.Vector.Type = vecSec.Key("type").MustString(cfg.Vector.Type)
	cfg.Vector.ScaleExponent = vecSec.Key("scale_exponent").MustFloat64(cfg.Vector.ScaleExponent)
	cfg.Vector.MaxArrows = vecSec.Key("max_arrows").MustInt(cfg.Vector.MaxArrows)
	cfg.Vector.Color = vecSec.Key("color").MustString(cfg.Vector.Color)

	expSec := file.Section("export")
	cfg.Export.Width = expSec.Key("width").MustInt(cfg.Export.Width)
	cfg.Export.Height = expSec.Key("height").MustInt(cfg.Export.Height)
	cfg.Export.Stride = expSec.Key("stride").MustInt(cfg.Export.Stride)
	cfg.Export.DelayMs = expSec.Key("delay_ms").MustInt(cfg.Export.DelayMs)
	cfg.Export.GIF = expSec.Key("gif").MustBool(cfg.Export.GIF)

	cfg.Serve.Addr = file.Section("serve").Key("addr").MustString(cfg.Serve.Addr)

	if !model.IsScalarVariable(cfg.Grid.Variable) {
		return nil, fmt.Errorf("config: unknown scalar variable %q", cfg.Grid.Variable)
	}

	return cfg, nil
}
