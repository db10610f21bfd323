package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/atomicstack/keynav/internal/bounds"
	"github.com/atomicstack/keynav/internal/engine"
)

// The config file lives at $XDG_CONFIG_HOME/keynav/keynav.yaml.
const (
	DirName  = "keynav"
	FileName = "keynav.yaml"
)

// File mirrors the YAML config file.
type File struct {
	Grid    Grid    `mapstructure:"grid"`
	Bounds  Bounds  `mapstructure:"bounds"`
	Timing  Timing  `mapstructure:"timing"`
	Overlay Overlay `mapstructure:"overlay"`
	Keys    Keys    `mapstructure:"keys"`
}

type Grid struct {
	Level0Rows   int     `mapstructure:"level0_rows"`
	Level0Cols   int     `mapstructure:"level0_cols"`
	Level1Rows   int     `mapstructure:"level1_rows"`
	Level1Cols   int     `mapstructure:"level1_cols"`
	MaxRecursion int     `mapstructure:"max_recursion"`
	MinCellSize  float64 `mapstructure:"min_cell_size"`
}

type Bounds struct {
	SettleRetries  int           `mapstructure:"settle_retries"`
	SettleInterval time.Duration `mapstructure:"settle_interval"`
	AreaRatio      float64       `mapstructure:"area_ratio"`
	EdgeTolerance  float64       `mapstructure:"edge_tolerance"`
	SnapTolerance  float64       `mapstructure:"snap_tolerance"`
}

type Timing struct {
	PostUngrabDelay   time.Duration `mapstructure:"post_ungrab_delay"`
	ClickPressRelease time.Duration `mapstructure:"click_press_release"`
	DoubleClickGap    time.Duration `mapstructure:"double_click_gap"`
}

type Overlay struct {
	Alpha float64 `mapstructure:"alpha"`
}

type Keys struct {
	Activate      string `mapstructure:"activate"`
	Confirm       string `mapstructure:"confirm"`
	AltConfirm    string `mapstructure:"alt_confirm"`
	Undo          string `mapstructure:"undo"`
	Cancel        string `mapstructure:"cancel"`
	DoubleConfirm string `mapstructure:"double_confirm"`
	MiddleConfirm string `mapstructure:"middle_confirm"`
	ClickStay     string `mapstructure:"click_stay"`
}

// Bindings maps each command to its configured key name.
func (k Keys) Bindings() map[engine.Command]string {
	return map[engine.Command]string{
		engine.CommandConfirm:       k.Confirm,
		engine.CommandAltConfirm:    k.AltConfirm,
		engine.CommandUndo:          k.Undo,
		engine.CommandCancel:        k.Cancel,
		engine.CommandDoubleConfirm: k.DoubleConfirm,
		engine.CommandMiddleConfirm: k.MiddleConfirm,
		engine.CommandClickStay:     k.ClickStay,
	}
}

var defaults = map[string]interface{}{
	"grid.level0_rows":           engine.DefaultLevel0Rows,
	"grid.level0_cols":           engine.DefaultLevel0Cols,
	"grid.level1_rows":           engine.DefaultLevel1Rows,
	"grid.level1_cols":           engine.DefaultLevel1Cols,
	"grid.max_recursion":         engine.DefaultMaxDepth,
	"grid.min_cell_size":         engine.DefaultMinCellSize,
	"bounds.settle_retries":      bounds.DefaultRetries,
	"bounds.settle_interval":     bounds.DefaultPollInterval,
	"bounds.area_ratio":          bounds.DefaultAreaRatio,
	"bounds.edge_tolerance":      bounds.DefaultEdgeTolerance,
	"bounds.snap_tolerance":      bounds.DefaultSnapTolerance,
	"timing.post_ungrab_delay":   engine.DefaultPostUngrabDelay,
	"timing.click_press_release": 40 * time.Millisecond,
	"timing.double_click_gap":    50 * time.Millisecond,
	"overlay.alpha":              0.30,
	"keys.activate":              "alt+g",
	"keys.confirm":               "space",
	"keys.alt_confirm":           "enter",
	"keys.undo":                  "backspace",
	"keys.cancel":                "escape",
	"keys.double_confirm":        "",
	"keys.middle_confirm":        "",
	"keys.click_stay":            "",
}

// FileKeys lists every file key in sorted order.
func FileKeys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EnvName is the environment variable overriding a file key.
func EnvName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// DefaultPath is where the config file is looked up when none is given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, DirName, FileName)
}

// readFile layers defaults, the YAML file and KEYNAV_* variables. An explicit
// path must exist; the default path may be absent. It returns the path that
// was read, or "".
func readFile(path string, env map[string]string) (File, string, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetConfigType("yaml")

	used := ""
	if path == "" {
		if found, err := xdg.SearchConfigFile(filepath.Join(DirName, FileName)); err == nil {
			used = found
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return File{}, "", fmt.Errorf("config file: %w", err)
		}
		used = path
	}
	if used != "" {
		v.SetConfigFile(used)
		if err := v.ReadInConfig(); err != nil {
			return File{}, "", fmt.Errorf("read config %s: %w", used, err)
		}
		if err := checkKeys(v.AllKeys()); err != nil {
			return File{}, "", fmt.Errorf("%s: %w", used, err)
		}
	}

	for _, k := range FileKeys() {
		if val, ok := env[EnvName(k)]; ok {
			v.Set(k, val)
		}
	}

	var file File
	if err := v.Unmarshal(&file); err != nil {
		return File{}, "", fmt.Errorf("%w: decode config: %w", ErrInvalid, err)
	}
	return file, used, nil
}

func checkKeys(keys []string) error {
	known := FileKeys()
	var problems []string
	for _, k := range keys {
		if _, ok := defaults[k]; ok {
			continue
		}
		problems = append(problems, fmt.Sprintf("unknown setting %q%s", k, didYouMean(k, known)))
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
}

// Settings derives the engine's settings.
func (f File) Settings() engine.Settings {
	return engine.Settings{
		Level0Rows:      f.Grid.Level0Rows,
		Level0Cols:      f.Grid.Level0Cols,
		Level1Rows:      f.Grid.Level1Rows,
		Level1Cols:      f.Grid.Level1Cols,
		MaxDepth:        f.Grid.MaxRecursion,
		MinCellSize:     f.Grid.MinCellSize,
		PostUngrabDelay: f.Timing.PostUngrabDelay,
		Bounds:          f.Policy(),
	}
}

// Policy derives the reconciler's thresholds.
func (f File) Policy() bounds.Policy {
	return bounds.Policy{
		Retries:       f.Bounds.SettleRetries,
		PollInterval:  f.Bounds.SettleInterval,
		AreaRatio:     f.Bounds.AreaRatio,
		EdgeTolerance: f.Bounds.EdgeTolerance,
		SnapTolerance: f.Bounds.SnapTolerance,
	}
}
