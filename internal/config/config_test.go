package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/keynav/internal/engine"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadArgsDefaults(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := LoadArgs([]string{"--config", path}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.App.Backend != "preview" {
		t.Fatalf("expected preview without DISPLAY, got %q", cfg.App.Backend)
	}
	s := cfg.App.Engine
	if s.Level0Rows != 11 || s.Level0Cols != 11 || s.Level1Rows != 6 || s.Level1Cols != 6 || s.MaxDepth != 1 {
		t.Fatalf("unexpected grid defaults %+v", s)
	}
	if s.Bounds.Retries != 12 || s.Bounds.PollInterval != 8*time.Millisecond || s.Bounds.AreaRatio != 0.90 {
		t.Fatalf("unexpected bounds defaults %+v", s.Bounds)
	}
	if s.PostUngrabDelay != 50*time.Millisecond || cfg.App.ClickPressRelease != 40*time.Millisecond {
		t.Fatalf("unexpected timing defaults")
	}
	if cfg.App.OverlayAlpha != 0.30 {
		t.Fatalf("unexpected alpha %v", cfg.App.OverlayAlpha)
	}
	if cfg.App.Keymap.Activate.String() != "alt+g" {
		t.Fatalf("unexpected activation chord %s", cfg.App.Keymap.Activate)
	}
	if cfg.Flags["config"] != path {
		t.Fatalf("expected config path recorded, got %q", cfg.Flags["config"])
	}
}

func TestLoadArgsPrecedence(t *testing.T) {
	path := writeConfig(t, `
grid:
  level0_rows: 8
  level0_cols: 9
  max_recursion: 3
bounds:
  settle_interval: 5ms
keys:
  click_stay: tab
`)
	env := []string{
		"KEYNAV_CONFIG=" + path,
		"KEYNAV_GRID_LEVEL0_COLS=12",
		"KEYNAV_TIMING_POST_UNGRAB_DELAY=20ms",
		"KEYNAV_TRACE=1",
		"DISPLAY=:0",
	}
	cfg, err := LoadArgs([]string{"--max-recursion", "2"}, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := cfg.App.Engine
	if s.Level0Rows != 8 {
		t.Fatalf("file should set rows, got %d", s.Level0Rows)
	}
	if s.Level0Cols != 12 {
		t.Fatalf("env should override file cols, got %d", s.Level0Cols)
	}
	if s.MaxDepth != 2 {
		t.Fatalf("flag should override file max_recursion, got %d", s.MaxDepth)
	}
	if s.Bounds.PollInterval != 5*time.Millisecond || s.PostUngrabDelay != 20*time.Millisecond {
		t.Fatalf("durations not applied: %+v", s)
	}
	if cmd, ok := cfg.App.Keymap.Command("tab"); !ok || cmd != engine.CommandClickStay {
		t.Fatalf("expected tab bound to click_stay")
	}
	if !cfg.Logging.Trace {
		t.Fatalf("expected trace from env")
	}
	if cfg.App.Backend != "x11" {
		t.Fatalf("expected x11 with DISPLAY, got %q", cfg.App.Backend)
	}
}

func TestLoadArgsBackendOverride(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := LoadArgs([]string{"--config", path, "--backend", "preview"}, []string{"DISPLAY=:1", "KEYNAV_BACKEND=x11"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Backend != "preview" {
		t.Fatalf("flag should win, got %q", cfg.App.Backend)
	}
}

func TestLoadArgsMissingExplicitFile(t *testing.T) {
	_, err := LoadArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}, nil)
	if err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestLoadArgsRejectsUnparsableFile(t *testing.T) {
	path := writeConfig(t, "grid: [unterminated\n")
	if _, err := LoadArgs([]string{"--config", path}, nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadArgsUnknownSettingSuggests(t *testing.T) {
	path := writeConfig(t, "grid:\n  levle0_rows: 4\n")
	_, err := LoadArgs([]string{"--config", path}, nil)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if !strings.Contains(err.Error(), `did you mean "grid.level0_rows"`) {
		t.Fatalf("expected suggestion, got %v", err)
	}
}

func TestLoadArgsUnknownKeySuggests(t *testing.T) {
	path := writeConfig(t, "keys:\n  confirm: spcae\n")
	_, err := LoadArgs([]string{"--config", path}, nil)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if !strings.Contains(err.Error(), `did you mean "space"`) {
		t.Fatalf("expected suggestion, got %v", err)
	}
}

func TestLoadArgsDuplicateKey(t *testing.T) {
	path := writeConfig(t, "keys:\n  undo: space\n")
	if _, err := LoadArgs([]string{"--config", path}, nil); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for duplicate binding, got %v", err)
	}
}

func TestLoadArgsRejectsNegativePreview(t *testing.T) {
	if _, err := LoadArgs([]string{"--preview-width", "-1"}, nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidateRanges(t *testing.T) {
	path := writeConfig(t, `
grid:
  level0_rows: 27
  level1_rows: 7
  level1_cols: 6
  max_recursion: -1
bounds:
  area_ratio: 1.5
  settle_retries: -2
timing:
  double_click_gap: -5ms
`)
	cfg, err := LoadArgs([]string{"--config", path}, nil)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	err = Validate(cfg)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	for _, want := range []string{
		"grid.level0_rows",
		"grid.level1_rows x grid.level1_cols",
		"grid.max_recursion",
		"bounds.area_ratio",
		"bounds.settle_retries",
		"timing.double_click_gap",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

func TestValidateAllowsZeroRecursion(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := LoadArgs([]string{"--config", path, "--max-recursion", "0"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("max_recursion 0 must be valid: %v", err)
	}
	if cfg.App.Engine.MaxDepth != 0 {
		t.Fatalf("expected depth 0, got %d", cfg.App.Engine.MaxDepth)
	}
}

func TestEnvName(t *testing.T) {
	if got := EnvName("bounds.settle_retries"); got != "KEYNAV_BOUNDS_SETTLE_RETRIES" {
		t.Fatalf("unexpected env name %q", got)
	}
}

func TestLoadArgsListKeys(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := LoadArgs([]string{"--config", path, "--list-keys"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.ListKeys {
		t.Fatalf("expected ListKeys to be set")
	}
}
