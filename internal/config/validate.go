package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/atomicstack/keynav/internal/backend"
	"github.com/atomicstack/keynav/internal/engine"
)

// Validate reports every out-of-range setting at once.
func Validate(cfg Config) error {
	f := cfg.File
	var problems []string
	add := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if f.Grid.Level0Rows < 1 || f.Grid.Level0Rows > engine.MaxRowColKeys {
		add("grid.level0_rows must be in 1..%d (got %d)", engine.MaxRowColKeys, f.Grid.Level0Rows)
	}
	if f.Grid.Level0Cols < 1 || f.Grid.Level0Cols > engine.MaxRowColKeys {
		add("grid.level0_cols must be in 1..%d (got %d)", engine.MaxRowColKeys, f.Grid.Level0Cols)
	}
	if f.Grid.Level1Rows < 1 || f.Grid.Level1Cols < 1 {
		add("grid.level1_rows and grid.level1_cols must be >= 1 (got %dx%d)", f.Grid.Level1Rows, f.Grid.Level1Cols)
	} else if n := f.Grid.Level1Rows * f.Grid.Level1Cols; n > engine.MaxCellKeys {
		add("grid.level1_rows x grid.level1_cols must be <= %d (got %d)", engine.MaxCellKeys, n)
	}
	if f.Grid.MaxRecursion < 0 {
		add("grid.max_recursion must be >= 0 (got %d)", f.Grid.MaxRecursion)
	}
	if f.Grid.MinCellSize < 0 {
		add("grid.min_cell_size must be >= 0 (got %g)", f.Grid.MinCellSize)
	}

	if f.Bounds.SettleRetries < 0 {
		add("bounds.settle_retries must be >= 0 (got %d)", f.Bounds.SettleRetries)
	}
	if f.Bounds.SettleInterval < 0 {
		add("bounds.settle_interval must be >= 0 (got %s)", f.Bounds.SettleInterval)
	}
	if f.Bounds.AreaRatio <= 0 || f.Bounds.AreaRatio > 1 {
		add("bounds.area_ratio must be in (0,1] (got %g)", f.Bounds.AreaRatio)
	}
	if f.Bounds.EdgeTolerance < 0 {
		add("bounds.edge_tolerance must be >= 0 (got %g)", f.Bounds.EdgeTolerance)
	}
	if f.Bounds.SnapTolerance < 0 {
		add("bounds.snap_tolerance must be >= 0 (got %g)", f.Bounds.SnapTolerance)
	}

	for name, d := range map[string]time.Duration{
		"timing.post_ungrab_delay":   f.Timing.PostUngrabDelay,
		"timing.click_press_release": f.Timing.ClickPressRelease,
		"timing.double_click_gap":    f.Timing.DoubleClickGap,
	} {
		if d < 0 {
			add("%s must be >= 0 (got %s)", name, d)
		}
	}

	if f.Overlay.Alpha < 0 || f.Overlay.Alpha > 1 {
		add("overlay.alpha must be in [0,1] (got %g)", f.Overlay.Alpha)
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
}

// Keymap builds the key bindings, suggesting a close match for unknown names.
func Keymap(k Keys) (backend.Keymap, error) {
	km, err := backend.NewKeymap(k.Activate, k.Bindings())
	if err == nil {
		return km, nil
	}
	var unknown *backend.UnknownKeyError
	if errors.As(err, &unknown) {
		return backend.Keymap{}, fmt.Errorf("%w: keys: %w%s", ErrInvalid, err, didYouMean(unknown.Name, backend.KnownKeys()))
	}
	return backend.Keymap{}, fmt.Errorf("%w: keys: %w", ErrInvalid, err)
}

// didYouMean returns a ` (did you mean "x"?)` suffix, or "" with no close match.
func didYouMean(name string, candidates []string) string {
	if best, ok := suggest(name, candidates); ok {
		return fmt.Sprintf(" (did you mean %q?)", best)
	}
	return ""
}

func suggest(name string, candidates []string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	ranks := fuzzy.RankFindNormalizedFold(name, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target, true
	}
	// no subsequence match, fall back to edit distance
	best, bestDist := "", -1
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(strings.ToLower(name), c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	limit := len(name) / 2
	if limit < 1 {
		limit = 1
	}
	if bestDist < 0 || bestDist > limit {
		return "", false
	}
	return best, true
}
