// Package fsck is a diagnostic pass over a history.History, checking the
// testable properties of spec §8 (antichain cover, non-empty levels, a
// single inferred predicate per level) the way the teacher's fsck package
// checks RECENT-hierarchy integrity: a read-only, on-demand verification
// an operator can run without touching production traffic.
package fsck

import (
	"fmt"
	"log/slog"

	"github.com/abh/reconciled/history"
	"github.com/abh/reconciled/observation"
)

// Options controls Verify's behavior.
type Options struct {
	Verbose bool
	Logger  *slog.Logger // required
}

// Result carries the per-check issue counts and the number of levels that
// folded to conflict (informational, not necessarily a defect — conflict
// is a first-class outcome per spec §7).
type Result struct {
	Issues          int            // structural violations found
	IssuesFound     map[string]int // structural issues per check
	UndefinedLevels int            // levels whose Definition() is None
	LevelCount      int
}

// Verify walks h's current levels and checks the universal properties
// from spec §8: every pair within a level is incomparable (property 7),
// every pair of distinct levels is comparable in a consistent direction
// (property 7, 8), and no level is empty (spec §3's Level invariant).
func Verify(h *history.History, opts Options) (*Result, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	levels := h.Levels()
	result := &Result{
		IssuesFound: make(map[string]int),
		LevelCount:  len(levels),
	}

	opts.Logger.Info("fsck: verifying history", "observations", h.Len(), "levels", len(levels))

	result.IssuesFound["empty_level"] = checkNonEmpty(levels, opts)
	result.IssuesFound["antichain_cover"] = checkAntichainCover(levels, opts)
	result.IssuesFound["topological_consistency"] = checkTopologicalConsistency(levels, opts)

	for _, n := range result.IssuesFound {
		result.Issues += n
	}

	for _, lv := range levels {
		if _, ok := lv.Definition(); !ok {
			result.UndefinedLevels++
			if opts.Verbose {
				opts.Logger.Debug("fsck: undefined level", "interval", lv.Interval.String(), "size", len(lv.Observations))
			}
		}
	}

	opts.Logger.Info("fsck: complete", "issues", result.Issues, "undefined_levels", result.UndefinedLevels)

	return result, nil
}

func checkNonEmpty(levels []history.Level, opts Options) int {
	issues := 0
	for i, lv := range levels {
		if len(lv.Observations) == 0 {
			opts.Logger.Warn("fsck: empty level", "index", i)
			issues++
		}
	}
	return issues
}

func checkAntichainCover(levels []history.Level, opts Options) int {
	issues := 0
	for i, lv := range levels {
		for a := 0; a < len(lv.Observations); a++ {
			for b := a + 1; b < len(lv.Observations); b++ {
				if observation.Compare(lv.Observations[a], lv.Observations[b]) != observation.Incomparable {
					opts.Logger.Warn("fsck: comparable observations sharing a level",
						"level", i, "a", lv.Observations[a], "b", lv.Observations[b])
					issues++
				}
			}
		}
	}
	return issues
}

func checkTopologicalConsistency(levels []history.Level, opts Options) int {
	issues := 0
	for i := 0; i < len(levels); i++ {
		for j := i + 1; j < len(levels); j++ {
			if observation.Compare(levels[i].Observations[0], levels[j].Observations[0]) != observation.Less {
				opts.Logger.Warn("fsck: distinct levels are not ordered by their topological position", "level_a", i, "level_b", j)
				issues++
			}
		}
	}
	return issues
}
