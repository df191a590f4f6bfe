package rewrite

import (
	"errors"
	"runtime"

	"github.com/tune-labs/coverfix/internal/shared/logging"
	"github.com/tune-labs/coverfix/pkg/tracks"
)

// Result reports what a run changed. Updated holds one flag per input record,
// in input order, regardless of execution strategy.
type Result struct {
	Updated []bool
	Count   int
}

// Engine applies a Rule over a track collection, sequentially or on a
// fixed-size worker pool. Both strategies produce identical results.
type Engine struct {
	rule    Rule
	workers int
	logger  logging.Logger
}

// NewEngine builds an engine. workers selects the strategy: 1 runs
// sequentially, above 1 runs a pool of that size, and zero or below runs a
// pool sized to the available CPUs.
func NewEngine(rule Rule, workers int, logger logging.Logger) *Engine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{rule: rule, workers: workers, logger: logger}
}

// Run rewrites eligible records in place. Any record error fails the whole
// run; nothing is retried or isolated.
func (e *Engine) Run(records []tracks.Track) (*Result, error) {
	if e.workers > 1 {
		return e.runParallel(records)
	}
	return e.runSequential(records)
}

func (e *Engine) runSequential(records []tracks.Track) (*Result, error) {
	e.logger.Debug("Rewriting tracks sequentially", "tracks", len(records))

	updated := make([]bool, len(records))
	for i := range records {
		changed, err := e.rule.Apply(&records[i])
		if err != nil {
			return nil, err
		}
		updated[i] = changed
	}
	return collect(updated), nil
}

func (e *Engine) runParallel(records []tracks.Track) (*Result, error) {
	e.logger.Debug("Rewriting tracks in parallel", "tracks", len(records), "workers", e.workers)

	// Each task owns exactly one record and one slot in each slice, so the
	// workers need no synchronization; the pool drain is the only barrier.
	updated := make([]bool, len(records))
	errs := make([]error, len(records))

	workers := newPool(e.workers)
	for i := range records {
		i := i
		workers.submit(func() {
			updated[i], errs[i] = e.rule.Apply(&records[i])
		})
	}
	workers.wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return collect(updated), nil
}

func collect(updated []bool) *Result {
	count := 0
	for _, changed := range updated {
		if changed {
			count++
		}
	}
	return &Result{Updated: updated, Count: count}
}
