package eval

import (
	"time"

	"github.com/cwbudde/exprlang/internal/errors"
	"github.com/cwbudde/exprlang/internal/token"
)

// budget tracks the live resource consumption of a single Evaluate call
// against the limits in Options (§4.5): recursion depth, total node
// visits, and wall-clock time. It is created fresh per call — budgets are
// never shared across concurrent evaluations of the same cached Block
// (§4.6's concurrency requirement is about the Block, not the budget).
type budget struct {
	opts      Options
	depth     int
	visits    int
	deadline  time.Time
	hasClock  bool
}

func newBudget(opts Options) *budget {
	b := &budget{opts: opts}
	if opts.TimeoutMilliseconds > 0 {
		b.deadline = time.Now().Add(time.Duration(opts.TimeoutMilliseconds) * time.Millisecond)
		b.hasClock = true
	}
	return b
}

// enter increments depth on entry to a nested expression and must
// be paired with a deferred exit(). Returns an error if the new depth
// exceeds MaxDepth.
func (b *budget) enter(pos token.Position) (*errors.EngineError, func()) {
	b.depth++
	if b.opts.MaxDepth > 0 && b.depth > b.opts.MaxDepth {
		return errors.New(errors.CodeMaxDepthExceeded, pos, "maximum expression depth exceeded"), func() { b.depth-- }
	}
	return nil, func() { b.depth-- }
}

// visit counts one AST node evaluation and checks both the visit-count and
// wall-clock limits.
func (b *budget) visit(pos token.Position) *errors.EngineError {
	b.visits++
	if b.opts.MaxNodeVisits > 0 && b.visits > b.opts.MaxNodeVisits {
		return errors.New(errors.CodeMaxVisitsExceeded, pos, "maximum node visit count exceeded")
	}
	if b.hasClock && time.Now().After(b.deadline) {
		return errors.New(errors.CodeExecutionTimeout, pos, "execution exceeded the configured timeout")
	}
	return nil
}
