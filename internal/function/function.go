// Package function implements the case-insensitive built-in Function
// registry (§4.3, §6) and the invocation Context every built-in and
// host-registered function receives.
//
// Grounded on the teacher's case-insensitive identifier lookup pattern
// (`internal/lexer/token_type.go`'s keyword table, which lowercases before
// matching) applied to a runtime registry rather than a compile-time
// keyword set, since the spec's function names are dynamically registered
// (built-ins plus host extensions via `engine.WithFunction`), not a fixed
// language keyword list.
package function

import (
	"strings"

	"github.com/cwbudde/exprlang/internal/errors"
	"github.com/cwbudde/exprlang/internal/token"
	"github.com/cwbudde/exprlang/internal/value"
)

// Context is passed to every Func invocation, giving built-ins access to
// the evaluator's error-raising and position-tracking machinery without a
// dependency on the eval package itself (avoiding an import cycle:
// internal/eval depends on internal/function, not the reverse).
type Context interface {
	// NewError raises a typed EngineError positioned at the current call
	// site's source location.
	NewError(code errors.Code, format string, args ...any) error
	// Pos returns the source position of the current call expression.
	Pos() token.Position
}

// Func is the shape every built-in (and host-registered) function
// implements: explicit error return, no panics across this boundary.
type Func func(ctx Context, args []value.Value) (value.Value, error)

// Registry is a case-insensitive function name -> Func table.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry creates an empty Registry. Callers typically follow this with
// RegisterAll from internal/builtins.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register adds or replaces the function under name, matched
// case-insensitively (§4.3).
func (r *Registry) Register(name string, fn Func) {
	r.funcs[strings.ToLower(name)] = fn
}

// Lookup returns the Func registered under name (case-insensitive) and
// whether one was found.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[strings.ToLower(name)]
	return fn, ok
}

// Names returns every registered function name, lower-cased, in arbitrary
// order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for n := range r.funcs {
		names = append(names, n)
	}
	return names
}
