// Package engine is the public facade (§4.7): a constructed Engine type
// wrapping the compilation cache, parser, evaluator, and converter/
// function registries behind Compile/Execute/ExecuteBlock/Validate/
// ClearCache.
//
// Grounded on CWBudde-go-dws's pkg/dwscript package shape — a
// constructed engine/program value rather than free functions — adapted
// from the teacher's Interpreter/Program split to this spec's simpler
// single Compile+Execute pipeline (§4.7 has no separate "program" stage,
// compilation and caching are the same step).
package engine

import (
	"fmt"

	"github.com/cwbudde/exprlang/internal/analyzer"
	"github.com/cwbudde/exprlang/internal/ast"
	"github.com/cwbudde/exprlang/internal/builtins"
	"github.com/cwbudde/exprlang/internal/cache"
	"github.com/cwbudde/exprlang/internal/convert"
	"github.com/cwbudde/exprlang/internal/errors"
	"github.com/cwbudde/exprlang/internal/eval"
	"github.com/cwbudde/exprlang/internal/function"
	"github.com/cwbudde/exprlang/internal/parser"
	"github.com/cwbudde/exprlang/internal/value"
)

// Options configures an Engine. It embeds eval.Options (the runtime
// behavior knobs from §6) plus the two settings §4.6/§4.7 describe that
// live above the evaluator: whether the compilation cache is active at
// all, and its capacity.
type Options struct {
	eval.Options

	// EnableCompilationCache mirrors Options.enableCompilationCache
	// (§6): when false, Compile never hits or populates the cache.
	EnableCompilationCache bool
	// CacheSize bounds the number of distinct scripts held in the
	// compilation cache. Zero uses cache.DefaultSize.
	CacheSize int
}

// DefaultOptions returns the engine's out-of-the-box configuration:
// eval.DefaultOptions() plus a bounded, enabled compilation cache.
func DefaultOptions() Options {
	return Options{
		Options:                eval.DefaultOptions(),
		EnableCompilationCache: true,
		CacheSize:              cache.DefaultSize,
	}
}

// RegistryOption customizes an Engine's converter/function registries at
// construction time.
type RegistryOption func(*Engine)

// WithConverter registers an additional value conversion, tried before
// every converter registered earlier (§4.3 — "last-registered wins").
func WithConverter(fn convert.Func) RegistryOption {
	return func(e *Engine) { e.converters.Register(fn) }
}

// WithFunction registers (or overrides) a callable under name.
func WithFunction(name string, fn function.Func) RegistryOption {
	return func(e *Engine) { e.functions.Register(name, fn) }
}

// Engine is the facade a host embeds: one Engine instance may be shared
// across goroutines (§5) — Options, the converter/function registries,
// and the compilation cache are all safe for concurrent read access once
// construction (New + RegistryOptions) has completed.
type Engine struct {
	opts       Options
	converters *convert.Registry
	functions  *function.Registry
	cache      *cache.Cache
}

// New constructs an Engine: an empty converter registry seeded with the
// built-in coercions, a function registry seeded with every built-in from
// internal/builtins, and a compilation cache sized per opts. RegistryOptions
// apply after the built-ins are registered, so a host's WithFunction call
// can override a built-in name.
func New(opts Options, registryOpts ...RegistryOption) *Engine {
	e := &Engine{
		opts:       opts,
		converters: convert.NewRegistry(),
		functions:  function.NewRegistry(),
		cache:      cache.New(opts.CacheSize, opts.EnableCompilationCache),
	}
	builtins.RegisterAll(e.functions, opts.RegexTimeoutMilliseconds)
	for _, ro := range registryOpts {
		ro(e)
	}
	return e
}

// Compile parses script into a *ast.Block, serving a cache hit when one
// exists (§4.7). A freshly parsed Block is published to the cache only
// after it parses with zero errors.
func (e *Engine) Compile(script string) (*ast.Block, error) {
	if block, _, ok := e.cache.Get(script); ok {
		return block, nil
	}

	p := parser.New(script, e.opts.EnableComments)
	block := p.ParseScript()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs[0] // already carries Source via parser.addError
	}

	if e.opts.MaxNodes > 0 && p.NodeCount() > e.opts.MaxNodes {
		pos := block.Pos()
		return nil, errors.New(errors.CodeScriptTooLarge, pos,
			fmt.Sprintf("script has %d nodes, exceeding the configured maximum of %d", p.NodeCount(), e.opts.MaxNodes)).
			WithSource(script)
	}

	e.cache.Put(script, block)
	return block, nil
}

// Execute compiles script (translating a compile failure into the same
// *errors.EngineError shape Evaluate would have produced, per §4.7/§7)
// and then runs it, equivalent to Compile followed by ExecuteBlock.
func (e *Engine) Execute(script string, inputs map[string]value.Value) (eval.ExecutionResult, error) {
	block, err := e.Compile(script)
	if err != nil {
		result := eval.ExecutionResult{HasError: true}
		if ee, ok := err.(*errors.EngineError); ok {
			result.ErrorMessage = ee.Message
			result.ErrorLine = ee.Pos.Line
			result.ErrorColumn = ee.Pos.Column
			result.ErrorSnippet = ee.WithSource(script).FormatWithContext(0, false)
			result.ErrorCode = ee.Code.String()
		} else {
			result.ErrorMessage = err.Error()
		}
		return result, err
	}
	return e.ExecuteBlock(block, inputs)
}

// ExecuteBlock runs an already-compiled Block, skipping Compile entirely —
// the case a host reaches for when it has pre-compiled a script once and
// wants to run it repeatedly against different inputs.
func (e *Engine) ExecuteBlock(block *ast.Block, inputs map[string]value.Value) (eval.ExecutionResult, error) {
	evaluator := eval.New(e.opts.Options, e.converters, e.functions)
	return evaluator.Evaluate(block, inputs)
}

// Validate compiles script and runs the read-only analyzer boundary over
// the result (§6), without ever executing a statement.
func (e *Engine) Validate(script string) (analyzer.Result, error) {
	block, err := e.Compile(script)
	if err != nil {
		return analyzer.Result{}, err
	}
	return analyzer.Analyze(block, e.functions), nil
}

// ClearCache empties the compilation cache (§4.7).
func (e *Engine) ClearCache() {
	e.cache.Clear()
}
