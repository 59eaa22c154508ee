package engine

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/shopspring/decimal"

	"github.com/cwbudde/exprlang/internal/errors"
	"github.com/cwbudde/exprlang/internal/function"
	"github.com/cwbudde/exprlang/internal/value"
)

func TestEngineExecuteArithmetic(t *testing.T) {
	e := New(DefaultOptions())
	res, err := e.Execute("set(Out, 1 + 2 * 3)", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Assignments["Out"].AsNumber().Equal(decimal.NewFromInt(7)) {
		t.Fatalf("expected 7, got %s", res.Assignments["Out"])
	}
}

func TestEngineExecuteWithFields(t *testing.T) {
	e := New(DefaultOptions())
	res, err := e.Execute("set(Total, [Price] * [Quantity])", map[string]value.Value{
		"Price":    value.NumberFromInt(10),
		"Quantity": value.NumberFromInt(3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps.MatchSnapshot(t, "total_field", res.Assignments["Total"].String())
}

func TestEngineCompileCachesBlock(t *testing.T) {
	e := New(DefaultOptions())
	b1, err := e.Compile("set(Out, 1 + 1)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b2, err := e.Compile("set(Out, 1 + 1)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b1 != b2 {
		t.Fatal("expected the second Compile of identical source to return the cached *ast.Block")
	}
}

func TestEngineCompileErrorSurfacesSource(t *testing.T) {
	e := New(DefaultOptions())
	_, err := e.Compile("set(Out, 1 +)")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	ee, ok := err.(*errors.EngineError)
	if !ok {
		t.Fatalf("expected *errors.EngineError, got %T", err)
	}
	if ee.Source == "" {
		t.Fatal("expected the offending script to be attached for snippet rendering")
	}
}

func TestEngineCompileRejectsScriptOverMaxNodes(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxNodes = 3
	e := New(opts)
	_, err := e.Compile("set(Out, 1 + 2 + 3 + 4 + 5)")
	if err == nil {
		t.Fatal("expected a ScriptTooLarge error")
	}
	ee, ok := err.(*errors.EngineError)
	if !ok {
		t.Fatalf("expected *errors.EngineError, got %T", err)
	}
	if ee.Code != errors.CodeScriptTooLarge {
		t.Fatalf("expected CodeScriptTooLarge, got %s", ee.Code)
	}
}

func TestEngineExecuteBlockSkipsRecompile(t *testing.T) {
	e := New(DefaultOptions())
	block, err := e.Compile("set(Out, 40 + 2)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := e.ExecuteBlock(block, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Assignments["Out"].AsNumber().Equal(decimal.NewFromInt(42)) {
		t.Fatalf("expected 42, got %s", res.Assignments["Out"])
	}
}

func TestEngineValidateReportsUnknownFunction(t *testing.T) {
	e := New(DefaultOptions())
	result, err := e.Validate("set(Out, NoSuchFunction(1))")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", result.Warnings)
	}
}

func TestEngineClearCacheForcesRecompile(t *testing.T) {
	e := New(DefaultOptions())
	b1, err := e.Compile("set(Out, 1 + 1)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.ClearCache()
	b2, err := e.Compile("set(Out, 1 + 1)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b1 == b2 {
		t.Fatal("expected ClearCache to force a fresh parse, not return the stale pointer")
	}
}

func TestEngineWithFunctionOverridesBuiltin(t *testing.T) {
	e := New(DefaultOptions(), WithFunction("Len", func(ctx function.Context, args []value.Value) (value.Value, error) {
		return value.NumberFromInt(-1), nil
	}))
	res, err := e.Execute("set(Out, Len('hello'))", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Assignments["Out"].AsNumber().Equal(decimal.NewFromInt(-1)) {
		t.Fatalf("expected the overridden Len to return -1, got %s", res.Assignments["Out"])
	}
}

func TestEngineBuiltinLenIsRegistered(t *testing.T) {
	e := New(DefaultOptions())
	res, err := e.Execute("set(Out, Len('hello'))", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Assignments["Out"].AsNumber().Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected 5, got %s", res.Assignments["Out"])
	}
}
