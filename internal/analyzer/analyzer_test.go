package analyzer

import (
	"testing"

	"github.com/cwbudde/exprlang/internal/ast"
	"github.com/cwbudde/exprlang/internal/function"
	"github.com/cwbudde/exprlang/internal/parser"
	"github.com/cwbudde/exprlang/internal/value"
)

func parseBlock(t *testing.T, src string) *ast.Block {
	t.Helper()
	p := parser.New(src, true)
	block := p.ParseScript()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse errors for %q: %v", src, p.Errors())
	}
	return block
}

func TestAnalyzeCountsOperatorsAndConditionals(t *testing.T) {
	block := parseBlock(t, `
if([X] > 1 && [Y] == 2) {
	local {
		set(Total, [X] + [Y] * 2)
		return_local
	}
	return
} else {
	return
}
`)
	res := Analyze(block, nil)

	if res.Complexity.ConditionalCount != 1 {
		t.Fatalf("expected 1 conditional, got %d", res.Complexity.ConditionalCount)
	}
	if res.Complexity.ComparisonOps != 2 {
		t.Fatalf("expected 2 comparisons (> and ==), got %d", res.Complexity.ComparisonOps)
	}
	if res.Complexity.LogicalOps != 1 {
		t.Fatalf("expected 1 logical op (&&), got %d", res.Complexity.LogicalOps)
	}
	if res.Complexity.ArithmeticOps != 2 {
		t.Fatalf("expected 2 arithmetic ops (+ and *), got %d", res.Complexity.ArithmeticOps)
	}
	if res.Complexity.LocalBlockCount != 1 {
		t.Fatalf("expected 1 local block, got %d", res.Complexity.LocalBlockCount)
	}
	if len(res.ReferencedFields) != 4 {
		t.Fatalf("expected 4 field references ([X]/[Y] in the condition, [X]/[Y] in the set value), got %d: %v", len(res.ReferencedFields), res.ReferencedFields)
	}
}

func TestAnalyzeFlagsUnregisteredFunctionCall(t *testing.T) {
	block := parseBlock(t, "set(Out, Nope(1, 2))")
	reg := function.NewRegistry()
	res := Analyze(block, reg)

	if len(res.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(res.Warnings), res.Warnings)
	}
	if len(res.UsedFunctions) != 1 || res.UsedFunctions[0] != "Nope" {
		t.Fatalf("expected UsedFunctions=[Nope], got %v", res.UsedFunctions)
	}
}

func TestAnalyzeRegisteredFunctionNoWarning(t *testing.T) {
	block := parseBlock(t, "set(Out, Known(1))")
	reg := function.NewRegistry()
	reg.Register("Known", func(ctx function.Context, args []value.Value) (value.Value, error) {
		return value.Null, nil
	})
	res := Analyze(block, reg)

	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", res.Warnings)
	}
}

func TestAnalyzeMaxBlockDepth(t *testing.T) {
	block := parseBlock(t, `
if(true) {
	if(true) {
		return
	}
}
`)
	res := Analyze(block, nil)
	if res.Complexity.MaxBlockDepth < 2 {
		t.Fatalf("expected nested if to reach depth >= 2, got %d", res.Complexity.MaxBlockDepth)
	}
}

func TestAnalyzeNilFunctionsNeverWarns(t *testing.T) {
	block := parseBlock(t, "set(Out, Anything(1))")
	res := Analyze(block, nil)
	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings when functions registry is nil, got %v", res.Warnings)
	}
}
