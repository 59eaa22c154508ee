package errors

import (
	"strings"
	"testing"

	"github.com/cwbudde/exprlang/internal/token"
)

func TestFormat_CaretUnderColumn(t *testing.T) {
	err := New(CodeTypeMismatch, token.Position{Line: 1, Column: 5}, "expected Number").
		WithSource("1 + 'a'")

	out := err.Format(false)
	if !strings.Contains(out, "TypeMismatch") {
		t.Errorf("missing code in output: %s", out)
	}
	if !strings.Contains(out, "1 + 'a'") {
		t.Errorf("missing source line in output: %s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("missing caret in output: %s", out)
	}
}

func TestFormat_NoSourceOmitsSnippet(t *testing.T) {
	err := New(CodeUnknownField, token.Position{Line: 1, Column: 1}, "unknown field")
	out := err.Format(false)
	if strings.Contains(out, "|") {
		t.Errorf("expected no snippet line without source, got: %s", out)
	}
}

func TestFormatWithContext_ShowsSurroundingLines(t *testing.T) {
	err := New(CodeDivisionByZero, token.Position{Line: 2, Column: 3}, "division by zero").
		WithSource("set(X, 1)\nset(Y, X / 0)\nreturn")

	out := err.FormatWithContext(1, false)
	if !strings.Contains(out, "set(X, 1)") || !strings.Contains(out, "return") {
		t.Errorf("expected context lines, got: %s", out)
	}
}

func TestFormatAll_MultipleErrors(t *testing.T) {
	errs := []*EngineError{
		New(CodeParseError, token.Position{Line: 1, Column: 1}, "first"),
		New(CodeParseError, token.Position{Line: 2, Column: 1}, "second"),
	}
	out := FormatAll(errs, false)
	if !strings.Contains(out, "2 error(s)") {
		t.Errorf("expected error count, got: %s", out)
	}
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Errorf("expected both messages, got: %s", out)
	}
}

func TestCode_StringUnknownFallback(t *testing.T) {
	var c Code = 999
	if c.String() != "Unknown" {
		t.Errorf("expected Unknown for out-of-range code, got %s", c.String())
	}
}
