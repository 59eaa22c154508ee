package cmd

import (
	"testing"

	"github.com/cwbudde/exprlang/internal/eval"
)

func TestParseInputsBuildsFieldMap(t *testing.T) {
	fields, err := parseInputs([]string{"Price=10", "Name=Widget"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields["Price"].AsString() != "10" {
		t.Fatalf("expected Price=10, got %q", fields["Price"].AsString())
	}
	if fields["Name"].AsString() != "Widget" {
		t.Fatalf("expected Name=Widget, got %q", fields["Name"].AsString())
	}
}

func TestParseInputsRejectsMissingEquals(t *testing.T) {
	if _, err := parseInputs([]string{"NoEquals"}); err == nil {
		t.Fatal("expected an error for an --input without '='")
	}
}

func TestParseInputsEmptyReturnsNil(t *testing.T) {
	fields, err := parseInputs(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields != nil {
		t.Fatalf("expected nil map for no inputs, got %v", fields)
	}
}

func TestMsgLevelNameMapping(t *testing.T) {
	cases := map[eval.MsgLevel]string{
		eval.LevelInfo:    "info",
		eval.LevelWarning: "warning",
		eval.LevelError:   "error",
	}
	for level, want := range cases {
		if got := msgLevelName(level); got != want {
			t.Errorf("msgLevelName(%v) = %q, want %q", level, got, want)
		}
	}
}

func TestScriptSourcePrefersEvalFlag(t *testing.T) {
	evalExpr = "1 + 1"
	defer func() { evalExpr = "" }()

	src, err := scriptSource(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src != "1 + 1" {
		t.Fatalf("expected eval flag to win, got %q", src)
	}
}

func TestScriptSourceRequiresFileOrEval(t *testing.T) {
	evalExpr = ""
	if _, err := scriptSource(nil); err == nil {
		t.Fatal("expected an error when neither a file nor -e is given")
	}
}
