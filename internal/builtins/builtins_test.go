package builtins

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cwbudde/exprlang/internal/errors"
	"github.com/cwbudde/exprlang/internal/token"
	"github.com/cwbudde/exprlang/internal/value"
)

// fakeCtx is a minimal function.Context for unit-testing built-ins in
// isolation from the evaluator.
type fakeCtx struct{}

func (fakeCtx) NewError(code errors.Code, format string, args ...any) error {
	return errors.New(code, token.Position{}, fmt.Sprintf(format, args...))
}
func (fakeCtx) Pos() token.Position { return token.Position{} }

func TestLen_CountsRunesNotBytes(t *testing.T) {
	got, err := Len(fakeCtx{}, []value.Value{value.String("café")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsNumber().IntPart() != 4 {
		t.Errorf("expected 4 runes, got %s", got.AsNumber())
	}
}

func TestConcat_RejectsNonString(t *testing.T) {
	_, err := Concat(fakeCtx{}, []value.Value{value.String("a"), value.NumberFromInt(1)})
	if err == nil {
		t.Fatal("expected type error")
	}
}

func TestSubstring_ClampsOutOfRange(t *testing.T) {
	got, err := Substring(fakeCtx{}, []value.Value{value.String("hello"), value.NumberFromInt(2), value.NumberFromInt(100)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsString() != "llo" {
		t.Errorf("got %q", got.AsString())
	}
}

func TestRound_HalfAwayFromZero(t *testing.T) {
	got, err := Round(fakeCtx{}, []value.Value{value.NumberFromFloat(2.5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsNumber().IntPart() != 3 {
		t.Errorf("expected 3, got %s", got.AsNumber())
	}
}

func TestMinMax(t *testing.T) {
	min, _ := Min(fakeCtx{}, []value.Value{value.NumberFromInt(3), value.NumberFromInt(7)})
	if min.AsNumber().IntPart() != 3 {
		t.Errorf("expected min 3, got %s", min.AsNumber())
	}
	max, _ := Max(fakeCtx{}, []value.Value{value.NumberFromInt(3), value.NumberFromInt(7)})
	if max.AsNumber().IntPart() != 7 {
		t.Errorf("expected max 7, got %s", max.AsNumber())
	}
}

func TestDateAdd(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := DateAdd(fakeCtx{}, []value.Value{value.DateTime(base), value.NumberFromInt(10)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := base.AddDate(0, 0, 10)
	if !got.AsDateTime().Equal(want) {
		t.Errorf("got %v want %v", got.AsDateTime(), want)
	}
}

func TestRegexMatch_BasicPattern(t *testing.T) {
	fn := regexMatch(0)
	got, err := fn(fakeCtx{}, []value.Value{value.String("hello123"), value.String(`\d+`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.AsBool() {
		t.Error("expected match")
	}
}

func TestRegexMatch_InvalidPattern(t *testing.T) {
	fn := regexMatch(0)
	_, err := fn(fakeCtx{}, []value.Value{value.String("x"), value.String("(unterminated")})
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestArityMismatch_Substring(t *testing.T) {
	_, err := Substring(fakeCtx{}, []value.Value{value.String("x")})
	if err == nil {
		t.Fatal("expected arity error")
	}
}

func TestToString_RendersEachKind(t *testing.T) {
	got, err := ToString(fakeCtx{}, []value.Value{value.NumberFromInt(42)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsString() != "42" {
		t.Errorf("got %q", got.AsString())
	}
}

func TestToDecimal_ParsesString(t *testing.T) {
	got, err := ToDecimal(fakeCtx{}, []value.Value{value.String(" 3.5 ")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.AsNumber().Equal(decimal.NewFromFloat(3.5)) {
		t.Errorf("got %s", got.AsNumber())
	}
}

func TestSum_AddsAllArguments(t *testing.T) {
	got, err := Sum(fakeCtx{}, []value.Value{value.NumberFromInt(1), value.NumberFromInt(2), value.NumberFromInt(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsNumber().IntPart() != 6 {
		t.Errorf("expected 6, got %s", got.AsNumber())
	}
}

func TestAverage_DividesByCount(t *testing.T) {
	got, err := Average(fakeCtx{}, []value.Value{value.NumberFromInt(2), value.NumberFromInt(4)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.AsNumber().Equal(decimal.NewFromInt(3)) {
		t.Errorf("expected 3, got %s", got.AsNumber())
	}
}

func TestAverage_RejectsZeroArguments(t *testing.T) {
	if _, err := Average(fakeCtx{}, nil); err == nil {
		t.Fatal("expected arity error for 0 arguments")
	}
}

func TestToDateTime_ParsesRFC3339(t *testing.T) {
	got, err := ToDateTime(fakeCtx{}, []value.Value{value.String("2026-01-02T15:04:05Z")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsDateTime().Year() != 2026 {
		t.Errorf("got %v", got.AsDateTime())
	}
}

func TestFormatDateTime_UsesGoLayout(t *testing.T) {
	dt := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	got, err := FormatDateTime(fakeCtx{}, []value.Value{value.DateTime(dt), value.String("2006-01-02")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsString() != "2026-03-04" {
		t.Errorf("got %q", got.AsString())
	}
}

func TestAddHours_AddsFractionalHours(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fn := addDuration(time.Hour, "AddHours")
	got, err := fn(fakeCtx{}, []value.Value{value.DateTime(base), value.NumberFromFloat(1.5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := base.Add(90 * time.Minute)
	if !got.AsDateTime().Equal(want) {
		t.Errorf("got %v want %v", got.AsDateTime(), want)
	}
}

func TestTimeSpan_ReturnsSeconds(t *testing.T) {
	a := time.Date(2026, 1, 1, 0, 1, 30, 0, time.UTC)
	b := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := TimeSpan(fakeCtx{}, []value.Value{value.DateTime(a), value.DateTime(b)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsNumber().IntPart() != 90 {
		t.Errorf("expected 90 seconds, got %s", got.AsNumber())
	}
}
