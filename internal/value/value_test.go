package value

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestEqual_SameKind(t *testing.T) {
	if !Equal(NumberFromInt(5), Number(decimal.NewFromInt(5))) {
		t.Error("expected equal numbers")
	}
	if Equal(NumberFromInt(5), NumberFromInt(6)) {
		t.Error("expected unequal numbers")
	}
	if !Equal(String("a"), String("a")) {
		t.Error("expected equal strings")
	}
	if !Equal(Null, Null) {
		t.Error("expected Null == Null")
	}
}

func TestEqual_DifferentKindNeverEqual(t *testing.T) {
	if Equal(NumberFromInt(1), String("1")) {
		t.Error("cross-kind should not be equal at the value.Equal layer")
	}
}

func TestTruthy_BoolAndNull(t *testing.T) {
	if ok, valid := Bool(true).Truthy(); !ok || !valid {
		t.Error("expected true, valid")
	}
	if ok, valid := Null.Truthy(); ok || !valid {
		t.Error("expected false, valid for Null")
	}
	if _, valid := NumberFromInt(1).Truthy(); valid {
		t.Error("expected Number to be invalid for Truthy")
	}
}

func TestString_Rendering(t *testing.T) {
	if Bool(true).String() != "true" {
		t.Error("bool rendering")
	}
	if NumberFromInt(42).String() != "42" {
		t.Error("number rendering")
	}
	dt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if DateTime(dt).String() == "" {
		t.Error("datetime rendering should not be empty")
	}
}
