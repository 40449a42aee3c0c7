package util

import (
	"math"
	"testing"
)

func TestSame(t *testing.T) {
	m := map[string]any{"a": 1}
	other := map[string]any{"a": 1}
	s := []any{1, 2}
	p := &struct{ X int }{1}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nil nil", nil, nil, true},
		{"nil value", nil, 0, false},
		{"equal ints", 1, 1, true},
		{"different ints", 1, 2, false},
		{"number vs string", 1.0, "1", false},
		{"int vs float", 1, 1.0, false},
		{"equal strings", "x", "x", true},
		{"same map", m, m, true},
		{"equal but distinct maps", m, other, false},
		{"same slice", s, s, true},
		{"resliced", s, s[:1], false},
		{"same pointer", p, p, true},
		{"distinct pointers", p, &struct{ X int }{1}, false},
		{"NaN", math.NaN(), math.NaN(), false},
		{"uncomparable struct", struct{ V any }{[]int{1}}, struct{ V any }{[]int{1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Same(tt.a, tt.b); got != tt.want {
				t.Errorf("Same(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"hi", "hi"},
		{2.0, "2"},
		{2.5, "2.5"},
		{7, "7"},
		{true, "true"},
		{math.Inf(1), "Infinity"},
		{map[string]any{"a": 1.0}, "{\n  \"a\": 1\n}"},
		{[]any{1.0, "b"}, "[\n  1,\n  \"b\"\n]"},
	}
	for _, tt := range tests {
		if got := ToString(tt.in); got != tt.want {
			t.Errorf("ToString(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToNumber(t *testing.T) {
	if got := ToNumber("42"); got != 42.0 {
		t.Errorf("ToNumber(42) = %v", got)
	}
	if got := ToNumber(" 1.5 "); got != 1.5 {
		t.Errorf("ToNumber(1.5) = %v", got)
	}
	if got := ToNumber("abc"); got != "abc" {
		t.Errorf("ToNumber(abc) = %v", got)
	}
}

func TestPredicates(t *testing.T) {
	var nilMap map[string]any
	if !IsUndef(nil) || !IsUndef(nilMap) || IsUndef(0) {
		t.Error("IsUndef mismatch")
	}
	if !IsDef("") {
		t.Error("empty string is defined")
	}
	if !IsTrue(true) || IsTrue("true") || !IsFalse(false) || IsFalse(nil) {
		t.Error("IsTrue/IsFalse mismatch")
	}
	if !IsObject(map[string]any{}) || !IsObject([]int{}) || !IsObject(&struct{}{}) || IsObject("x") || IsObject(nilMap) {
		t.Error("IsObject mismatch")
	}
	if !IsPlainObject(map[string]any{}) || IsPlainObject(map[string]int{}) || IsPlainObject(nilMap) {
		t.Error("IsPlainObject mismatch")
	}
	if RawType(nil) != "Null" || RawType([]int{}) != "Slice" || RawType("") != "String" {
		t.Errorf("RawType mismatch: %s %s %s", RawType(nil), RawType([]int{}), RawType(""))
	}
	if !HasOwn(map[string]any{"a": nil}, "a") || HasOwn(map[string]any{}, "a") {
		t.Error("HasOwn mismatch")
	}
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []any{true, 1, -2.5, "x", map[string]any{}, []any{}} {
		if !IsTruthy(v) {
			t.Errorf("IsTruthy(%#v) = false", v)
		}
	}
	var nilSlice []any
	for _, v := range []any{nil, false, 0, 0.0, math.NaN(), "", uint8(0), nilSlice} {
		if IsTruthy(v) {
			t.Errorf("IsTruthy(%#v) = true", v)
		}
	}
}

func TestMakeMap(t *testing.T) {
	isVoid := MakeMap("br,img,input", true)
	if !isVoid("IMG") || !isVoid("br") || isVoid("div") {
		t.Error("case-insensitive MakeMap mismatch")
	}
	exact := MakeMap("a,b", false)
	if exact("A") || !exact("a") {
		t.Error("exact MakeMap mismatch")
	}
}

func TestCached(t *testing.T) {
	calls := 0
	upper := Cached(func(s string) string {
		calls++
		return s + "!"
	})
	for i := 0; i < 3; i++ {
		if got := upper("x"); got != "x!" {
			t.Fatalf("got %q", got)
		}
	}
	upper("y")
	if calls != 2 {
		t.Errorf("expected 2 computations, got %d", calls)
	}
}
