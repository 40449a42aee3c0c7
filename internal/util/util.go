// Package util holds the small leaf helpers shared by the reactive engine,
// the template compiler and the renderer: type predicates, strict identity
// comparison, string/number coercion and a memoizing wrapper.
package util

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// IsUndef reports whether v carries no value.
func IsUndef(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// IsDef is the negation of IsUndef.
func IsDef(v any) bool { return !IsUndef(v) }

// IsTrue reports whether v is the boolean true.
func IsTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// IsFalse reports whether v is the boolean false.
func IsFalse(v any) bool {
	b, ok := v.(bool)
	return ok && !b
}

// IsTruthy reports whether v counts as true in a condition: nil, false,
// zero numbers, NaN and the empty string are falsy, everything else is
// truthy.
func IsTruthy(v any) bool {
	if IsUndef(v) {
		return false
	}
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	}
	return true
}

// IsObject reports whether v is a non-nil composite value: a map, slice,
// array, struct or a pointer to one of those.
func IsObject(v any) bool {
	if IsUndef(v) {
		return false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	}
	return false
}

// IsPlainObject reports whether v is a non-nil map[string]any, the only
// composite shape the store observer converts into reactive cells.
func IsPlainObject(v any) bool {
	m, ok := v.(map[string]any)
	return ok && m != nil
}

// RawType returns a short name for the dynamic kind of v, e.g. "Map",
// "Slice", "String" or "Null".
func RawType(v any) string {
	if v == nil {
		return "Null"
	}
	k := reflect.TypeOf(v).Kind().String()
	return strings.ToUpper(k[:1]) + k[1:]
}

// HasOwn reports whether m has key.
func HasOwn(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

// Same reports whether a and b are strictly the same value: primitives
// compare by value, reference kinds (maps, slices, pointers, funcs) compare
// by identity. Values of different dynamic types are never the same, and NaN
// is never the same as itself.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	switch ta.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if !ta.Comparable() {
		return false
	}
	return safeEqual(a, b)
}

// safeEqual compares two comparable values. Structs or arrays holding
// uncomparable dynamic values panic under ==; those are treated as distinct.
func safeEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// ToString renders v the way a bound UI property displays it: nil is empty,
// strings are kept, numbers use the shortest representation and composites
// are pretty-printed JSON.
func ToString(v any) string {
	if IsUndef(v) {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatFloat(x, 64)
	case float32:
		return formatFloat(float64(x), 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return x.String()
	case interface{ String() string }:
		if !IsObject(v) {
			return x.String()
		}
	}
	if IsObject(v) {
		b, err := json.MarshalIndent(v, "", "  ")
		if err == nil {
			return string(b)
		}
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

// ToNumber converts s to a float64 when it parses as one and returns s
// unchanged otherwise.
func ToNumber(s string) any {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return s
	}
	return n
}

// MakeMap builds a membership test over a comma-separated list.
func MakeMap(list string, expectsLowerCase bool) func(string) bool {
	set := make(map[string]struct{})
	for _, item := range strings.Split(list, ",") {
		set[item] = struct{}{}
	}
	if expectsLowerCase {
		return func(v string) bool {
			_, ok := set[strings.ToLower(v)]
			return ok
		}
	}
	return func(v string) bool {
		_, ok := set[v]
		return ok
	}
}

// Cached wraps fn so each distinct input is computed once. The returned
// function is safe for concurrent use.
func Cached[T any](fn func(string) T) func(string) T {
	var (
		mu    sync.RWMutex
		cache = make(map[string]T)
	)
	return func(s string) T {
		mu.RLock()
		v, ok := cache[s]
		mu.RUnlock()
		if ok {
			return v
		}
		v = fn(s)
		mu.Lock()
		cache[s] = v
		mu.Unlock()
		return v
	}
}
