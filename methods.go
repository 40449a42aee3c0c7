package vbind

import (
	"encoding/json"
	"maps"
	"math"

	"github.com/vango-dev/vbind/internal/util"
)

// StdMethods returns the built-in method set, which makes templates
// interactive without Go code:
//
//	set(key, value)  writes value to key
//	inc(key[, n])    adds n (default 1) to a numeric key
//	toggle(key)      negates the truthiness of key
//	log(args...)     logs its arguments at Info level
//
// The result is a fresh map; callers may add their own methods to it.
func StdMethods() map[string]Method {
	return map[string]Method{
		"set":    setMethod,
		"inc":    incMethod,
		"toggle": toggleMethod,
		"log":    logMethod,
	}
}

// WithStdMethods returns methods merged over the built-in set.
func WithStdMethods(methods map[string]Method) map[string]Method {
	out := StdMethods()
	maps.Copy(out, methods)
	return out
}

func setMethod(vm *VM, args ...any) {
	if len(args) != 2 {
		vm.logger.Warn("set expects (key, value)", "args", args)
		return
	}
	vm.Set(util.ToString(args[0]), args[1])
}

func incMethod(vm *VM, args ...any) {
	if len(args) < 1 || len(args) > 2 {
		vm.logger.Warn("inc expects (key[, n])", "args", args)
		return
	}
	key := util.ToString(args[0])
	var step any = 1
	if len(args) == 2 {
		step = args[1]
	}
	sum, ok := addNumbers(vm.Get(key), step)
	if !ok {
		vm.logger.Warn("inc on a non-numeric value", "key", key, "value", vm.Get(key), "step", step)
		return
	}
	vm.Set(key, sum)
}

func toggleMethod(vm *VM, args ...any) {
	if len(args) != 1 {
		vm.logger.Warn("toggle expects (key)", "args", args)
		return
	}
	key := util.ToString(args[0])
	vm.Set(key, !util.IsTruthy(vm.Get(key)))
}

func logMethod(vm *VM, args ...any) {
	vm.logger.Info("template log", "args", args)
}

// addNumbers adds two numeric values. Integer operands are added
// natively; integer sums stay integers when both operands are whole;
// anything else is computed in float64. A nil current value counts as
// zero.
func addNumbers(cur, step any) (any, bool) {
	if cur == nil {
		cur = 0
	}
	if b, ok := toInt64(step); ok {
		switch x := cur.(type) {
		case int:
			return x + int(b), true
		case int64:
			return x + b, true
		}
	}
	a, aInt, ok := toNumber(cur)
	if !ok {
		return nil, false
	}
	b, bInt, ok := toNumber(step)
	if !ok {
		return nil, false
	}
	if aInt && bInt {
		switch cur.(type) {
		case int:
			return int(a + b), true
		case int64:
			return int64(a + b), true
		}
	}
	return a + b, true
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int64:
		return x, true
	case int32:
		return int64(x), true
	}
	return 0, false
}

// toNumber converts v to float64 and reports whether it is a whole number.
func toNumber(v any) (f float64, whole bool, ok bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true, true
	case int64:
		return float64(x), true, true
	case int32:
		return float64(x), true, true
	case uint64:
		return float64(x), true, true
	case float32:
		f = float64(x)
	case float64:
		f = x
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false, false
		}
		f = n
	case string:
		n, isNum := util.ToNumber(x).(float64)
		if !isNum {
			return 0, false, false
		}
		f = n
	default:
		return 0, false, false
	}
	return f, f == math.Trunc(f) && !math.IsInf(f, 0), true
}
