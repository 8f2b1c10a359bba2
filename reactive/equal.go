package reactive

import (
	"math"
	"reflect"
)

// StrictEqual reports identity the way a reactive cell compares old and new
// values: comparable values by ==, so NaN is never equal to itself, and
// reference kinds (maps, slices, funcs, channels) by identity.
func StrictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Comparable() {
		return a == b
	}
	switch va.Kind() {
	case reflect.Slice:
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	case reflect.Map:
		return va.Pointer() == vb.Pointer()
	default:
		return false
	}
}

func isNaN(v any) bool {
	switch f := v.(type) {
	case float64:
		return math.IsNaN(f)
	case float32:
		return math.IsNaN(float64(f))
	}
	return false
}

// unchanged is the cell write guard: identical values, or NaN replaced by NaN.
func unchanged(newValue, oldValue any) bool {
	return StrictEqual(newValue, oldValue) || (isNaN(newValue) && isNaN(oldValue))
}

func isComparable(v any) bool {
	return v == nil || reflect.ValueOf(v).Comparable()
}
