package reactive

import (
	"fmt"
	"strconv"
)

// Set assigns key on target and makes it reactive when it is new. It is the
// only way to add a tracked key after observation: accessor-based readers
// that ran before the key existed learn about it through the container dep.
// Array targets take integer indexes and grow as needed.
func Set(rt *Runtime, target any, key any, val any) (any, error) {
	switch t := asContainer(target).(type) {
	case *Array:
		idx, ok := arrayIndex(key)
		if !ok {
			rt.warn("Cannot set non-index key %v on an array", key)
			return val, nil
		}
		t.SetLength(max(t.Len(), idx))
		if _, err := t.Splice(idx, 1, val); err != nil {
			return val, fmt.Errorf("set index %d: %w", idx, err)
		}
		return val, nil

	case *Object:
		k := propertyKey(key)
		if t.Has(k) {
			return val, t.Set(k, val)
		}
		ob := t.ob
		if t.instance || (ob != nil && ob.rootCount > 0) {
			rt.warn("Avoid adding reactive properties to an instance or its root data at runtime - declare %q upfront", k)
			return val, nil
		}
		if t.nonExtensible {
			rt.warn("Cannot add property %q, object is not extensible", k)
			return val, nil
		}
		if ob == nil {
			return val, t.Set(k, val)
		}
		if err := defineReactive(rt, t, k, val, true, nil, false); err != nil {
			return val, fmt.Errorf("set %q: %w", k, err)
		}
		return val, ob.dep.Notify()

	default:
		rt.warn("Cannot set reactive property on undefined, null, or primitive value: %v", target)
		return val, nil
	}
}

// Delete removes key from target and notifies readers of the container.
func Delete(rt *Runtime, target any, key any) error {
	switch t := asContainer(target).(type) {
	case *Array:
		idx, ok := arrayIndex(key)
		if !ok {
			return nil
		}
		if _, err := t.Splice(idx, 1); err != nil {
			return fmt.Errorf("delete index %d: %w", idx, err)
		}
		return nil

	case *Object:
		k := propertyKey(key)
		ob := t.ob
		if t.instance || (ob != nil && ob.rootCount > 0) {
			rt.warn("Avoid deleting properties on an instance or its root data - set %q to nil instead", k)
			return nil
		}
		if !t.Has(k) {
			return nil
		}
		if _, err := t.Delete(k); err != nil {
			return fmt.Errorf("delete %q: %w", k, err)
		}
		if ob == nil {
			return nil
		}
		return ob.dep.Notify()

	default:
		rt.warn("Cannot delete reactive property on undefined, null, or primitive value: %v", target)
		return nil
	}
}

// arrayIndex accepts non-negative integers of any width and decimal strings.
func arrayIndex(key any) (int, bool) {
	var n int64
	switch k := key.(type) {
	case int:
		n = int64(k)
	case int8:
		n = int64(k)
	case int16:
		n = int64(k)
	case int32:
		n = int64(k)
	case int64:
		n = k
	case uint:
		n = int64(k)
	case uint8:
		n = int64(k)
	case uint16:
		n = int64(k)
	case uint32:
		n = int64(k)
	case uint64:
		n = int64(k)
	case float64:
		if k != float64(int64(k)) {
			return 0, false
		}
		n = int64(k)
	case string:
		parsed, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if n < 0 || n > int64(^uint32(0)) {
		return 0, false
	}
	return int(n), true
}

func propertyKey(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case fmt.Stringer:
		return k.String()
	default:
		return fmt.Sprint(k)
	}
}
