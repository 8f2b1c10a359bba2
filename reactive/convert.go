package reactive

import "sort"

// FromGo converts decoded JSON-like values into containers: map[string]any
// becomes an *Object with sorted keys, []any an *Array. Other values are
// returned unchanged.
func FromGo(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		o := NewObject()
		for _, k := range keys {
			o.Set(k, FromGo(t[k]))
		}
		return o
	case []any:
		a := &Array{items: make([]any, len(t))}
		for i, item := range t {
			a.items[i] = FromGo(item)
		}
		return a
	default:
		return v
	}
}

// ToGo converts containers back into maps and slices. Reads go through the
// accessors, so calling it inside an evaluation tracks the whole tree. The
// graph must be acyclic.
func ToGo(v any) any {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return nil
		}
		m := make(map[string]any, t.Len())
		for _, k := range t.Keys() {
			m[k] = ToGo(t.Get(k))
		}
		return m
	case *Array:
		if t == nil {
			return nil
		}
		out := make([]any, len(t.items))
		for i, item := range t.items {
			out[i] = ToGo(item)
		}
		return out
	default:
		return v
	}
}
