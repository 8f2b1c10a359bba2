package reactive

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeyGetter is implemented by anything a path expression can descend into.
type KeyGetter interface {
	Get(key string) any
}

func validPath(path string) bool {
	if path == "" {
		return false
	}
	for _, r := range path {
		switch {
		case r == '.', r == '$', r == '_':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// segments splits path once per runtime and caches the result under the
// path's hash.
func (rt *Runtime) segments(path string) ([]string, bool) {
	if !validPath(path) {
		return nil, false
	}
	h := xxhash.Sum64String(path)
	if segs, ok := rt.paths[h]; ok && strings.Join(segs, ".") == path {
		return segs, true
	}
	segs := strings.Split(path, ".")
	rt.paths[h] = segs
	return segs, true
}

func resolvePath(root any, segs []string) any {
	v := root
	for _, seg := range segs {
		switch t := v.(type) {
		case nil:
			return nil
		case *Array:
			idx, ok := arrayIndex(seg)
			if !ok {
				return nil
			}
			v = t.At(idx)
		case KeyGetter:
			v = t.Get(seg)
		default:
			return nil
		}
	}
	return v
}

// ParsePath returns a getter that resolves path against owner, reading each
// segment through the owner's tracked accessors.
func (rt *Runtime) ParsePath(owner any, path string) (func() (any, error), error) {
	segs, ok := rt.segments(path)
	if !ok {
		return nil, ErrInvalidPath
	}
	return func() (any, error) {
		return resolvePath(owner, segs), nil
	}, nil
}
