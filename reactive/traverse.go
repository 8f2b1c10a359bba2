package reactive

import mapset "github.com/deckarep/golang-set/v2"

// traverse reads every nested property of val so the current target depends
// on all of them. Observer deps already visited are skipped, which also
// breaks reference cycles.
func traverse(val any) {
	seen := mapset.NewThreadUnsafeSet[uint64]()
	traverseInto(val, seen)
}

func traverseInto(val any, seen mapset.Set[uint64]) {
	c := asContainer(val)
	if c == nil {
		return
	}
	h := c.base()
	if h.nonExtensible {
		return
	}
	if ob := h.ob; ob != nil {
		if seen.Contains(ob.dep.id) {
			return
		}
		seen.Add(ob.dep.id)
	}

	switch v := val.(type) {
	case *Array:
		for _, item := range v.items {
			traverseInto(item, seen)
		}
	case *Object:
		for _, key := range v.Keys() {
			traverseInto(v.Get(key), seen)
		}
	}
}
