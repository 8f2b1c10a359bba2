package reactive

import (
	"fmt"
	"sort"
)

// Array is an ordered list container. Element reads through At are not
// intercepted; readers depend on the array as a whole, which is why the seven
// mutators below notify the array's own dep once observed.
type Array struct {
	header
	items []any
}

func NewArray(items ...any) *Array {
	a := &Array{items: make([]any, len(items))}
	copy(a.items, items)
	return a
}

func (a *Array) Len() int {
	return len(a.items)
}

// At returns the element at i, nil when out of range.
func (a *Array) At(i int) any {
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Values returns a copy of the elements.
func (a *Array) Values() []any {
	out := make([]any, len(a.items))
	copy(out, a.items)
	return out
}

// SetIndex writes an element directly, growing the array with nils. It is not
// reactive; use Set for a tracked write.
func (a *Array) SetIndex(i int, v any) {
	if i < 0 {
		return
	}
	if i >= len(a.items) {
		a.SetLength(i + 1)
	}
	a.items[i] = v
}

// SetLength truncates or pads the array with nils. Not reactive.
func (a *Array) SetLength(n int) {
	if n < 0 {
		n = 0
	}
	switch {
	case n < len(a.items):
		clear(a.items[n:])
		a.items = a.items[:n]
	case n > len(a.items):
		a.items = append(a.items, make([]any, n-len(a.items))...)
	}
}

func (a *Array) Push(items ...any) (int, error) {
	a.items = append(a.items, items...)
	return len(a.items), a.mutated(items)
}

func (a *Array) Pop() (any, error) {
	if len(a.items) == 0 {
		return nil, a.mutated(nil)
	}
	last := len(a.items) - 1
	v := a.items[last]
	a.items[last] = nil
	a.items = a.items[:last]
	return v, a.mutated(nil)
}

func (a *Array) Shift() (any, error) {
	if len(a.items) == 0 {
		return nil, a.mutated(nil)
	}
	v := a.items[0]
	copy(a.items, a.items[1:])
	a.items[len(a.items)-1] = nil
	a.items = a.items[:len(a.items)-1]
	return v, a.mutated(nil)
}

func (a *Array) Unshift(items ...any) (int, error) {
	next := make([]any, 0, len(items)+len(a.items))
	next = append(next, items...)
	a.items = append(next, a.items...)
	return len(a.items), a.mutated(items)
}

// Splice removes deleteCount elements at start, inserts items there and
// returns the removed elements. A negative start counts from the end; both
// arguments are clamped to the array bounds.
func (a *Array) Splice(start, deleteCount int, items ...any) ([]any, error) {
	n := len(a.items)
	if start < 0 {
		start = max(n+start, 0)
	} else {
		start = min(start, n)
	}
	deleteCount = min(max(deleteCount, 0), n-start)

	removed := make([]any, deleteCount)
	copy(removed, a.items[start:start+deleteCount])

	next := make([]any, 0, n-deleteCount+len(items))
	next = append(next, a.items[:start]...)
	next = append(next, items...)
	next = append(next, a.items[start+deleteCount:]...)
	a.items = next

	return removed, a.mutated(items)
}

// Sort sorts in place with a stable sort. A nil less compares the elements'
// default string forms, nils last.
func (a *Array) Sort(less func(x, y any) bool) (*Array, error) {
	if less == nil {
		less = defaultLess
	}
	sort.SliceStable(a.items, func(i, j int) bool {
		return less(a.items[i], a.items[j])
	})
	return a, a.mutated(nil)
}

func (a *Array) Reverse() (*Array, error) {
	for i, j := 0, len(a.items)-1; i < j; i, j = i+1, j-1 {
		a.items[i], a.items[j] = a.items[j], a.items[i]
	}
	return a, a.mutated(nil)
}

// mutated is the instrumentation shared by every mutator: observe inserted
// elements, then notify readers of the array. Unobserved arrays behave like
// plain slices.
func (a *Array) mutated(inserted []any) error {
	ob := a.ob
	if ob == nil {
		return nil
	}
	if len(inserted) > 0 {
		ob.observeItems(inserted)
	}
	return ob.dep.Notify()
}

func defaultLess(x, y any) bool {
	if y == nil {
		return x != nil
	}
	if x == nil {
		return false
	}
	return fmt.Sprint(x) < fmt.Sprint(y)
}
