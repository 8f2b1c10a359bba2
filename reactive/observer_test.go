package reactive_test

import (
	"testing"

	"github.com/delaneyj/deepwatch/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSkipsNonContainers(t *testing.T) {
	rt := newRuntime(t)

	assert.Nil(t, reactive.Observe(rt, 1, false))
	assert.Nil(t, reactive.Observe(rt, "s", false))
	assert.Nil(t, reactive.Observe(rt, nil, false))
	assert.Nil(t, reactive.Observe(rt, map[string]any{"a": 1}, false))
	assert.Nil(t, reactive.Observe(rt, (*reactive.Object)(nil), false))

	raw := reactive.ObjectOf("a", 1)
	raw.MarkRaw()
	assert.Nil(t, reactive.Observe(rt, raw, false))

	sealed := reactive.NewArray(1)
	sealed.PreventExtensions()
	assert.Nil(t, reactive.Observe(rt, sealed, false))
}

func TestObserveIsIdempotent(t *testing.T) {
	rt := newRuntime(t)
	obj := reactive.ObjectOf("a", 1)

	ob := reactive.Observe(rt, obj, false)
	require.NotNil(t, ob)
	assert.Same(t, ob, reactive.Observe(rt, obj, false))
	assert.Same(t, ob, obj.Observer())
	assert.Same(t, obj, ob.Value())
	assert.Equal(t, 0, ob.RootCount())

	reactive.Observe(rt, obj, true)
	reactive.Observe(rt, obj, true)
	assert.Equal(t, 2, ob.RootCount())
}

func TestTrackingToggle(t *testing.T) {
	rt := newRuntime(t)
	seen := reactive.ObjectOf("a", 1)
	require.NotNil(t, reactive.Observe(rt, seen, false))

	rt.SetTrackingEnabled(false)
	assert.False(t, rt.TrackingEnabled())
	assert.Nil(t, reactive.Observe(rt, reactive.ObjectOf("b", 1), false))
	assert.NotNil(t, reactive.Observe(rt, seen, false))

	rt.SetTrackingEnabled(true)
	assert.NotNil(t, reactive.Observe(rt, reactive.ObjectOf("b", 1), false))
}

func TestObserveNestedAndCyclic(t *testing.T) {
	rt := newRuntime(t)
	a := reactive.ObjectOf("name", "a")
	b := reactive.ObjectOf("name", "b", "peer", a)
	require.NoError(t, a.Set("peer", b))
	list := reactive.NewArray(a, reactive.NewArray(b))
	root := reactive.ObjectOf("list", list)

	require.NotNil(t, reactive.Observe(rt, root, false))
	assert.NotNil(t, list.Observer())
	assert.NotNil(t, a.Observer())
	assert.NotNil(t, b.Observer())
	assert.NotNil(t, list.At(1).(*reactive.Array).Observer())
}

// non-configurable properties are left untouched, not an error
func TestNonConfigurablePropertySkipped(t *testing.T) {
	rt := newRuntime(t)
	obj := reactive.ObjectOf("a", 1)
	require.NoError(t, obj.DefineProperty("fixed", reactive.Descriptor{
		Value: 1, Writable: true, Enumerable: true,
	}))
	reactive.Observe(rt, obj, false)

	d, ok := obj.OwnProperty("fixed")
	require.True(t, ok)
	assert.Nil(t, d.Get)
	assert.False(t, d.Configurable)

	runs := 0
	_, err := reactive.NewWatcher(rt, obj, func() any {
		runs++
		return obj.Get("fixed")
	}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, obj.Set("fixed", 2))
	assert.Equal(t, 2, obj.Get("fixed"))
	assert.Equal(t, 1, runs)
}

func TestUserAccessorsAreWrapped(t *testing.T) {
	rt := newRuntime(t)
	backing := 1
	setterCalls := 0
	obj := reactive.NewObject()
	require.NoError(t, obj.DefineProperty("v", reactive.Descriptor{
		Get: func() any { return backing },
		Set: func(v any) error {
			setterCalls++
			backing = v.(int)
			return nil
		},
		Enumerable:   true,
		Configurable: true,
	}))
	require.NoError(t, obj.DefineProperty("ro", reactive.Descriptor{
		Get:          func() any { return backing * 10 },
		Enumerable:   true,
		Configurable: true,
	}))
	reactive.Observe(rt, obj, false)

	runs := 0
	w, err := reactive.NewWatcher(rt, obj, func() any {
		runs++
		return obj.Get("v").(int) + obj.Get("ro").(int)
	}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 11, w.Value())

	require.NoError(t, obj.Set("v", 2))
	assert.Equal(t, 1, setterCalls)
	assert.Equal(t, 2, backing)
	assert.Equal(t, 22, w.Value())
	assert.Equal(t, 2, runs)

	// getter without setter: writes are ignored and notify nobody
	require.NoError(t, obj.Set("ro", 99))
	assert.Equal(t, 20, obj.Get("ro"))
	assert.Equal(t, 2, runs)
}

// a container held behind a getter/setter pair is observed, so in-place
// mutations reach readers of the property
func TestUserAccessorContainerIsObserved(t *testing.T) {
	rt := newRuntime(t)
	backing := reactive.NewArray(1, 2)
	obj := reactive.NewObject()
	require.NoError(t, obj.DefineProperty("list", reactive.Descriptor{
		Get: func() any { return backing },
		Set: func(v any) error {
			backing = v.(*reactive.Array)
			return nil
		},
		Enumerable:   true,
		Configurable: true,
	}))
	reactive.Observe(rt, obj, false)
	assert.NotNil(t, backing.Observer())

	runs := 0
	w, err := reactive.NewWatcher(rt, obj, func() any {
		runs++
		return obj.Get("list").(*reactive.Array).Len()
	}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, w.Value())

	_, err = backing.Push(3)
	require.NoError(t, err)
	assert.Equal(t, 2, runs)
	assert.Equal(t, 3, w.Value())
}

func TestDefineReactiveOnNonExtensible(t *testing.T) {
	rt := newRuntime(t)
	obj := reactive.ObjectOf("a", 1)
	obj.PreventExtensions()

	err := reactive.DefineReactive(rt, obj, "b", 2, nil, false)
	assert.ErrorIs(t, err, reactive.ErrNotExtensible)
	assert.False(t, obj.Has("b"))

	// existing keys can still be made reactive
	require.NoError(t, reactive.DefineReactive(rt, obj, "a", 3, nil, false))
	assert.Equal(t, 3, obj.Get("a"))
}

func TestDefineReactiveCustomSetterAndShallow(t *testing.T) {
	rt := newRuntime(t)
	obj := reactive.NewObject()

	assigned := 0
	require.NoError(t, reactive.DefineReactive(rt, obj, "deep", reactive.ObjectOf("x", 1), func() { assigned++ }, false))
	require.NoError(t, reactive.DefineReactive(rt, obj, "shallow", reactive.ObjectOf("x", 1), nil, true))

	assert.NotNil(t, obj.Get("deep").(*reactive.Object).Observer())
	assert.Nil(t, obj.Get("shallow").(*reactive.Object).Observer())

	require.NoError(t, obj.Set("deep", 5))
	require.NoError(t, obj.Set("deep", 5))
	assert.Equal(t, 1, assigned)

	next := reactive.ObjectOf("y", 2)
	require.NoError(t, obj.Set("shallow", next))
	assert.Nil(t, next.Observer())
}

// replacing an element deep inside an array is seen by readers of the
// enclosing property through the element's own dep
func TestArrayElementDependency(t *testing.T) {
	rt := newRuntime(t)
	item := reactive.ObjectOf("done", false)
	inner := reactive.NewArray(reactive.ObjectOf("z", 0))
	state := reactive.ObjectOf("items", reactive.NewArray(item, inner))
	reactive.Observe(rt, state, false)

	runs := 0
	_, err := reactive.NewWatcher(rt, state, func() any {
		runs++
		return state.Get("items").(*reactive.Array).Len()
	}, nil, nil)
	require.NoError(t, err)

	_, err = reactive.Set(rt, item, "note", "new key")
	require.NoError(t, err)
	assert.Equal(t, 2, runs)

	_, err = reactive.Set(rt, inner.At(0), "extra", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, runs)
}
