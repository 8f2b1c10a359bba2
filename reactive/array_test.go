package reactive_test

import (
	"testing"

	"github.com/delaneyj/deepwatch/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func watchLen(t *testing.T, rt *reactive.Runtime, state *reactive.Object, key string) *int {
	runs := new(int)
	_, err := reactive.NewWatcher(rt, state, func() any {
		*runs++
		return state.Get(key).(*reactive.Array).Len()
	}, nil, nil)
	require.NoError(t, err)
	return runs
}

func TestArrayPushNotifiesAndObserves(t *testing.T) {
	rt := newRuntime(t)
	list := reactive.NewArray(1, 2)
	state := reactive.ObjectOf("list", list)
	reactive.Observe(rt, state, false)
	runs := watchLen(t, rt, state, "list")

	obj := reactive.ObjectOf("x", 1)
	n, err := list.Push(obj)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, *runs)
	assert.NotNil(t, obj.Observer())
}

func TestArrayMutatorsKeepNativeResults(t *testing.T) {
	rt := newRuntime(t)
	list := reactive.NewArray(3, 1, 2)
	state := reactive.ObjectOf("list", list)
	reactive.Observe(rt, state, false)
	runs := watchLen(t, rt, state, "list")

	v, err := list.Pop()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	v, err = list.Shift()
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	n, err := list.Unshift("a", "b")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []any{"a", "b", 1}, list.Values())

	removed, err := list.Splice(-2, 1, "x", "y")
	require.NoError(t, err)
	assert.Equal(t, []any{"b"}, removed)
	assert.Equal(t, []any{"a", "x", "y", 1}, list.Values())

	sorted, err := list.Sort(nil)
	require.NoError(t, err)
	assert.Same(t, list, sorted)
	assert.Equal(t, []any{1, "a", "x", "y"}, list.Values())

	reversed, err := list.Reverse()
	require.NoError(t, err)
	assert.Same(t, list, reversed)
	assert.Equal(t, []any{"y", "x", "a", 1}, list.Values())

	assert.Equal(t, 7, *runs)
}

func TestArrayEdgeCases(t *testing.T) {
	t.Run("pop on empty still notifies", func(t *testing.T) {
		rt := newRuntime(t)
		list := reactive.NewArray()
		state := reactive.ObjectOf("list", list)
		reactive.Observe(rt, state, false)
		runs := watchLen(t, rt, state, "list")

		v, err := list.Pop()
		require.NoError(t, err)
		assert.Nil(t, v)
		assert.Equal(t, 2, *runs)
	})

	t.Run("splice clamps its arguments", func(t *testing.T) {
		list := reactive.NewArray(1, 2, 3)
		removed, err := list.Splice(10, 5, 4)
		require.NoError(t, err)
		assert.Empty(t, removed)
		assert.Equal(t, []any{1, 2, 3, 4}, list.Values())

		removed, err = list.Splice(-10, -1)
		require.NoError(t, err)
		assert.Empty(t, removed)

		removed, err = list.Splice(1, 100)
		require.NoError(t, err)
		assert.Equal(t, []any{2, 3, 4}, removed)
		assert.Equal(t, []any{1}, list.Values())
	})

	t.Run("sort with custom order", func(t *testing.T) {
		list := reactive.NewArray(3, 1, 2)
		_, err := list.Sort(func(x, y any) bool { return x.(int) > y.(int) })
		require.NoError(t, err)
		assert.Equal(t, []any{3, 2, 1}, list.Values())
	})

	t.Run("unobserved arrays do not notify", func(t *testing.T) {
		list := reactive.NewArray()
		n, err := list.Push(reactive.ObjectOf("a", 1))
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Nil(t, list.At(0).(*reactive.Object).Observer())
	})

	t.Run("raw index writes are not tracked", func(t *testing.T) {
		rt := newRuntime(t)
		list := reactive.NewArray(1)
		state := reactive.ObjectOf("list", list)
		reactive.Observe(rt, state, false)
		runs := watchLen(t, rt, state, "list")

		list.SetIndex(3, "v")
		assert.Equal(t, 4, list.Len())
		assert.Equal(t, 1, *runs)
	})
}

func TestSetArrayIndexExtendsLength(t *testing.T) {
	rt := newRuntime(t)
	list := reactive.NewArray(1, 2, 3)
	state := reactive.ObjectOf("list", list)
	reactive.Observe(rt, state, false)
	runs := watchLen(t, rt, state, "list")

	v, err := reactive.Set(rt, list, 100, "v")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
	assert.Equal(t, 101, list.Len())
	assert.Equal(t, "v", list.At(100))
	assert.Nil(t, list.At(50))
	assert.Equal(t, 2, *runs)

	_, err = reactive.Set(rt, list, "1", reactive.ObjectOf("x", 1))
	require.NoError(t, err)
	assert.Equal(t, 101, list.Len())
	assert.NotNil(t, list.At(1).(*reactive.Object).Observer())
	assert.Equal(t, 3, *runs)

	require.NoError(t, reactive.Delete(rt, list, 0))
	assert.Equal(t, 100, list.Len())
	assert.Equal(t, 4, *runs)
}
