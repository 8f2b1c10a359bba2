package scheduler_test

import (
	"testing"

	"github.com/delaneyj/deepwatch/reactive"
	"github.com/delaneyj/deepwatch/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueBatchesWrites(t *testing.T) {
	q := scheduler.New()
	rt := reactive.CreateRuntime(reactive.WithScheduler(q))
	state := reactive.ObjectOf("a", 1, "b", 1)
	reactive.Observe(rt, state, true)

	runs := 0
	w, err := reactive.NewWatcher(rt, state, func() any {
		runs++
		return state.Get("a").(int) + state.Get("b").(int)
	}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, state.Set("a", 2))
	require.NoError(t, state.Set("b", 3))
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, 1, runs)

	require.NoError(t, q.Flush())
	assert.Equal(t, 2, runs)
	assert.Equal(t, 5, w.Value())
	assert.Equal(t, 0, q.Len())
}

func TestQueueRunsInCreationOrder(t *testing.T) {
	q := scheduler.New()
	rt := reactive.CreateRuntime(reactive.WithScheduler(q))
	state := reactive.ObjectOf("a", 1, "b", 1)
	reactive.Observe(rt, state, false)

	var order []string
	before := func(name string) func() {
		return func() { order = append(order, "before "+name) }
	}
	_, err := reactive.NewWatcher(rt, state, "a", func(_, _ any) error {
		order = append(order, "first")
		return nil
	}, &reactive.WatcherOptions{Before: before("first")})
	require.NoError(t, err)
	_, err = reactive.NewWatcher(rt, state, "b", func(_, _ any) error {
		order = append(order, "second")
		return nil
	}, nil)
	require.NoError(t, err)

	require.NoError(t, state.Set("b", 2))
	require.NoError(t, state.Set("a", 2))
	require.NoError(t, q.Flush())
	assert.Equal(t, []string{"before first", "first", "second"}, order)
}

// a watcher that keeps writing its own input is stopped
func TestQueueDetectsInfiniteLoop(t *testing.T) {
	q := scheduler.New()
	rt := reactive.CreateRuntime(reactive.WithScheduler(q))
	state := reactive.ObjectOf("n", 0)
	reactive.Observe(rt, state, false)

	_, err := reactive.NewWatcher(rt, state, "n", func(newValue, _ any) error {
		return state.Set("n", newValue.(int)+1)
	}, nil)
	require.NoError(t, err)

	require.NoError(t, state.Set("n", 1))
	err = q.Flush()
	assert.ErrorIs(t, err, scheduler.ErrInfiniteUpdate)
	assert.Equal(t, 0, q.Len())
}
