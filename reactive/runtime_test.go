package reactive_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/delaneyj/deepwatch/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetStack(t *testing.T) {
	rt := reactive.CreateRuntime()
	assert.Nil(t, rt.Target())

	w, err := reactive.NewWatcher(rt, nil, func() any { return nil }, nil, &reactive.WatcherOptions{Lazy: true})
	require.NoError(t, err)

	rt.PushTarget(w)
	assert.Same(t, w, rt.Target())
	rt.PushTarget(nil)
	assert.Nil(t, rt.Target())
	rt.PopTarget()
	assert.Same(t, w, rt.Target())
	rt.PopTarget()
	assert.Nil(t, rt.Target())

	assert.Panics(t, rt.PopTarget)
}

func TestDefaultDiagnosticsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	rt := reactive.CreateRuntime(reactive.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	_, err := reactive.Set(rt, 1, "a", 1)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "primitive value")

	buf.Reset()
	state := reactive.ObjectOf("a", 1)
	reactive.Observe(rt, state, false)
	_, err = reactive.NewWatcher(rt, state, func() (any, error) {
		if state.Get("a") == 2 {
			return nil, errors.New("kaput")
		}
		return nil, nil
	}, nil, &reactive.WatcherOptions{User: true})
	require.NoError(t, err)
	require.NoError(t, state.Set("a", 2))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "kaput")
}

func TestFromGoToGo(t *testing.T) {
	in := map[string]any{
		"b": []any{1.0, map[string]any{"c": "d"}},
		"a": true,
	}
	v := reactive.FromGo(in)
	obj, ok := v.(*reactive.Object)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	assert.IsType(t, &reactive.Array{}, obj.Get("b"))

	assert.Equal(t, in, reactive.ToGo(obj))
	assert.Equal(t, 3, reactive.FromGo(3))
}
