package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/delaneyj/deepwatch/cmd/rxtrace/templates"
	"github.com/delaneyj/deepwatch/reactive"
	"github.com/delaneyj/deepwatch/scheduler"
)

var errUnknownOp = errors.New("unknown operation")

// tracer applies mutations to a reactive copy of a JSON document and records
// which watchers fire for each one.
type tracer struct {
	rt    *reactive.Runtime
	queue *scheduler.Queue
	root  *reactive.Object
	trace *templates.Trace

	pending []templates.Event
}

func newTracer(source string, state any, sync bool) (*tracer, error) {
	root, ok := reactive.FromGo(state).(*reactive.Object)
	if !ok {
		return nil, fmt.Errorf("state must be a JSON object, got %T", state)
	}
	t := &tracer{
		queue: scheduler.New(),
		root:  root,
		trace: &templates.Trace{Source: source, Sync: sync},
	}
	t.rt = reactive.CreateRuntime(
		reactive.WithScheduler(t.queue),
		reactive.WithWarnHandler(func(msg string, args ...any) {
			t.trace.Warnings = append(t.trace.Warnings, fmt.Sprintf(msg, args...))
		}),
		reactive.WithErrorHandler(func(err error, w *reactive.Watcher, info string) {
			if w != nil {
				info += " " + w.Expression()
			}
			t.trace.Warnings = append(t.trace.Warnings, fmt.Sprintf("%s: %v", info, err))
		}),
	)
	reactive.Observe(t.rt, root, false)
	return t, nil
}

func (t *tracer) watch(path string, deep bool) error {
	_, err := reactive.NewWatcher(t.rt, t.root, path, func(newValue, oldValue any) error {
		t.pending = append(t.pending, templates.Event{
			Path: path,
			Old:  encode(oldValue),
			New:  encode(newValue),
		})
		return nil
	}, &reactive.WatcherOptions{User: true, Deep: deep, Sync: t.trace.Sync})
	if err != nil {
		return fmt.Errorf("watch %q: %w", path, err)
	}
	t.trace.Watches = append(t.trace.Watches, path)
	t.trace.Deep = t.trace.Deep || deep
	return nil
}

// apply runs one operation of the form "<verb> <path> [json]" and flushes the
// queue afterwards. Failures are recorded on the step rather than returned.
func (t *tracer) apply(op string) {
	step := templates.Step{Op: op}
	err := t.mutate(op)
	if err == nil && !t.trace.Sync {
		err = t.queue.Flush()
	}
	if err != nil {
		step.Err = err.Error()
	}
	step.Events = t.pending
	t.pending = nil
	t.trace.Steps = append(t.trace.Steps, step)
}

func (t *tracer) mutate(op string) error {
	parts := strings.SplitN(strings.TrimSpace(op), " ", 3)
	verb, path, raw := parts[0], "", ""
	if len(parts) > 1 {
		path = parts[1]
	}
	if len(parts) > 2 {
		raw = parts[2]
	}

	switch verb {
	case "set":
		parentPath, key := splitPath(path)
		parent, err := t.resolve(parentPath)
		if err != nil {
			return err
		}
		_, err = reactive.Set(t.rt, parent, key, parseValue(raw))
		return err

	case "delete":
		parentPath, key := splitPath(path)
		parent, err := t.resolve(parentPath)
		if err != nil {
			return err
		}
		return reactive.Delete(t.rt, parent, key)
	}

	target, err := t.resolve(path)
	if err != nil {
		return err
	}
	arr, ok := target.(*reactive.Array)
	if !ok {
		return fmt.Errorf("%s: %q is not an array", verb, path)
	}
	switch verb {
	case "push":
		_, err = arr.Push(parseValue(raw))
	case "unshift":
		_, err = arr.Unshift(parseValue(raw))
	case "pop":
		_, err = arr.Pop()
	case "shift":
		_, err = arr.Shift()
	case "reverse":
		_, err = arr.Reverse()
	case "sort":
		_, err = arr.Sort(nil)
	default:
		return fmt.Errorf("%q: %w", verb, errUnknownOp)
	}
	return err
}

func (t *tracer) resolve(path string) (any, error) {
	if path == "" {
		return t.root, nil
	}
	get, err := t.rt.ParsePath(t.root, path)
	if err != nil {
		return nil, fmt.Errorf("path %q: %w", path, err)
	}
	return get()
}

func (t *tracer) finish() *templates.Trace {
	b, err := json.MarshalIndent(reactive.ToGo(t.root), "", "  ")
	if err != nil {
		t.trace.Final = err.Error()
	} else {
		t.trace.Final = string(b)
	}
	return t.trace
}

func splitPath(path string) (parent, key string) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

// parseValue decodes raw as JSON, falling back to the raw string.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return reactive.FromGo(v)
}

func encode(v any) string {
	b, err := json.Marshal(reactive.ToGo(v))
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
