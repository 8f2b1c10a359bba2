// Package component is a minimal consumer of the reactive engine: it installs
// data as root state, declares props, computed properties and watches, and
// exposes them on a single instance surface.
package component

import (
	"fmt"
	"sort"
	"strings"

	"github.com/delaneyj/deepwatch/reactive"
)

type ComputedDef struct {
	Get func(inst *Instance) (any, error)
	Set func(inst *Instance, v any) error
	// NoCache re-runs Get on every read instead of memoizing it in a lazy
	// watcher.
	NoCache bool
}

type WatchDef struct {
	Handler   reactive.Callback
	Deep      bool
	Sync      bool
	Immediate bool
}

type Options struct {
	Props     []string
	PropsData map[string]any
	// Data returns the instance's root state, normally an *reactive.Object.
	// It runs with dependency collection disabled.
	Data     func(inst *Instance) (any, error)
	Computed map[string]ComputedDef
	Watch    map[string][]WatchDef
}

// Instance is one component's state surface. Every data, prop and computed
// key is proxied on Proxy, which is flagged as an instance so the mutation
// API refuses to add keys to it at runtime.
type Instance struct {
	rt     *reactive.Runtime
	parent *Instance
	opts   *Options

	proxy *reactive.Object
	data  *reactive.Object
	props *reactive.Object

	watchers         []*reactive.Watcher
	computedWatchers map[string]*reactive.Watcher

	updatingProps bool
	destroyed     bool
}

func New(rt *reactive.Runtime, opts *Options, parent *Instance) (*Instance, error) {
	if opts == nil {
		opts = &Options{}
	}
	inst := &Instance{
		rt:               rt,
		parent:           parent,
		opts:             opts,
		proxy:            reactive.NewObject(),
		props:            reactive.NewObject(),
		computedWatchers: map[string]*reactive.Watcher{},
	}
	inst.proxy.MarkInstance()

	if err := inst.initProps(); err != nil {
		return nil, fmt.Errorf("init props: %w", err)
	}
	if err := inst.initData(); err != nil {
		return nil, fmt.Errorf("init data: %w", err)
	}
	if err := inst.initComputed(); err != nil {
		return nil, fmt.Errorf("init computed: %w", err)
	}
	if err := inst.initWatch(); err != nil {
		return nil, fmt.Errorf("init watch: %w", err)
	}
	return inst, nil
}

func (inst *Instance) Runtime() *reactive.Runtime { return inst.rt }
func (inst *Instance) Parent() *Instance          { return inst.parent }
func (inst *Instance) Proxy() *reactive.Object    { return inst.proxy }
func (inst *Instance) Data() *reactive.Object     { return inst.data }
func (inst *Instance) Props() *reactive.Object    { return inst.props }

func (inst *Instance) Root() *Instance {
	root := inst
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Get reads key through the instance proxy, so watch paths resolve against
// data, props and computed properties alike.
func (inst *Instance) Get(key string) any {
	return inst.proxy.Get(key)
}

func (inst *Instance) Set(key string, v any) error {
	return inst.proxy.Set(key, v)
}

func (inst *Instance) AddWatcher(w *reactive.Watcher) {
	inst.watchers = append(inst.watchers, w)
}

func (inst *Instance) RemoveWatcher(w *reactive.Watcher) {
	for i, existing := range inst.watchers {
		if existing == w {
			inst.watchers = append(inst.watchers[:i], inst.watchers[i+1:]...)
			return
		}
	}
}

func (inst *Instance) Watchers() []*reactive.Watcher {
	out := make([]*reactive.Watcher, len(inst.watchers))
	copy(out, inst.watchers)
	return out
}

// Watch registers a user watcher on expOrFn and returns a function that
// stops it.
func (inst *Instance) Watch(expOrFn any, cb reactive.Callback, def WatchDef) (func(), error) {
	w, err := reactive.NewWatcher(inst.rt, inst, expOrFn, cb, &reactive.WatcherOptions{
		User: true,
		Deep: def.Deep,
		Sync: def.Sync,
	})
	if err != nil {
		return nil, err
	}
	if def.Immediate && cb != nil {
		inst.rt.Untracked(func() {
			if err := cb(w.Value(), nil); err != nil {
				inst.rt.HandleError(err, w, fmt.Sprintf("callback for immediate watcher %q", w.Expression()))
			}
		})
	}
	return w.Teardown, nil
}

// Mount creates the eager watcher that renders the instance. before runs
// ahead of every scheduled re-render.
func (inst *Instance) Mount(render func() (any, error), before func()) (*reactive.Watcher, error) {
	return reactive.NewWatcher(inst.rt, inst, render, nil, &reactive.WatcherOptions{Before: before})
}

// UpdateProps writes new prop values the way a parent re-render does; these
// writes do not trigger the direct-mutation warning.
func (inst *Instance) UpdateProps(values map[string]any) error {
	inst.updatingProps = true
	prev := inst.rt.TrackingEnabled()
	inst.rt.SetTrackingEnabled(false)
	defer func() {
		inst.rt.SetTrackingEnabled(prev)
		inst.updatingProps = false
	}()

	for _, key := range inst.opts.Props {
		v, ok := values[key]
		if !ok {
			continue
		}
		if err := inst.props.Set(key, v); err != nil {
			return fmt.Errorf("update prop %q: %w", key, err)
		}
	}
	return nil
}

func (inst *Instance) Destroy() {
	if inst.destroyed {
		return
	}
	inst.destroyed = true
	for _, w := range inst.Watchers() {
		w.Teardown()
	}
	if ob := inst.data.Observer(); ob != nil {
		ob.ReleaseRoot()
	}
}

func (inst *Instance) Destroyed() bool {
	return inst.destroyed
}

func (inst *Instance) initProps() error {
	isRoot := inst.parent == nil
	if !isRoot {
		prev := inst.rt.TrackingEnabled()
		inst.rt.SetTrackingEnabled(false)
		defer inst.rt.SetTrackingEnabled(prev)
	}

	for _, key := range inst.opts.Props {
		key := key
		value := inst.opts.PropsData[key]
		err := reactive.DefineReactive(inst.rt, inst.props, key, value, func() {
			if !isRoot && !inst.updatingProps {
				inst.rt.Warn("Avoid mutating a prop directly since the value will be overwritten whenever the parent re-renders. Prop being mutated: %q", key)
			}
		}, false)
		if err != nil {
			return fmt.Errorf("prop %q: %w", key, err)
		}
		if !inst.proxy.Has(key) {
			if err := inst.proxyKey(inst.props, key); err != nil {
				return err
			}
		}
	}
	return nil
}

func (inst *Instance) initData() error {
	var data *reactive.Object
	if inst.opts.Data != nil {
		data = inst.getData()
	}
	if data == nil {
		data = reactive.NewObject()
	}
	inst.data = data

	for _, key := range data.Keys() {
		switch {
		case inst.props.Has(key):
			inst.rt.Warn("The data property %q is already declared as a prop. Use prop default value instead.", key)
		case isReserved(key):
		default:
			if err := inst.proxyKey(data, key); err != nil {
				return err
			}
		}
	}
	reactive.Observe(inst.rt, data, true)
	return nil
}

func (inst *Instance) getData() *reactive.Object {
	var (
		v   any
		err error
	)
	inst.rt.Untracked(func() {
		v, err = inst.opts.Data(inst)
	})
	if err != nil {
		inst.rt.HandleError(err, nil, "data()")
		return nil
	}
	obj, ok := v.(*reactive.Object)
	if !ok || obj == nil {
		inst.rt.Warn("data functions should return an object, got %T", v)
		return nil
	}
	return obj
}

func (inst *Instance) initComputed() error {
	for _, key := range sortedKeys(inst.opts.Computed) {
		def := inst.opts.Computed[key]
		getter := func() (any, error) { return nil, nil }
		if def.Get != nil {
			getter = func() (any, error) { return def.Get(inst) }
		} else {
			inst.rt.Warn("Getter is missing for computed property %q.", key)
		}

		w, err := reactive.NewWatcher(inst.rt, inst, getter, nil, &reactive.WatcherOptions{Lazy: true})
		if err != nil {
			return fmt.Errorf("computed %q: %w", key, err)
		}
		inst.computedWatchers[key] = w

		switch {
		case !inst.proxy.Has(key):
			if err := inst.defineComputed(key, def, getter); err != nil {
				return err
			}
		case inst.data.Has(key):
			inst.rt.Warn("The computed property %q is already defined in data.", key)
		case inst.props.Has(key):
			inst.rt.Warn("The computed property %q is already defined as a prop.", key)
		}
	}
	return nil
}

func (inst *Instance) defineComputed(key string, def ComputedDef, getter func() (any, error)) error {
	var get reactive.Getter
	if def.NoCache {
		get = func() any {
			v, err := getter()
			if err != nil {
				inst.rt.HandleError(err, nil, fmt.Sprintf("computed getter %q", key))
			}
			return v
		}
	} else {
		get = inst.computedGetter(key)
	}

	set := func(any) error {
		inst.rt.Warn("Computed property %q was assigned to but it has no setter.", key)
		return nil
	}
	if def.Set != nil {
		set = func(v any) error { return def.Set(inst, v) }
	}

	if err := inst.proxy.DefineProperty(key, reactive.Descriptor{
		Get:          get,
		Set:          set,
		Enumerable:   true,
		Configurable: true,
	}); err != nil {
		return fmt.Errorf("computed %q: %w", key, err)
	}
	return nil
}

func (inst *Instance) computedGetter(key string) reactive.Getter {
	return func() any {
		w := inst.computedWatchers[key]
		if w == nil {
			return nil
		}
		if w.Dirty() {
			if err := w.Evaluate(); err != nil {
				inst.rt.HandleError(err, w, fmt.Sprintf("computed getter %q", key))
			}
		}
		if inst.rt.Target() != nil {
			w.Depend()
		}
		return w.Value()
	}
}

// Computed returns the lazy watcher backing a cached computed property.
func (inst *Instance) Computed(key string) *reactive.Watcher {
	return inst.computedWatchers[key]
}

func (inst *Instance) initWatch() error {
	for _, key := range sortedKeys(inst.opts.Watch) {
		for _, def := range inst.opts.Watch[key] {
			if _, err := inst.Watch(key, def.Handler, def); err != nil {
				return fmt.Errorf("watch %q: %w", key, err)
			}
		}
	}
	return nil
}

func (inst *Instance) proxyKey(source *reactive.Object, key string) error {
	if err := inst.proxy.DefineProperty(key, reactive.Descriptor{
		Get:          func() any { return source.Get(key) },
		Set:          func(v any) error { return source.Set(key, v) },
		Enumerable:   true,
		Configurable: true,
	}); err != nil {
		return fmt.Errorf("proxy %q: %w", key, err)
	}
	return nil
}

func isReserved(key string) bool {
	return strings.HasPrefix(key, "$") || strings.HasPrefix(key, "_")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
