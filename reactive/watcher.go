package reactive

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

type Callback func(newValue, oldValue any) error

type WatcherOptions struct {
	// Lazy defers evaluation until Evaluate; notifications only mark the
	// watcher dirty.
	Lazy bool
	// User routes evaluator and callback errors to the runtime error handler
	// instead of returning them.
	User bool
	// Deep makes the watcher depend on every nested property of its value.
	Deep bool
	// Sync runs the watcher on notification even when a scheduler is set.
	Sync bool
	// Before is called by schedulers right before Run.
	Before func()
}

// Watcher is one re-runnable computation: a render, a computed property or a
// user watch. Each evaluation pushes the watcher on the runtime's target
// stack, so every reactive read during it ends up in AddDep.
type Watcher struct {
	rt         *Runtime
	id         uint64
	owner      any
	getter     func() (any, error)
	cb         Callback
	expression string

	lazy, user, deep, sync bool
	before                 func()

	active bool
	dirty  bool
	queued bool

	deps, newDeps     []*Dep
	depIDs, newDepIDs mapset.Set[uint64]

	value any
}

// NewWatcher creates a watcher on owner. expOrFn is either a dot-delimited
// path resolved against owner or a func() (any, error) / func() any
// evaluator. Non-lazy watchers evaluate immediately; that first run is what
// populates their dependencies.
func NewWatcher(rt *Runtime, owner any, expOrFn any, cb Callback, opts *WatcherOptions) (*Watcher, error) {
	rt.nextWatcherID++
	w := &Watcher{
		rt:        rt,
		id:        rt.nextWatcherID,
		owner:     owner,
		cb:        cb,
		active:    true,
		depIDs:    mapset.NewThreadUnsafeSet[uint64](),
		newDepIDs: mapset.NewThreadUnsafeSet[uint64](),
	}
	if opts != nil {
		w.lazy = opts.Lazy
		w.user = opts.User
		w.deep = opts.Deep
		w.sync = opts.Sync
		w.before = opts.Before
	}
	w.dirty = w.lazy

	switch fn := expOrFn.(type) {
	case func() (any, error):
		w.getter = fn
		w.expression = fmt.Sprintf("func#%d", w.id)
	case func() any:
		w.getter = func() (any, error) { return fn(), nil }
		w.expression = fmt.Sprintf("func#%d", w.id)
	case string:
		w.expression = fn
		getter, err := rt.ParsePath(owner, fn)
		if err != nil {
			rt.warn("Failed watching path: %q. Watcher only accepts simple dot-delimited paths. For full control, use a function instead.", fn)
			getter = func() (any, error) { return nil, nil }
		}
		w.getter = getter
	default:
		return nil, fmt.Errorf("watcher expression of type %T: %w", expOrFn, ErrInvalidPath)
	}

	if reg, ok := owner.(WatcherRegistry); ok {
		reg.AddWatcher(w)
	}

	if !w.lazy {
		value, err := w.Get()
		if err != nil {
			return w, err
		}
		w.value = value
	}
	return w, nil
}

func (w *Watcher) ID() uint64 {
	return w.id
}

func (w *Watcher) Owner() any {
	return w.owner
}

func (w *Watcher) Expression() string {
	return w.expression
}

// Value is the last evaluated value.
func (w *Watcher) Value() any {
	return w.value
}

// Dirty reports whether a lazy watcher must re-evaluate before its value is
// read.
func (w *Watcher) Dirty() bool {
	return w.dirty
}

func (w *Watcher) Active() bool {
	return w.active
}

func (w *Watcher) Lazy() bool {
	return w.lazy
}

// Before runs the pre-run hook, if any.
func (w *Watcher) Before() {
	if w.before != nil {
		w.before()
	}
}

// Deps returns the deps collected by the last evaluation.
func (w *Watcher) Deps() []*Dep {
	deps := make([]*Dep, len(w.deps))
	copy(deps, w.deps)
	return deps
}

// Get evaluates the getter and re-collects dependencies. Deps collected
// before an evaluator error are kept.
func (w *Watcher) Get() (value any, err error) {
	w.rt.PushTarget(w)
	defer func() {
		w.rt.PopTarget()
		w.cleanupDeps()
	}()

	value, err = w.getter()
	if err != nil {
		if !w.user {
			return nil, err
		}
		w.rt.HandleError(err, w, fmt.Sprintf("getter for watcher %q", w.expression))
		value, err = w.value, nil
	}
	if w.deep {
		traverse(value)
	}
	return value, nil
}

// AddDep records d for the current evaluation and subscribes to it if the
// previous evaluation had not.
func (w *Watcher) AddDep(d *Dep) {
	if w.newDepIDs.Contains(d.id) {
		return
	}
	w.newDepIDs.Add(d.id)
	w.newDeps = append(w.newDeps, d)
	if !w.depIDs.Contains(d.id) {
		d.AddSub(w)
	}
}

// cleanupDeps drops subscriptions the last evaluation did not touch and
// promotes the new dep set.
func (w *Watcher) cleanupDeps() {
	for _, d := range w.deps {
		if !w.newDepIDs.Contains(d.id) {
			d.RemoveSub(w)
		}
	}
	w.depIDs, w.newDepIDs = w.newDepIDs, w.depIDs
	w.newDepIDs.Clear()
	w.deps, w.newDeps = w.newDeps, w.deps
	clear(w.newDeps)
	w.newDeps = w.newDeps[:0]
}

// Update is called by a dep when one of the watcher's inputs changed.
func (w *Watcher) Update() error {
	switch {
	case w.lazy:
		w.dirty = true
		return nil
	case w.sync || w.rt.scheduler == nil:
		return w.Run()
	case w.queued:
		return nil
	default:
		w.queued = true
		w.rt.scheduler.Schedule(w)
		return nil
	}
}

// Unschedule forgets a pending Schedule call so the next notification
// schedules the watcher again. Schedulers call it for watchers they drop
// without running.
func (w *Watcher) Unschedule() {
	w.queued = false
}

// Run re-evaluates and invokes the callback when the value changed, is a
// container, or the watcher is deep.
func (w *Watcher) Run() error {
	w.queued = false
	if !w.active {
		return nil
	}
	value, err := w.Get()
	if err != nil {
		return err
	}
	if !StrictEqual(value, w.value) || asContainer(value) != nil || !isComparable(value) || w.deep {
		oldValue := w.value
		w.value = value
		if w.cb == nil {
			return nil
		}
		if err := w.cb(value, oldValue); err != nil {
			if !w.user {
				return err
			}
			w.rt.HandleError(err, w, fmt.Sprintf("callback for watcher %q", w.expression))
		}
	}
	return nil
}

// Evaluate recomputes a lazy watcher if it is dirty. On error the watcher
// stays dirty.
func (w *Watcher) Evaluate() error {
	if !w.dirty {
		return nil
	}
	value, err := w.Get()
	if err != nil {
		return err
	}
	w.value = value
	w.dirty = false
	return nil
}

// Depend makes the current target depend on everything this watcher depends
// on. Lazy watchers call it when read so the outer evaluation still hears
// about their inputs once their value is memoized.
func (w *Watcher) Depend() {
	for _, d := range w.deps {
		d.Depend()
	}
}

// Teardown unsubscribes the watcher from all of its deps. Safe to call more
// than once.
func (w *Watcher) Teardown() {
	if !w.active {
		return
	}
	if reg, ok := w.owner.(WatcherRegistry); ok {
		reg.RemoveWatcher(w)
	}
	for _, d := range w.deps {
		d.RemoveSub(w)
	}
	w.active = false
}
