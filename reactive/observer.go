package reactive

// Observer is attached to each observed container. Its dep stands for the
// container as a whole: array mutations, keys added or deleted through the
// mutation API, and replacement of elements deep inside a nested value.
type Observer struct {
	rt        *Runtime
	value     container
	dep       *Dep
	rootCount int
}

func newObserver(rt *Runtime, value container) *Observer {
	ob := &Observer{
		rt:    rt,
		value: value,
		dep:   newDep(rt),
	}
	value.base().ob = ob

	switch v := value.(type) {
	case *Array:
		ob.observeItems(v.items)
	case *Object:
		ob.walk(v)
	}
	return ob
}

// Value returns the observed container, an *Object or an *Array.
func (ob *Observer) Value() any {
	return ob.value
}

func (ob *Observer) Dep() *Dep {
	return ob.dep
}

// RootCount is the number of times the container was installed as root state.
func (ob *Observer) RootCount() int {
	return ob.rootCount
}

// ReleaseRoot undoes one root attachment, when the state owner is destroyed.
func (ob *Observer) ReleaseRoot() {
	if ob.rootCount > 0 {
		ob.rootCount--
	}
}

func (ob *Observer) walk(obj *Object) {
	for _, key := range obj.Keys() {
		// redefining an existing configurable key cannot fail
		_ = defineReactive(ob.rt, obj, key, nil, false, nil, false)
	}
}

func (ob *Observer) observeItems(items []any) {
	for _, item := range items {
		Observe(ob.rt, item, false)
	}
}

// Observe makes value reactive and returns its observer. It returns nil for
// anything that is not an *Object or *Array, for containers marked raw or not
// extensible, and for new containers while observing is disabled on rt.
// Observing the same container again returns the memoized observer; asRoot
// counts one more root attachment.
func Observe(rt *Runtime, value any, asRoot bool) *Observer {
	c := asContainer(value)
	if c == nil {
		return nil
	}
	h := c.base()

	ob := h.ob
	if ob == nil && rt.observing && !h.skip && !h.nonExtensible && !h.instance {
		ob = newObserver(rt, c)
	}
	if asRoot && ob != nil {
		ob.rootCount++
	}
	return ob
}

// DefineReactive installs a tracked accessor for key on obj holding val.
// customSetter, if set, runs on every write that changes the value. With
// shallow the value is stored as is instead of being observed. Adding a new
// key to a non-extensible obj fails with ErrNotExtensible.
func DefineReactive(rt *Runtime, obj *Object, key string, val any, customSetter func(), shallow bool) error {
	return defineReactive(rt, obj, key, val, true, customSetter, shallow)
}

func defineReactive(rt *Runtime, obj *Object, key string, val any, hasVal bool, customSetter func(), shallow bool) error {
	dep := newDep(rt)

	property, exists := obj.OwnProperty(key)
	if exists && !property.Configurable {
		return nil
	}

	getter, setter := property.Get, property.Set
	if (getter == nil || setter != nil) && !hasVal {
		if getter != nil {
			val = getter()
		} else {
			val = property.Value
		}
	}

	var childOb *Observer
	if !shallow {
		childOb = Observe(rt, val, false)
	}

	read := func() any {
		if getter != nil {
			return getter()
		}
		return val
	}

	return obj.DefineProperty(key, Descriptor{
		Enumerable:   true,
		Configurable: true,
		Get: func() any {
			value := read()
			if rt.Target() != nil {
				dep.Depend()
				if childOb != nil {
					childOb.dep.Depend()
					if arr, ok := value.(*Array); ok {
						dependArray(arr)
					}
				}
			}
			return value
		},
		Set: func(newVal any) error {
			if unchanged(newVal, read()) {
				return nil
			}
			if customSetter != nil {
				customSetter()
			}
			if getter != nil && setter == nil {
				return nil
			}
			if setter != nil {
				if err := setter(newVal); err != nil {
					return err
				}
			} else {
				val = newVal
			}
			childOb = nil
			if !shallow {
				childOb = Observe(rt, newVal, false)
			}
			return dep.Notify()
		},
	})
}

// dependArray registers the current target with every observed element,
// recursively, since index reads cannot be intercepted.
func dependArray(arr *Array) {
	for _, e := range arr.items {
		c := asContainer(e)
		if c == nil {
			continue
		}
		if ob := c.base().ob; ob != nil {
			ob.dep.Depend()
		}
		if inner, ok := e.(*Array); ok {
			dependArray(inner)
		}
	}
}

func asContainer(v any) container {
	switch c := v.(type) {
	case *Object:
		if c != nil {
			return c
		}
	case *Array:
		if c != nil {
			return c
		}
	}
	return nil
}

// observerOf returns the observer memoized on v, if v is an observed container.
func observerOf(v any) *Observer {
	if c := asContainer(v); c != nil {
		return c.base().ob
	}
	return nil
}
