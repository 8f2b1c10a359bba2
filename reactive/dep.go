package reactive

// Dep is the subscriber registry of one reactive cell. It only does
// bookkeeping; deciding when subscribers actually run belongs to Watcher.Update
// and the runtime's scheduler.
type Dep struct {
	rt   *Runtime
	id   uint64
	subs []*Watcher
}

func newDep(rt *Runtime) *Dep {
	rt.nextDepID++
	return &Dep{rt: rt, id: rt.nextDepID}
}

func (d *Dep) ID() uint64 {
	return d.id
}

func (d *Dep) AddSub(w *Watcher) {
	d.subs = append(d.subs, w)
}

func (d *Dep) RemoveSub(w *Watcher) {
	for i, sub := range d.subs {
		if sub == w {
			copy(d.subs[i:], d.subs[i+1:])
			d.subs[len(d.subs)-1] = nil
			d.subs = d.subs[:len(d.subs)-1]
			return
		}
	}
}

// Subscribers returns a copy of the registered watchers in registration order.
func (d *Dep) Subscribers() []*Watcher {
	subs := make([]*Watcher, len(d.subs))
	copy(subs, d.subs)
	return subs
}

// Depend registers the runtime's current target with this dep.
func (d *Dep) Depend() {
	if target := d.rt.Target(); target != nil {
		target.AddDep(d)
	}
}

// Notify updates every subscriber. Iteration runs over a snapshot because
// subscribers re-register while they re-run. The first error stops the
// iteration and is returned to the writer that caused the change.
func (d *Dep) Notify() error {
	subs := d.Subscribers()
	for _, sub := range subs {
		if err := sub.Update(); err != nil {
			return err
		}
	}
	return nil
}
