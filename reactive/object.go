package reactive

type (
	Getter func() any
	Setter func(v any) error
)

// Descriptor describes one property slot, either a data value or an accessor
// pair. Get and Set are mutually exclusive with Value and Writable.
type Descriptor struct {
	Value        any
	Writable     bool
	Get          Getter
	Set          Setter
	Enumerable   bool
	Configurable bool
}

func (d Descriptor) isAccessor() bool {
	return d.Get != nil || d.Set != nil
}

// header is shared by every container type.
type header struct {
	ob            *Observer
	nonExtensible bool
	skip          bool
	instance      bool
}

// MarkRaw excludes the container from observation.
func (h *header) MarkRaw() {
	h.skip = true
}

// MarkInstance flags the container as a top-level instance surface;
// the mutation API refuses to add or remove its keys.
func (h *header) MarkInstance() {
	h.instance = true
}

func (h *header) IsInstance() bool {
	return h.instance
}

func (h *header) PreventExtensions() {
	h.nonExtensible = true
}

func (h *header) IsExtensible() bool {
	return !h.nonExtensible
}

// Observer returns the memoized observer, nil if the container was never
// observed.
func (h *header) Observer() *Observer {
	return h.ob
}

func (h *header) base() *header {
	return h
}

type container interface {
	base() *header
}

// Object is an ordered string-keyed container. Reads and writes go through
// Get and Set so that accessor pairs installed by DefineReactive intercept
// them.
type Object struct {
	header
	keys  []string
	props map[string]*Descriptor
}

func NewObject() *Object {
	return &Object{props: map[string]*Descriptor{}}
}

// ObjectOf builds an object from alternating key/value pairs.
func ObjectOf(kv ...any) *Object {
	o := NewObject()
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic("reactive: ObjectOf keys must be strings")
		}
		o.Set(key, kv[i+1])
	}
	return o
}

func (o *Object) Has(key string) bool {
	_, ok := o.props[key]
	return ok
}

// Keys returns the enumerable own keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.keys))
	for _, key := range o.keys {
		if o.props[key].Enumerable {
			keys = append(keys, key)
		}
	}
	return keys
}

func (o *Object) Len() int {
	return len(o.keys)
}

func (o *Object) Get(key string) any {
	if o == nil {
		return nil
	}
	p, ok := o.props[key]
	if !ok {
		return nil
	}
	if p.isAccessor() {
		if p.Get == nil {
			return nil
		}
		return p.Get()
	}
	return p.Value
}

// Set assigns key. Accessor properties delegate to their setter; missing keys
// are added as plain data properties unless the object is not extensible, in
// which case the write is dropped.
func (o *Object) Set(key string, v any) error {
	p, ok := o.props[key]
	if !ok {
		if o.nonExtensible {
			return nil
		}
		o.insert(key, &Descriptor{Value: v, Writable: true, Enumerable: true, Configurable: true})
		return nil
	}
	if p.isAccessor() {
		if p.Set == nil {
			return nil
		}
		return p.Set(v)
	}
	if p.Writable {
		p.Value = v
	}
	return nil
}

// OwnProperty returns a copy of the descriptor stored for key.
func (o *Object) OwnProperty(key string) (Descriptor, bool) {
	p, ok := o.props[key]
	if !ok {
		return Descriptor{}, false
	}
	return *p, true
}

// DefineProperty installs or replaces the slot for key.
func (o *Object) DefineProperty(key string, d Descriptor) error {
	if d.isAccessor() && (d.Value != nil || d.Writable) {
		return ErrInvalidDescriptor
	}
	p, ok := o.props[key]
	if !ok {
		if o.nonExtensible {
			return ErrNotExtensible
		}
		o.insert(key, &d)
		return nil
	}
	if !p.Configurable {
		return ErrNotConfigurable
	}
	*p = d
	return nil
}

// Delete removes key and reports whether it is gone afterwards.
func (o *Object) Delete(key string) (bool, error) {
	p, ok := o.props[key]
	if !ok {
		return true, nil
	}
	if !p.Configurable {
		return false, ErrNotConfigurable
	}
	delete(o.props, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true, nil
}

// Freeze makes every property read-only and non-configurable and prevents
// extensions.
func (o *Object) Freeze() {
	o.nonExtensible = true
	for _, p := range o.props {
		p.Configurable = false
		if !p.isAccessor() {
			p.Writable = false
		}
	}
}

func (o *Object) insert(key string, d *Descriptor) {
	o.keys = append(o.keys, key)
	o.props[key] = d
}
