package jsproxy

import "fmt"

// ObjectProxy makes a foreign object behave like a host object: attribute
// access, calls, construction, comparison, iteration and indexed access are
// forwarded to the foreign value through the runtime's HandleTable.
//
// An ObjectProxy owns one reference to its handle. Call Release when done
// with it; a proxy dropped without Release is released after it has been
// garbage collected.
type ObjectProxy struct {
	ref
}

// NewObjectProxy creates a proxy for h. The proxy increments h; the caller
// keeps its own reference.
func NewObjectProxy(rt *Runtime, h Handle) *ObjectProxy {
	p := &ObjectProxy{}
	p.ref = acquire(rt, p, h, ObjectProxyType)
	return p
}

func (p *ObjectProxy) foreign() {}

// Name implements ObjType.
func (p *ObjectProxy) Name() string { return ObjectProxyType }

// Dup implements ObjType. Copies of a host object share its proxy.
func (p *ObjectProxy) Dup() ObjType { return p }

// UpdateString implements ObjType using the foreign string conversion.
func (p *ObjectProxy) UpdateString() string {
	s, err := p.Repr()
	if err != nil {
		return fmt.Sprintf("<%s %v>", ObjectProxyType, p.h)
	}
	return s
}

// Handle returns the proxied handle without incrementing it. Use
// [ExtractHandle] to obtain an owned reference.
func (p *ObjectProxy) Handle() Handle { return p.h }

// Runtime returns the runtime the proxy belongs to.
func (p *ObjectProxy) Runtime() *Runtime { return p.rt }

// Released reports whether Release has been called.
func (p *ObjectProxy) Released() bool { return p.released }

// Release drops the proxy's handle reference exactly once.
func (p *ObjectProxy) Release() { p.release(ObjectProxyType) }

// Repr returns the foreign string conversion of the proxied value.
func (p *ObjectProxy) Repr() (string, error) {
	if err := p.check(); err != nil {
		return "", err
	}
	h, err := p.rt.table.ToString(p.h)
	if err != nil {
		return "", p.rt.foreignErr("string conversion", p.h, err)
	}
	s, err := p.rt.toHostRelease(h)
	if err != nil {
		return "", err
	}
	return s.String(), nil
}

// GetAttr reads the attribute name.
//
// Two names never reach the foreign object: "new" returns a host method that
// constructs the proxied value, and "typeof" returns the foreign type tag.
// A member that is a foreign function is returned as a BoundMethodProxy so
// that calling it later keeps this proxy's value as the receiver.
func (p *ObjectProxy) GetAttr(name string) (*Obj, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	switch name {
	case "new":
		return NewMethod("new", p.New), nil
	case "typeof":
		return p.TypeOf()
	}

	h, err := p.rt.table.GetMember(p.h, name)
	if err != nil {
		return nil, p.rt.foreignErr("get attribute "+name, p.h, err)
	}
	if p.rt.table.IsFunction(h) {
		p.rt.table.Decref(h)
		return NewObj(newBoundMethod(p.rt, p.h, name)), nil
	}
	return p.rt.toHostRelease(h)
}

// TypeOf returns the foreign runtime's type tag for the proxied value, such
// as "object", "function" or "number".
func (p *ObjectProxy) TypeOf() (*Obj, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	h, err := p.rt.table.TypeOf(p.h)
	if err != nil {
		return nil, p.rt.foreignErr("typeof", p.h, err)
	}
	return p.rt.toHostRelease(h)
}

// SetAttr writes v to the attribute name. A nil v stores the foreign
// "undefined" value; use DelAttr to remove the attribute.
func (p *ObjectProxy) SetAttr(name string, v *Obj) error {
	if err := p.check(); err != nil {
		return err
	}
	h, err := p.rt.toForeign(v)
	if err != nil {
		return p.rt.foreignErr("set attribute "+name, p.h, err)
	}
	err = p.rt.table.SetMember(p.h, name, h)
	p.rt.table.Decref(h)
	return p.rt.foreignErr("set attribute "+name, p.h, err)
}

// DelAttr deletes the attribute name.
func (p *ObjectProxy) DelAttr(name string) error {
	if err := p.check(); err != nil {
		return err
	}
	return p.rt.foreignErr("delete attribute "+name, p.h, p.rt.table.DeleteMember(p.h, name))
}

// Keys lists the own enumerable string keys of the proxied value.
func (p *ObjectProxy) Keys() ([]string, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	keys, err := p.rt.table.Keys(p.h)
	if err != nil {
		return nil, p.rt.foreignErr("keys", p.h, err)
	}
	return keys, nil
}

// Call invokes the proxied value as a function.
func (p *ObjectProxy) Call(args ...*Obj) (*Obj, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	return p.rt.invoke("call", p.h, args, func(array Handle) (Handle, error) {
		return p.rt.table.Call(p.h, array)
	})
}

// CallKw is Call for callers that carry keyword arguments. Foreign functions
// only take positional arguments, so a non-empty kwargs is rejected.
func (p *ObjectProxy) CallKw(args []*Obj, kwargs map[string]*Obj) (*Obj, error) {
	if len(kwargs) > 0 {
		return nil, ErrKeywordArguments
	}
	return p.Call(args...)
}

// New constructs the proxied value with args, like the foreign "new" operator.
func (p *ObjectProxy) New(args ...*Obj) (*Obj, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	return p.rt.invoke("new", p.h, args, func(array Handle) (Handle, error) {
		return p.rt.table.New(p.h, array)
	})
}

// Compare applies op to the proxy and other.
//
// If other is not foreign-backed, == is false, != is true and the ordering
// operators return ErrNotImplemented. Otherwise both sides are translated
// and compared by the foreign runtime.
func (p *ObjectProxy) Compare(other *Obj, op CompareOp) (bool, error) {
	if err := p.check(); err != nil {
		return false, err
	}
	if !IsForeignProxy(other) {
		return heterogeneousCompare(op)
	}

	a, err := p.rt.toForeign(NewObj(p))
	if err != nil {
		return false, p.rt.foreignErr("compare", p.h, err)
	}
	defer p.rt.table.Decref(a)
	b, err := p.rt.toForeign(other)
	if err != nil {
		return false, p.rt.foreignErr("compare", p.h, err)
	}
	defer p.rt.table.Decref(b)

	result, err := p.rt.table.Compare(op, a, b)
	if err != nil {
		return false, p.rt.foreignErr("compare "+op.String(), p.h, err)
	}
	return result, nil
}

// Equal reports whether the proxy and other are the same foreign value.
func (p *ObjectProxy) Equal(other *Obj) bool {
	eq, err := p.Compare(other, OpEQ)
	return err == nil && eq
}

// GetItem reads the member stored under key. Unlike GetAttr, the key may be
// any host value (numbers index arrays).
func (p *ObjectProxy) GetItem(key *Obj) (*Obj, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	k, err := p.rt.toForeign(key)
	if err != nil {
		return nil, p.rt.foreignErr("get item", p.h, err)
	}
	h, err := p.rt.table.GetMemberObj(p.h, k)
	p.rt.table.Decref(k)
	if err != nil {
		return nil, p.rt.foreignErr("get item "+key.String(), p.h, err)
	}
	return p.rt.toHostRelease(h)
}

// SetItem stores v under key.
func (p *ObjectProxy) SetItem(key, v *Obj) error {
	if err := p.check(); err != nil {
		return err
	}
	k, err := p.rt.toForeign(key)
	if err != nil {
		return p.rt.foreignErr("set item", p.h, err)
	}
	defer p.rt.table.Decref(k)
	h, err := p.rt.toForeign(v)
	if err != nil {
		return p.rt.foreignErr("set item", p.h, err)
	}
	err = p.rt.table.SetMemberObj(p.h, k, h)
	p.rt.table.Decref(h)
	return p.rt.foreignErr("set item "+key.String(), p.h, err)
}

// DelItem deletes the member stored under key.
func (p *ObjectProxy) DelItem(key *Obj) error {
	if err := p.check(); err != nil {
		return err
	}
	k, err := p.rt.toForeign(key)
	if err != nil {
		return p.rt.foreignErr("delete item", p.h, err)
	}
	err = p.rt.table.DeleteMemberObj(p.h, k)
	p.rt.table.Decref(k)
	return p.rt.foreignErr("delete item "+key.String(), p.h, err)
}

// Len returns the foreign "length" of the proxied value.
func (p *ObjectProxy) Len() (int, error) {
	if err := p.check(); err != nil {
		return 0, err
	}
	n, err := p.rt.table.Length(p.h)
	if err != nil {
		return 0, p.rt.foreignErr("length", p.h, err)
	}
	return n, nil
}

