package jsproxy

import "fmt"

// BoundMethodProxy is a foreign method together with the receiver it was
// read from. Calling it looks the method up on the receiver again and calls
// it with the receiver bound as this.
//
// A BoundMethodProxy only supports calls.
type BoundMethodProxy struct {
	ref
	name string
}

func newBoundMethod(rt *Runtime, receiver Handle, name string) *BoundMethodProxy {
	m := &BoundMethodProxy{name: name}
	m.ref = acquire(rt, m, receiver, BoundMethodType)
	return m
}

func (m *BoundMethodProxy) foreign() {}

// Name implements ObjType.
func (m *BoundMethodProxy) Name() string { return BoundMethodType }

// Dup implements ObjType.
func (m *BoundMethodProxy) Dup() ObjType { return m }

// UpdateString implements ObjType.
func (m *BoundMethodProxy) UpdateString() string {
	return fmt.Sprintf("<%s %s of %v>", BoundMethodType, m.name, m.h)
}

// MethodName returns the member name the method was read under.
func (m *BoundMethodProxy) MethodName() string { return m.name }

// Receiver returns the receiver handle without incrementing it.
func (m *BoundMethodProxy) Receiver() Handle { return m.h }

// Release drops the receiver reference exactly once.
func (m *BoundMethodProxy) Release() { m.release(BoundMethodType) }

// Call invokes the method on its receiver.
func (m *BoundMethodProxy) Call(args ...*Obj) (*Obj, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	return m.rt.invoke("call method "+m.name, m.h, args, func(array Handle) (Handle, error) {
		return m.rt.table.CallMember(m.h, m.name, array)
	})
}

// CallKw rejects keyword arguments, like ObjectProxy.CallKw.
func (m *BoundMethodProxy) CallKw(args []*Obj, kwargs map[string]*Obj) (*Obj, error) {
	if len(kwargs) > 0 {
		return nil, ErrKeywordArguments
	}
	return m.Call(args...)
}
