package jsproxy

import "fmt"

// MethodFunc is the Go signature of a host callable.
type MethodFunc func(args ...*Obj) (*Obj, error)

// MethodType is the internal representation for host callables, such as the
// "new" attribute of an ObjectProxy.
type MethodType struct {
	name string
	fn   MethodFunc
}

// NewMethod wraps fn as a callable host value.
//
//	double := jsproxy.NewMethod("double", func(args ...*jsproxy.Obj) (*jsproxy.Obj, error) {
//	    n, err := args[0].Int()
//	    return jsproxy.Int(n * 2), err
//	})
func NewMethod(name string, fn MethodFunc) *Obj {
	return NewObj(&MethodType{name: name, fn: fn})
}

func (t *MethodType) Name() string         { return "method" }
func (t *MethodType) Dup() ObjType         { return t }
func (t *MethodType) UpdateString() string { return fmt.Sprintf("<method %s>", t.name) }

// MethodName returns the name the method was created with.
func (t *MethodType) MethodName() string { return t.name }

// Call invokes the wrapped function.
func (t *MethodType) Call(args ...*Obj) (*Obj, error) {
	return t.fn(args...)
}
