package jsproxy

import "fmt"

// Obj is a host value.
// It has a string representation and an optional internal representation
// that is computed lazily. A nil *Obj is the host "none" value.
type Obj struct {
	bytes  string  // string representation ("" = empty string if intrep == nil)
	intrep ObjType // internal representation (nil = pure string)
}

// ObjType defines the core behavior for an internal representation.
type ObjType interface {
	// Name returns the type name (e.g., "int", "list", "JsProxy").
	Name() string

	// UpdateString regenerates string representation from this internal rep.
	UpdateString() string

	// Dup creates a copy of this internal representation.
	Dup() ObjType
}

// IntoInt can convert directly to int64.
type IntoInt interface {
	IntoInt() (int64, bool)
}

// IntoDouble can convert directly to float64.
type IntoDouble interface {
	IntoDouble() (float64, bool)
}

// IntoList can convert directly to a list.
type IntoList interface {
	IntoList() ([]*Obj, bool)
}

// IntoDict can convert directly to a dictionary.
type IntoDict interface {
	IntoDict() (map[string]*Obj, []string, bool)
}

// IntoBool can convert directly to a boolean.
type IntoBool interface {
	IntoBool() (bool, bool)
}

// Callable is implemented by internal reps that can be invoked with
// positional arguments.
type Callable interface {
	Call(args ...*Obj) (*Obj, error)
}

// NewObj wraps an internal representation in an Obj.
//
//	obj := jsproxy.NewObj(&MyType{...})
//	obj.Type() // MyType.Name()
func NewObj(rep ObjType) *Obj {
	return &Obj{intrep: rep}
}

// String returns the string representation of the object.
// If the string representation is empty and there's an internal representation,
// it regenerates the string from the internal rep.
func (o *Obj) String() string {
	if o == nil {
		return ""
	}
	if o.bytes == "" && o.intrep != nil {
		o.bytes = o.intrep.UpdateString()
	}
	return o.bytes
}

// Type returns the type name of the object.
// Returns "string" for pure string objects and "none" for nil.
func (o *Obj) Type() string {
	if o == nil {
		return "none"
	}
	if o.intrep == nil {
		return "string"
	}
	return o.intrep.Name()
}

// IsNone reports whether o is the host none value.
func (o *Obj) IsNone() bool {
	return o == nil
}

// InternalRep returns the internal representation of the object.
// Returns nil for pure string objects.
//
// Use type assertion to access custom ObjType implementations:
//
//	if p, ok := obj.InternalRep().(*jsproxy.ObjectProxy); ok {
//	    // use p
//	}
func (o *Obj) InternalRep() ObjType {
	if o == nil {
		return nil
	}
	return o.intrep
}

// invalidate clears the cached string representation.
// Should be called after mutating the internal representation.
func (o *Obj) invalidate() {
	if o == nil {
		return
	}
	o.bytes = ""
}

// Copy creates a shallow copy of the object.
// If the object has an internal representation, it is duplicated via Dup().
// Proxies are shared by the copy, not re-referenced.
func (o *Obj) Copy() *Obj {
	if o == nil {
		return nil
	}
	if o.intrep == nil {
		return &Obj{bytes: o.bytes}
	}
	return &Obj{bytes: o.bytes, intrep: o.intrep.Dup()}
}

// Int returns the integer value of this object, shimmering if needed.
func (o *Obj) Int() (int64, error) {
	return asInt(o)
}

// Double returns the float64 value of this object, shimmering if needed.
func (o *Obj) Double() (float64, error) {
	return asDouble(o)
}

// Bool returns the boolean value of this object.
func (o *Obj) Bool() (bool, error) {
	return asBool(o)
}

// List returns the list elements of this object.
func (o *Obj) List() ([]*Obj, error) {
	return asList(o)
}

// Dict returns the dict representation of this object.
func (o *Obj) Dict() (*DictType, error) {
	return asDict(o)
}

// Call invokes o if its internal representation is callable.
func (o *Obj) Call(args ...*Obj) (*Obj, error) {
	if o != nil {
		if c, ok := o.intrep.(Callable); ok {
			return c.Call(args...)
		}
	}
	return nil, fmt.Errorf("%s object is not callable", o.Type())
}
