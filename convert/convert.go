// Package convert translates values between jsproxy host objects and
// JavaScript values stored in a jsheap.Table.
//
// Primitives are copied. Arrays and plain objects are copied into lists and
// dicts unless container copying is disabled or they exceed the depth or
// size limits. A container reached twice is copied once and shared, and a
// cycle ends in a proxy. Every other JavaScript value reaches the host as a
// jsproxy.ObjectProxy. In the other direction proxies
// unwrap to the value they hold, so a value that crosses twice is the same
// JavaScript value it started as.
package convert

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/feather-lang/jsproxy"
	"github.com/feather-lang/jsproxy/jsheap"
)

const (
	// DefaultMaxDepth is the container nesting copied by default.
	DefaultMaxDepth = 64
	// DefaultMaxElements is the largest array length or key count copied
	// by default.
	DefaultMaxElements = 1 << 16
)

// Translator implements jsproxy.Translator for a jsheap.Table.
type Translator struct {
	table       *jsheap.Table
	copy        bool
	maxDepth    int
	maxElements int
}

var _ jsproxy.Translator = (*Translator)(nil)

// Option configures a Translator.
type Option func(*Translator)

// WithContainerCopy controls whether arrays and plain objects are copied
// into host lists and dicts (the default) or proxied.
func WithContainerCopy(enabled bool) Option {
	return func(c *Translator) { c.copy = enabled }
}

// WithMaxDepth limits how deeply nested containers are copied. Containers
// below the limit are proxied.
func WithMaxDepth(n int) Option {
	return func(c *Translator) {
		if n >= 0 {
			c.maxDepth = n
		}
	}
}

// WithMaxElements limits the size of copied containers. Arrays whose length,
// or plain objects whose key count, exceeds n are proxied.
func WithMaxElements(n int) Option {
	return func(c *Translator) {
		if n >= 0 {
			c.maxElements = n
		}
	}
}

// New returns a translator for values stored in table.
func New(table *jsheap.Table, opts ...Option) *Translator {
	c := &Translator{table: table, copy: true, maxDepth: DefaultMaxDepth, maxElements: DefaultMaxElements}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ToHost converts the value of h. The handle is borrowed.
func (c *Translator) ToHost(rt *jsproxy.Runtime, h jsproxy.Handle) (*jsproxy.Obj, error) {
	st := &copyState{
		path: make(map[*goja.Object]bool),
		done: make(map[*goja.Object]*jsproxy.Obj),
	}
	return c.toHost(rt, h, 0, st)
}

// copyState tracks one ToHost call. path holds the containers being copied,
// so that a cycle ends in a proxy instead of recursing. done maps containers
// already copied to their copy, so a value shared by several parents is
// copied once.
type copyState struct {
	path map[*goja.Object]bool
	done map[*goja.Object]*jsproxy.Obj
}

func (c *Translator) toHost(rt *jsproxy.Runtime, h jsproxy.Handle, depth int, st *copyState) (*jsproxy.Obj, error) {
	kind, err := c.table.Kind(h)
	if err != nil {
		return nil, err
	}
	v, err := c.table.Value(h)
	if err != nil {
		return nil, err
	}

	switch kind {
	case jsheap.KindUndefined, jsheap.KindNull:
		return nil, nil
	case jsheap.KindBoolean:
		return jsproxy.Bool(v.ToBoolean()), nil
	case jsheap.KindNumber:
		// goja keeps integers as int64, beyond the exact range of a float64
		if i, ok := v.Export().(int64); ok {
			return jsproxy.Int(i), nil
		}
		return jsproxy.Number(v.ToFloat()), nil
	case jsheap.KindString, jsheap.KindBigInt:
		return jsproxy.String(v.String()), nil
	}

	if !c.copy || !kind.IsContainer() || depth >= c.maxDepth {
		return rt.Wrap(h), nil
	}
	obj, ok := v.(*goja.Object)
	if !ok || st.path[obj] {
		return rt.Wrap(h), nil
	}
	if out, ok := st.done[obj]; ok {
		return out, nil
	}
	st.path[obj] = true
	defer delete(st.path, obj)

	var out *jsproxy.Obj
	if kind == jsheap.KindArray {
		out, err = c.list(rt, h, depth, st)
	} else {
		out, err = c.dict(rt, h, depth, st)
	}
	if err != nil {
		return nil, err
	}
	st.done[obj] = out
	return out, nil
}

func (c *Translator) list(rt *jsproxy.Runtime, h jsproxy.Handle, depth int, st *copyState) (*jsproxy.Obj, error) {
	n, err := c.table.Length(h)
	if err != nil {
		return nil, err
	}
	if n > c.maxElements {
		return rt.Wrap(h), nil
	}
	elems, err := c.table.Elements(h)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, el := range elems {
			c.table.Decref(el)
		}
	}()

	items := make([]*jsproxy.Obj, len(elems))
	for i, el := range elems {
		item, err := c.toHost(rt, el, depth+1, st)
		if err != nil {
			jsproxy.ReleaseAll(items[:i]...)
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		items[i] = item
	}
	return jsproxy.List(items...), nil
}

func (c *Translator) dict(rt *jsproxy.Runtime, h jsproxy.Handle, depth int, st *copyState) (*jsproxy.Obj, error) {
	keys, err := c.table.Keys(h)
	if err != nil {
		return nil, err
	}
	if len(keys) > c.maxElements {
		return rt.Wrap(h), nil
	}
	out := jsproxy.Dict()
	d := out.InternalRep().(*jsproxy.DictType)
	for _, key := range keys {
		m, err := c.table.GetMember(h, key)
		if err != nil {
			jsproxy.ReleaseAll(out)
			return nil, err
		}
		item, err := c.toHost(rt, m, depth+1, st)
		c.table.Decref(m)
		if err != nil {
			jsproxy.ReleaseAll(out)
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		d.Set(key, item)
	}
	return out, nil
}

// ToForeign returns a new handle for v.
func (c *Translator) ToForeign(rt *jsproxy.Runtime, v *jsproxy.Obj) (jsproxy.Handle, error) {
	if v == nil {
		return c.table.Undefined(), nil
	}
	switch rep := v.InternalRep().(type) {
	case nil:
		return c.table.NewString(v.String()), nil
	case *jsproxy.ObjectProxy, *jsproxy.BoundMethodProxy:
		return jsproxy.ExtractHandle(v)
	case jsproxy.IntType:
		return c.table.NewInt(int64(rep)), nil
	case jsproxy.DoubleType:
		return c.table.NewNumber(float64(rep)), nil
	case jsproxy.BoolType:
		return c.table.NewBool(bool(rep)), nil
	case jsproxy.IntoList:
		if items, ok := rep.IntoList(); ok {
			return c.array(rt, items)
		}
	case jsproxy.IntoDict:
		if items, order, ok := rep.IntoDict(); ok {
			return c.object(rt, items, order)
		}
	case jsproxy.Callable:
		return c.table.NewFunction(c.callback(rt, v)), nil
	}
	return c.table.NewString(v.String()), nil
}

func (c *Translator) array(rt *jsproxy.Runtime, items []*jsproxy.Obj) (jsproxy.Handle, error) {
	array := c.table.NewArray()
	for i, item := range items {
		h, err := c.ToForeign(rt, item)
		if err != nil {
			c.table.Decref(array)
			return jsproxy.NoHandle, fmt.Errorf("element %d: %w", i, err)
		}
		err = c.table.PushArray(array, h)
		c.table.Decref(h)
		if err != nil {
			c.table.Decref(array)
			return jsproxy.NoHandle, err
		}
	}
	return array, nil
}

func (c *Translator) object(rt *jsproxy.Runtime, items map[string]*jsproxy.Obj, order []string) (jsproxy.Handle, error) {
	obj := c.table.NewObject()
	for _, key := range order {
		h, err := c.ToForeign(rt, items[key])
		if err != nil {
			c.table.Decref(obj)
			return jsproxy.NoHandle, fmt.Errorf("key %q: %w", key, err)
		}
		err = c.table.SetMember(obj, key, h)
		c.table.Decref(h)
		if err != nil {
			c.table.Decref(obj)
			return jsproxy.NoHandle, err
		}
	}
	return obj, nil
}

// callback adapts a host callable to a JavaScript function. Arguments are
// converted for the duration of the call; proxies created for them are
// released when it returns, so a callback that keeps an argument must take
// its own reference with jsproxy.ExtractHandle.
func (c *Translator) callback(rt *jsproxy.Runtime, fn *jsproxy.Obj) jsheap.HostFunc {
	return func(_ jsproxy.Handle, args []jsproxy.Handle) (jsproxy.Handle, error) {
		hostArgs := make([]*jsproxy.Obj, 0, len(args))
		defer func() { jsproxy.ReleaseAll(hostArgs...) }()
		for _, a := range args {
			v, err := c.ToHost(rt, a)
			if err != nil {
				return jsproxy.NoHandle, err
			}
			hostArgs = append(hostArgs, v)
		}
		res, err := fn.Call(hostArgs...)
		if err != nil {
			return jsproxy.NoHandle, err
		}
		return c.ToForeign(rt, res)
	}
}
