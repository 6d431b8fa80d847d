// Package jsheap is a reference-counted handle table over a goja
// JavaScript runtime. It implements jsproxy.HandleTable.
//
// Every JavaScript value handed to the host lives in the table under an
// integer handle. Methods that return a handle return a new reference; the
// caller releases it with Decref. Handle arguments are borrowed.
//
//	t, err := jsheap.New()
//	if err != nil {
//	    return err
//	}
//	h, err := t.Eval("[1, 2, 3]")
//	if err != nil {
//	    return err
//	}
//	defer t.Decref(h)
package jsheap

import (
	"fmt"
	"maps"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/feather-lang/jsproxy"
)

type entry struct {
	value goja.Value
	refs  int

	// iter is the iterator Next created for a value that is iterable but
	// not itself an iterator, such as an array.
	iter goja.Value
}

// Table stores JavaScript values under handles. It is not safe for
// concurrent use, and neither is the goja runtime behind it.
type Table struct {
	vm      *goja.Runtime
	logger  *zap.Logger
	entries map[jsproxy.Handle]*entry
	nextID  jsproxy.Handle
	js      helpers
}

var _ jsproxy.HandleTable = (*Table)(nil)

// HostFunc implements a JavaScript function in Go. this and args are
// borrowed. The returned handle is consumed by the table; NoHandle returns
// undefined. A non-nil error is thrown into JavaScript.
type HostFunc func(this jsproxy.Handle, args []jsproxy.Handle) (jsproxy.Handle, error)

// Option configures a Table.
type Option func(*Table)

// WithRuntime uses vm instead of a fresh goja runtime.
func WithRuntime(vm *goja.Runtime) Option {
	return func(t *Table) {
		if vm != nil {
			t.vm = vm
		}
	}
}

// WithLogger sets the table's logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Table) {
		if l != nil {
			t.logger = l
		}
	}
}

// New creates an empty table and compiles its helper functions.
func New(opts ...Option) (*Table, error) {
	t := &Table{
		logger:  zap.NewNop(),
		entries: make(map[jsproxy.Handle]*entry),
		nextID:  1,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.vm == nil {
		t.vm = goja.New()
	}
	js, err := compileHelpers(t.vm)
	if err != nil {
		return nil, err
	}
	t.js = js
	return t, nil
}

// Runtime returns the goja runtime.
func (t *Table) Runtime() *goja.Runtime { return t.vm }

func (t *Table) put(v goja.Value) jsproxy.Handle {
	if v == nil {
		v = goja.Undefined()
	}
	h := t.nextID
	if h <= 0 {
		panic("jsheap: handle space exhausted")
	}
	t.nextID++
	t.entries[h] = &entry{value: v, refs: 1}
	return h
}

// Put stores v and returns a new handle for it.
func (t *Table) Put(v goja.Value) jsproxy.Handle { return t.put(v) }

func (t *Table) mustEntry(h jsproxy.Handle) *entry {
	e, ok := t.entries[h]
	if !ok {
		panic(fmt.Sprintf("jsheap: unknown handle %v", h))
	}
	return e
}

// Value returns the JavaScript value behind h without changing its count.
func (t *Table) Value(h jsproxy.Handle) (goja.Value, error) {
	e, ok := t.entries[h]
	if !ok {
		return nil, &Error{Op: "lookup " + h.String(), Err: ErrUnknownHandle}
	}
	return e.value, nil
}

func (t *Table) call(op string, fn goja.Callable, args ...goja.Value) (goja.Value, error) {
	res, err := fn(goja.Undefined(), args...)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	return res, nil
}

// values looks up every handle in hs.
func (t *Table) values(op string, hs ...jsproxy.Handle) ([]goja.Value, error) {
	vs := make([]goja.Value, len(hs))
	for i, h := range hs {
		e, ok := t.entries[h]
		if !ok {
			return nil, &Error{Op: op, Err: fmt.Errorf("%w %v", ErrUnknownHandle, h)}
		}
		vs[i] = e.value
	}
	return vs, nil
}

// apply calls a helper on the values of hs and stores the result.
func (t *Table) apply(op string, fn goja.Callable, hs ...jsproxy.Handle) (jsproxy.Handle, error) {
	vs, err := t.values(op, hs...)
	if err != nil {
		return jsproxy.NoHandle, err
	}
	res, err := t.call(op, fn, vs...)
	if err != nil {
		return jsproxy.NoHandle, err
	}
	return t.put(res), nil
}

// Incref adds a reference to h. It panics if h is not in the table.
func (t *Table) Incref(h jsproxy.Handle) jsproxy.Handle {
	t.mustEntry(h).refs++
	return h
}

// Decref drops a reference to h and forgets the value with the last one.
// It panics if h is not in the table.
func (t *Table) Decref(h jsproxy.Handle) {
	e := t.mustEntry(h)
	e.refs--
	if e.refs == 0 {
		delete(t.entries, h)
	}
}

// ToString returns String(v).
func (t *Table) ToString(h jsproxy.Handle) (jsproxy.Handle, error) {
	return t.apply("string conversion", t.js.toString, h)
}

// TypeOf returns typeof v.
func (t *Table) TypeOf(h jsproxy.Handle) (jsproxy.Handle, error) {
	return t.apply("typeof", t.js.typeOf, h)
}

// GetMember returns v[name].
func (t *Table) GetMember(h jsproxy.Handle, name string) (jsproxy.Handle, error) {
	vs, err := t.values("get "+name, h)
	if err != nil {
		return jsproxy.NoHandle, err
	}
	res, err := t.call("get "+name, t.js.get, vs[0], t.vm.ToValue(name))
	if err != nil {
		return jsproxy.NoHandle, err
	}
	return t.put(res), nil
}

// SetMember assigns v[name] = value.
func (t *Table) SetMember(h jsproxy.Handle, name string, value jsproxy.Handle) error {
	vs, err := t.values("set "+name, h, value)
	if err != nil {
		return err
	}
	_, err = t.call("set "+name, t.js.set, vs[0], t.vm.ToValue(name), vs[1])
	return err
}

// DeleteMember deletes v[name]. Deleting a non-configurable property fails.
func (t *Table) DeleteMember(h jsproxy.Handle, name string) error {
	vs, err := t.values("delete "+name, h)
	if err != nil {
		return err
	}
	_, err = t.call("delete "+name, t.js.del, vs[0], t.vm.ToValue(name))
	return err
}

// GetMemberObj returns v[key].
func (t *Table) GetMemberObj(h, key jsproxy.Handle) (jsproxy.Handle, error) {
	return t.apply("get", t.js.get, h, key)
}

// SetMemberObj assigns v[key] = value.
func (t *Table) SetMemberObj(h, key, value jsproxy.Handle) error {
	vs, err := t.values("set", h, key, value)
	if err != nil {
		return err
	}
	_, err = t.call("set", t.js.set, vs...)
	return err
}

// DeleteMemberObj deletes v[key].
func (t *Table) DeleteMemberObj(h, key jsproxy.Handle) error {
	vs, err := t.values("delete", h, key)
	if err != nil {
		return err
	}
	_, err = t.call("delete", t.js.del, vs...)
	return err
}

// IsFunction reports whether h is callable. Unknown handles are not.
func (t *Table) IsFunction(h jsproxy.Handle) bool {
	e, ok := t.entries[h]
	if !ok {
		return false
	}
	_, ok = goja.AssertFunction(e.value)
	return ok
}

// Truthy reports whether h converts to true. Unknown handles are false.
func (t *Table) Truthy(h jsproxy.Handle) bool {
	e, ok := t.entries[h]
	return ok && e.value.ToBoolean()
}

// NewArray returns a new empty array.
func (t *Table) NewArray() jsproxy.Handle {
	return t.put(t.vm.NewArray())
}

// PushArray appends v to array.
func (t *Table) PushArray(array, v jsproxy.Handle) error {
	vs, err := t.values("push", array, v)
	if err != nil {
		return err
	}
	_, err = t.call("push", t.js.push, vs...)
	return err
}

// Call calls h with this bound to h itself and the elements of args.
func (t *Table) Call(h, args jsproxy.Handle) (jsproxy.Handle, error) {
	return t.apply("call", t.js.call, h, args)
}

// CallMember calls receiver[name] with this bound to receiver.
func (t *Table) CallMember(receiver jsproxy.Handle, name string, args jsproxy.Handle) (jsproxy.Handle, error) {
	op := "call " + name
	vs, err := t.values(op, receiver, args)
	if err != nil {
		return jsproxy.NoHandle, err
	}
	res, err := t.call(op, t.js.callMember, vs[0], t.vm.ToValue(name), vs[1])
	if err != nil {
		return jsproxy.NoHandle, err
	}
	return t.put(res), nil
}

// BindMember returns receiver[name] bound to receiver, so the function keeps
// its this when called from JavaScript.
func (t *Table) BindMember(receiver jsproxy.Handle, name string) (jsproxy.Handle, error) {
	op := "bind " + name
	vs, err := t.values(op, receiver)
	if err != nil {
		return jsproxy.NoHandle, err
	}
	res, err := t.call(op, t.js.bind, vs[0], t.vm.ToValue(name))
	if err != nil {
		return jsproxy.NoHandle, err
	}
	return t.put(res), nil
}

// New evaluates new h(...args).
func (t *Table) New(h, args jsproxy.Handle) (jsproxy.Handle, error) {
	return t.apply("new", t.js.newObj, h, args)
}

// Length returns the length of an array-like value, or the size of a Map
// or Set.
func (t *Table) Length(h jsproxy.Handle) (int, error) {
	vs, err := t.values("length", h)
	if err != nil {
		return 0, err
	}
	res, err := t.call("length", t.js.length, vs[0])
	if err != nil {
		return 0, err
	}
	return int(res.ToInteger()), nil
}

// Next advances h and returns the {done, value} record.
//
// If h is an iterator (it has a next method) it is advanced directly.
// Otherwise the first call creates h[Symbol.iterator]() and keeps it with
// the handle, so an array handle iterates once, like an iterator would.
// Every failure matches ErrNextFailed.
func (t *Table) Next(h jsproxy.Handle) (jsproxy.Handle, error) {
	e, ok := t.entries[h]
	if !ok {
		return jsproxy.NoHandle, &Error{Op: opNext, Err: fmt.Errorf("%w %v", ErrUnknownHandle, h)}
	}
	it := e.iter
	if it == nil {
		isIter, err := t.call(opNext, t.js.hasNext, e.value)
		if err != nil {
			return jsproxy.NoHandle, err
		}
		if isIter.ToBoolean() {
			it = e.value
		} else {
			if it, err = t.call(opNext, t.js.iterator, e.value); err != nil {
				t.logger.Debug("value is not iterable", zap.Stringer("handle", h), zap.Error(err))
				return jsproxy.NoHandle, err
			}
			e.iter = it
		}
	}
	rec, err := t.call(opNext, t.js.next, it)
	if err != nil {
		t.logger.Debug("iterator step failed", zap.Stringer("handle", h), zap.Error(err))
		return jsproxy.NoHandle, err
	}
	return t.put(rec), nil
}

// Compare applies op with JavaScript semantics; equality is strict.
func (t *Table) Compare(op jsproxy.CompareOp, a, b jsproxy.Handle) (bool, error) {
	if op < jsproxy.OpLT || op > jsproxy.OpGE {
		return false, &Error{Op: "compare", Err: fmt.Errorf("invalid operator %v", op)}
	}
	vs, err := t.values("compare", a, b)
	if err != nil {
		return false, err
	}
	res, err := t.call("compare "+op.String(), t.js.compare[op], vs...)
	if err != nil {
		return false, err
	}
	return res.ToBoolean(), nil
}

// Keys returns Object.keys(v).
func (t *Table) Keys(h jsproxy.Handle) ([]string, error) {
	vs, err := t.values("keys", h)
	if err != nil {
		return nil, err
	}
	res, err := t.call("keys", t.js.keys, vs[0])
	if err != nil {
		return nil, err
	}
	var keys []string
	if err := t.vm.ExportTo(res, &keys); err != nil {
		return nil, &Error{Op: "keys", Err: err}
	}
	return keys, nil
}

// Eval runs src as a script and returns its completion value.
func (t *Table) Eval(src string) (jsproxy.Handle, error) {
	v, err := t.vm.RunString(src)
	if err != nil {
		return jsproxy.NoHandle, &Error{Op: "eval", Err: err}
	}
	return t.put(v), nil
}

// Global returns the global object.
func (t *Table) Global() jsproxy.Handle {
	return t.put(t.vm.GlobalObject())
}

// SetGlobal binds the value of h to a global name.
func (t *Table) SetGlobal(name string, h jsproxy.Handle) error {
	v, err := t.Value(h)
	if err != nil {
		return err
	}
	if err := t.vm.Set(name, v); err != nil {
		return &Error{Op: "set global " + name, Err: err}
	}
	return nil
}

// NewString, NewNumber, NewInt, NewBool, Undefined, Null and NewObject
// store a new primitive or empty object.
func (t *Table) NewString(s string) jsproxy.Handle { return t.put(t.vm.ToValue(s)) }
func (t *Table) NewNumber(f float64) jsproxy.Handle { return t.put(t.vm.ToValue(f)) }
func (t *Table) NewInt(i int64) jsproxy.Handle { return t.put(t.vm.ToValue(i)) }
func (t *Table) NewBool(b bool) jsproxy.Handle { return t.put(t.vm.ToValue(b)) }
func (t *Table) Undefined() jsproxy.Handle { return t.put(goja.Undefined()) }
func (t *Table) Null() jsproxy.Handle { return t.put(goja.Null()) }
func (t *Table) NewObject() jsproxy.Handle { return t.put(t.vm.NewObject()) }

// NewFunction wraps fn as a JavaScript function.
func (t *Table) NewFunction(fn HostFunc) jsproxy.Handle {
	native := func(call goja.FunctionCall) goja.Value {
		this := t.put(call.This)
		args := make([]jsproxy.Handle, len(call.Arguments))
		for i, a := range call.Arguments {
			args[i] = t.put(a)
		}
		defer func() {
			t.Decref(this)
			for _, a := range args {
				t.Decref(a)
			}
		}()

		res, err := fn(this, args)
		if err != nil {
			panic(t.vm.NewGoError(err))
		}
		if res == jsproxy.NoHandle {
			return goja.Undefined()
		}
		v := t.mustEntry(res).value
		t.Decref(res)
		return v
	}
	return t.put(t.vm.ToValue(native))
}

// Kind classifies the value of h.
func (t *Table) Kind(h jsproxy.Handle) (Kind, error) {
	vs, err := t.values("kind", h)
	if err != nil {
		return KindUndefined, err
	}
	res, err := t.call("kind", t.js.kind, vs[0])
	if err != nil {
		return KindUndefined, err
	}
	return parseKind(res.String()), nil
}

// elementsPrealloc caps the up-front allocation of Elements; a sparse array
// may report a length far beyond its stored elements.
const elementsPrealloc = 1024

// Elements returns a new handle for each element of an array-like value.
// On failure no handles are left behind. Callers bound the length first.
func (t *Table) Elements(h jsproxy.Handle) ([]jsproxy.Handle, error) {
	n, err := t.Length(h)
	if err != nil {
		return nil, err
	}
	out := make([]jsproxy.Handle, 0, min(n, elementsPrealloc))
	for i := range n {
		idx := t.NewInt(int64(i))
		el, err := t.GetMemberObj(h, idx)
		t.Decref(idx)
		if err != nil {
			for _, el := range out {
				t.Decref(el)
			}
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

// Refcount returns the number of references to h, 0 if it is not stored.
func (t *Table) Refcount(h jsproxy.Handle) int {
	if e, ok := t.entries[h]; ok {
		return e.refs
	}
	return 0
}

// Live returns the number of stored values.
func (t *Table) Live() int { return len(t.entries) }

// Snapshot returns the reference count of every stored handle.
func (t *Table) Snapshot() map[jsproxy.Handle]int {
	snap := make(map[jsproxy.Handle]int, len(t.entries))
	for h, e := range t.entries {
		snap[h] = e.refs
	}
	return snap
}

// Leaked returns the handles of after that were not in before, or whose
// count grew. It compares two snapshots.
func Leaked(before, after map[jsproxy.Handle]int) map[jsproxy.Handle]int {
	leaked := maps.Clone(after)
	for h, n := range before {
		if leaked[h] <= n {
			delete(leaked, h)
		}
	}
	return leaked
}
