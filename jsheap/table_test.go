package jsheap_test

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/dop251/goja"

	"github.com/feather-lang/jsproxy"
	"github.com/feather-lang/jsproxy/jsheap"
)

func newTable(t *testing.T) *jsheap.Table {
	t.Helper()
	table, err := jsheap.New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return table
}

func mustEval(t *testing.T, table *jsheap.Table, src string) jsproxy.Handle {
	t.Helper()
	h, err := table.Eval(src)
	if err != nil {
		t.Fatalf("Eval(%q) failed: %v", src, err)
	}
	return h
}

func str(t *testing.T, table *jsheap.Table, h jsproxy.Handle) string {
	t.Helper()
	v, err := table.Value(h)
	if err != nil {
		t.Fatalf("Value(%v) failed: %v", h, err)
	}
	return v.String()
}

func TestRefcounting(t *testing.T) {
	table := newTable(t)
	if table.Live() != 0 {
		t.Fatalf("expected empty table, got %d values", table.Live())
	}

	h := mustEval(t, table, "({a: 1})")
	if h == jsproxy.NoHandle {
		t.Fatal("expected a valid handle")
	}
	if got := table.Incref(h); got != h {
		t.Errorf("expected Incref to return %v, got %v", h, got)
	}
	if table.Refcount(h) != 2 {
		t.Errorf("expected refcount 2, got %d", table.Refcount(h))
	}

	table.Decref(h)
	table.Decref(h)
	if table.Refcount(h) != 0 {
		t.Errorf("expected refcount 0, got %d", table.Refcount(h))
	}
	if table.Live() != 0 {
		t.Errorf("expected empty table, got %d values", table.Live())
	}
}

func TestDecrefUnknownPanics(t *testing.T) {
	table := newTable(t)
	defer func() {
		if recover() == nil {
			t.Error("expected Decref of an unknown handle to panic")
		}
	}()
	table.Decref(42)
}

func TestMembers(t *testing.T) {
	table := newTable(t)
	obj := mustEval(t, table, "({a: 1})")
	defer table.Decref(obj)

	v := table.NewString("two")
	if err := table.SetMember(obj, "b", v); err != nil {
		t.Fatalf("SetMember failed: %v", err)
	}
	table.Decref(v)

	b, err := table.GetMember(obj, "b")
	if err != nil {
		t.Fatalf("GetMember failed: %v", err)
	}
	if s := str(t, table, b); s != "two" {
		t.Errorf("expected 'two', got %q", s)
	}
	table.Decref(b)

	if err := table.DeleteMember(obj, "a"); err != nil {
		t.Fatalf("DeleteMember failed: %v", err)
	}
	keys, err := table.Keys(obj)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if !slices.Equal(keys, []string{"b"}) {
		t.Errorf("expected [b], got %v", keys)
	}

	if table.Live() != 1 {
		t.Errorf("expected 1 live value, got %d", table.Live())
	}
}

func TestDeleteFrozenMember(t *testing.T) {
	table := newTable(t)
	obj := mustEval(t, table, "Object.freeze({a: 1})")
	defer table.Decref(obj)

	err := table.DeleteMember(obj, "a")
	var jerr *jsheap.Error
	if !errors.As(err, &jerr) {
		t.Fatalf("expected *jsheap.Error, got %v", err)
	}
	if jerr.Value() == nil {
		t.Error("expected the thrown value to be available")
	}
}

func TestMemberObj(t *testing.T) {
	table := newTable(t)
	arr := mustEval(t, table, "[10, 20, 30]")
	defer table.Decref(arr)

	idx := table.NewInt(1)
	defer table.Decref(idx)
	el, err := table.GetMemberObj(arr, idx)
	if err != nil {
		t.Fatalf("GetMemberObj failed: %v", err)
	}
	if s := str(t, table, el); s != "20" {
		t.Errorf("expected '20', got %q", s)
	}
	table.Decref(el)

	v := table.NewBool(true)
	if err := table.SetMemberObj(arr, idx, v); err != nil {
		t.Fatalf("SetMemberObj failed: %v", err)
	}
	table.Decref(v)
	if err := table.DeleteMemberObj(arr, idx); err != nil {
		t.Fatalf("DeleteMemberObj failed: %v", err)
	}

	s, err := table.ToString(arr)
	if err != nil {
		t.Fatalf("ToString failed: %v", err)
	}
	defer table.Decref(s)
	if got := str(t, table, s); got != "10,,30" {
		t.Errorf("expected '10,,30', got %q", got)
	}
}

func TestCallMemberBindsReceiver(t *testing.T) {
	table := newTable(t)
	obj := mustEval(t, table, "({name: 'x', who(greeting) { return greeting + ' ' + this.name; }})")
	defer table.Decref(obj)

	args := table.NewArray()
	hi := table.NewString("hi")
	if err := table.PushArray(args, hi); err != nil {
		t.Fatalf("PushArray failed: %v", err)
	}
	table.Decref(hi)

	res, err := table.CallMember(obj, "who", args)
	table.Decref(args)
	if err != nil {
		t.Fatalf("CallMember failed: %v", err)
	}
	if s := str(t, table, res); s != "hi x" {
		t.Errorf("expected 'hi x', got %q", s)
	}
	table.Decref(res)

	args = table.NewArray()
	defer table.Decref(args)
	if _, err := table.CallMember(obj, "name", args); err == nil {
		t.Error("expected calling a non-function member to fail")
	}
}

func TestBindMember(t *testing.T) {
	table := newTable(t)
	obj := mustEval(t, table, "({name: 'x', who() { return this.name; }})")
	defer table.Decref(obj)

	bound, err := table.BindMember(obj, "who")
	if err != nil {
		t.Fatalf("BindMember failed: %v", err)
	}
	args := table.NewArray()
	res, err := table.Call(bound, args)
	table.Decref(args)
	table.Decref(bound)
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if s := str(t, table, res); s != "x" {
		t.Errorf("expected 'x', got %q", s)
	}
	table.Decref(res)

	if _, err := table.BindMember(obj, "name"); err == nil {
		t.Error("expected binding a non-function member to fail")
	}
}

func TestCallAndNew(t *testing.T) {
	table := newTable(t)
	add := mustEval(t, table, "(function (a, b) { return a + b; })")
	defer table.Decref(add)

	args := table.NewArray()
	defer table.Decref(args)
	for _, n := range []int64{2, 3} {
		h := table.NewInt(n)
		if err := table.PushArray(args, h); err != nil {
			t.Fatalf("PushArray failed: %v", err)
		}
		table.Decref(h)
	}

	res, err := table.Call(add, args)
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if s := str(t, table, res); s != "5" {
		t.Errorf("expected '5', got %q", s)
	}
	table.Decref(res)

	ctor := mustEval(t, table, "(function Point(x, y) { this.x = x; this.y = y; })")
	defer table.Decref(ctor)
	p, err := table.New(ctor, args)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer table.Decref(p)
	keys, _ := table.Keys(p)
	if !slices.Equal(keys, []string{"x", "y"}) {
		t.Errorf("expected [x y], got %v", keys)
	}
}

func TestNextIterator(t *testing.T) {
	table := newTable(t)
	arr := mustEval(t, table, "[1, 2]")
	defer table.Decref(arr)

	var got []string
	for range 3 {
		rec, err := table.Next(arr)
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		done, _ := table.GetMember(rec, "done")
		value, _ := table.GetMember(rec, "value")
		if !table.Truthy(done) {
			got = append(got, str(t, table, value))
		}
		table.Decref(done)
		table.Decref(value)
		table.Decref(rec)
	}
	if !slices.Equal(got, []string{"1", "2"}) {
		t.Errorf("expected [1 2], got %v", got)
	}
	if table.Live() != 1 {
		t.Errorf("expected only the array to be live, got %d values", table.Live())
	}
}

func TestNextFailure(t *testing.T) {
	table := newTable(t)

	tests := []struct {
		name string
		src  string
	}{
		{"throwing next", "({next() { throw new Error('boom'); }})"},
		{"non-object record", "({next() { return 1; }})"},
		{"not iterable", "({})"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := mustEval(t, table, tt.src)
			defer table.Decref(h)
			_, err := table.Next(h)
			if !errors.Is(err, jsheap.ErrNextFailed) {
				t.Errorf("expected ErrNextFailed, got %v", err)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	table := newTable(t)
	one := table.NewInt(1)
	two := table.NewInt(2)
	obj := table.NewObject()
	defer table.Decref(one)
	defer table.Decref(two)
	defer table.Decref(obj)

	tests := []struct {
		op   jsproxy.CompareOp
		a, b jsproxy.Handle
		want bool
	}{
		{jsproxy.OpLT, one, two, true},
		{jsproxy.OpLE, two, two, true},
		{jsproxy.OpGT, one, two, false},
		{jsproxy.OpGE, two, one, true},
		{jsproxy.OpEQ, obj, obj, true},
		{jsproxy.OpEQ, obj, one, false},
		{jsproxy.OpNE, one, two, true},
	}
	for _, tt := range tests {
		got, err := table.Compare(tt.op, tt.a, tt.b)
		if err != nil {
			t.Fatalf("Compare(%v) failed: %v", tt.op, err)
		}
		if got != tt.want {
			t.Errorf("%v %v %v: expected %v, got %v", tt.a, tt.op, tt.b, tt.want, got)
		}
	}
}

func TestKind(t *testing.T) {
	table := newTable(t)
	tests := []struct {
		src  string
		want jsheap.Kind
	}{
		{"undefined", jsheap.KindUndefined},
		{"null", jsheap.KindNull},
		{"true", jsheap.KindBoolean},
		{"1.5", jsheap.KindNumber},
		{"'s'", jsheap.KindString},
		{"Symbol('s')", jsheap.KindSymbol},
		{"(() => 1)", jsheap.KindFunction},
		{"[]", jsheap.KindArray},
		{"({})", jsheap.KindPlainObject},
		{"Object.create(null)", jsheap.KindPlainObject},
		{"new Map()", jsheap.KindObject},
	}
	for _, tt := range tests {
		h := mustEval(t, table, tt.src)
		got, err := table.Kind(h)
		table.Decref(h)
		if err != nil {
			t.Fatalf("Kind(%s) failed: %v", tt.src, err)
		}
		if got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.src, tt.want, got)
		}
	}
}

func TestLength(t *testing.T) {
	table := newTable(t)
	tests := []struct {
		src  string
		want int
	}{
		{"[1, 2, 3]", 3},
		{"'abcd'", 4},
		{"new Map([[1, 2]])", 1},
		{"new Set([1, 2, 2])", 2},
	}
	for _, tt := range tests {
		h := mustEval(t, table, tt.src)
		n, err := table.Length(h)
		table.Decref(h)
		if err != nil {
			t.Fatalf("Length(%s) failed: %v", tt.src, err)
		}
		if n != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.src, tt.want, n)
		}
	}

	h := mustEval(t, table, "({})")
	defer table.Decref(h)
	if _, err := table.Length(h); err == nil {
		t.Error("expected Length of a plain object to fail")
	}
}

func TestElements(t *testing.T) {
	table := newTable(t)
	arr := mustEval(t, table, "['a', 'b']")
	defer table.Decref(arr)

	elems, err := table.Elements(arr)
	if err != nil {
		t.Fatalf("Elements failed: %v", err)
	}
	var got []string
	for _, el := range elems {
		got = append(got, str(t, table, el))
		table.Decref(el)
	}
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", got)
	}
}

func TestNewFunction(t *testing.T) {
	table := newTable(t)
	double := table.NewFunction(func(_ jsproxy.Handle, args []jsproxy.Handle) (jsproxy.Handle, error) {
		if len(args) != 1 {
			return jsproxy.NoHandle, fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		v, err := table.Value(args[0])
		if err != nil {
			return jsproxy.NoHandle, err
		}
		return table.NewInt(v.ToInteger() * 2), nil
	})
	if err := table.SetGlobal("double", double); err != nil {
		t.Fatalf("SetGlobal failed: %v", err)
	}
	table.Decref(double)

	res := mustEval(t, table, "double(21)")
	if s := str(t, table, res); s != "42" {
		t.Errorf("expected '42', got %q", s)
	}
	table.Decref(res)

	res = mustEval(t, table, "try { double(); 'no error' } catch (e) { 'caught' }")
	if s := str(t, table, res); s != "caught" {
		t.Errorf("expected 'caught', got %q", s)
	}
	table.Decref(res)

	if table.Live() != 0 {
		t.Errorf("expected empty table, got %v", table.Snapshot())
	}
}

func TestEvalError(t *testing.T) {
	table := newTable(t)
	_, err := table.Eval("throw new RangeError('nope')")
	var jerr *jsheap.Error
	if !errors.As(err, &jerr) {
		t.Fatalf("expected *jsheap.Error, got %v", err)
	}
	var ex *goja.Exception
	if !errors.As(err, &ex) {
		t.Errorf("expected a wrapped *goja.Exception, got %T", jerr.Err)
	}
	if errors.Is(err, jsheap.ErrNextFailed) {
		t.Error("eval failure should not match ErrNextFailed")
	}
}

func TestUnknownHandle(t *testing.T) {
	table := newTable(t)
	if _, err := table.GetMember(99, "x"); !errors.Is(err, jsheap.ErrUnknownHandle) {
		t.Errorf("expected ErrUnknownHandle, got %v", err)
	}
	if table.IsFunction(99) || table.Truthy(99) {
		t.Error("expected unknown handles to be neither callable nor truthy")
	}
}

func TestLeaked(t *testing.T) {
	table := newTable(t)
	kept := table.NewObject()
	before := table.Snapshot()

	a := table.NewObject()
	table.Incref(kept)
	leaked := jsheap.Leaked(before, table.Snapshot())
	if len(leaked) != 2 || leaked[a] != 1 || leaked[kept] != 2 {
		t.Errorf("expected %v and %v to leak, got %v", a, kept, leaked)
	}

	table.Decref(a)
	table.Decref(kept)
	if leaked := jsheap.Leaked(before, table.Snapshot()); len(leaked) != 0 {
		t.Errorf("expected no leaks, got %v", leaked)
	}
}
