package jsheap

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/feather-lang/jsproxy"
)

// helperSource holds the foreign side of every table operation. The helpers
// are compiled once per table; doing property access, calls and comparisons
// in JavaScript keeps exact JavaScript semantics for every value kind.
const helperSource = `({
	typeOf: (v) => typeof v,
	toString: (v) => String(v),
	get: (o, k) => o[k],
	set: (o, k, v) => { o[k] = v; },
	del: (o, k) => {
		if (!delete o[k]) {
			throw new TypeError("Cannot delete property '" + String(k) + "'");
		}
	},
	push: (a, v) => { a.push(v); },
	call: (f, args) => f.apply(f, args),
	callMember: (o, name, args) => {
		const f = o[name];
		if (typeof f !== "function") {
			throw new TypeError(String(name) + " is not a function");
		}
		return f.apply(o, args);
	},
	bind: (o, name) => {
		const f = o[name];
		if (typeof f !== "function") {
			throw new TypeError(String(name) + " is not a function");
		}
		return f.bind(o);
	},
	construct: (f, args) => Reflect.construct(f, args),
	hasNext: (o) => o !== null && (typeof o === "object" || typeof o === "function") && typeof o.next === "function",
	iterator: (o) => o[Symbol.iterator](),
	next: (it) => {
		const r = it.next();
		if (r === null || typeof r !== "object") {
			throw new TypeError("Iterator result " + String(r) + " is not an object");
		}
		return r;
	},
	length: (o) => {
		const n = (o instanceof Map || o instanceof Set) ? o.size : o.length;
		if (typeof n !== "number") {
			throw new TypeError("object has no length");
		}
		return n;
	},
	keys: (o) => Object.keys(o),
	kind: (v) => {
		if (v === undefined) return "undefined";
		if (v === null) return "null";
		const t = typeof v;
		if (t !== "object") return t;
		if (Array.isArray(v)) return "array";
		const p = Object.getPrototypeOf(v);
		return (p === Object.prototype || p === null) ? "plain" : "object";
	},
	lt: (a, b) => a < b,
	le: (a, b) => a <= b,
	eq: (a, b) => a === b,
	ne: (a, b) => a !== b,
	gt: (a, b) => a > b,
	ge: (a, b) => a >= b,
})`

type helpers struct {
	typeOf, toString         goja.Callable
	get, set, del, push      goja.Callable
	call, callMember, newObj goja.Callable
	bind                     goja.Callable
	hasNext, iterator, next  goja.Callable
	length, keys, kind       goja.Callable
	compare                  [6]goja.Callable // indexed by jsproxy.CompareOp
}

func compileHelpers(vm *goja.Runtime) (helpers, error) {
	var h helpers
	v, err := vm.RunString(helperSource)
	if err != nil {
		return h, fmt.Errorf("compile helpers: %w", err)
	}
	obj := v.ToObject(vm)

	bind := func(name string, dst *goja.Callable) error {
		fn, ok := goja.AssertFunction(obj.Get(name))
		if !ok {
			return fmt.Errorf("helper %s is not a function", name)
		}
		*dst = fn
		return nil
	}

	for name, dst := range map[string]*goja.Callable{
		"typeOf":     &h.typeOf,
		"toString":   &h.toString,
		"get":        &h.get,
		"set":        &h.set,
		"del":        &h.del,
		"push":       &h.push,
		"call":       &h.call,
		"callMember": &h.callMember,
		"bind":       &h.bind,
		"construct":  &h.newObj,
		"hasNext":    &h.hasNext,
		"iterator":   &h.iterator,
		"next":       &h.next,
		"length":     &h.length,
		"keys":       &h.keys,
		"kind":       &h.kind,
		"lt":         &h.compare[jsproxy.OpLT],
		"le":         &h.compare[jsproxy.OpLE],
		"eq":         &h.compare[jsproxy.OpEQ],
		"ne":         &h.compare[jsproxy.OpNE],
		"gt":         &h.compare[jsproxy.OpGT],
		"ge":         &h.compare[jsproxy.OpGE],
	} {
		if err := bind(name, dst); err != nil {
			return h, err
		}
	}
	return h, nil
}
