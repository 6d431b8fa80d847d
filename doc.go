// Package jsproxy lets Go code use JavaScript objects as if they were host
// values.
//
// # Overview
//
// Values on the host side are [*Obj]s: a string representation plus an
// optional internal representation ([ObjType]). A JavaScript value reaches
// the host either copied (numbers, strings, booleans and, by default, arrays
// and plain objects) or as an [ObjectProxy]: an internal representation that
// forwards attribute access, calls, construction, comparison, iteration and
// indexing to the JavaScript value.
//
// Proxies never hold JavaScript values directly. They hold integer
// [Handle]s into a reference-counted [HandleTable], and use a [Translator]
// to move arguments and results across. The jsheap package provides a table
// backed by the goja engine and the convert package a matching translator.
//
// # Quick Start
//
//	table, _ := jsheap.New()
//	rt := jsproxy.NewRuntime(table, convert.New(table))
//	defer rt.Close()
//
//	h, _ := table.Eval(`({name: "x", greet(g) { return g + " " + this.name; }})`)
//	obj := jsproxy.NewObjectProxy(rt, h)
//	table.Decref(h)
//	defer obj.Release()
//
//	greet, _ := obj.GetAttr("greet") // a BoundMethodProxy
//	res, _ := greet.Call(jsproxy.String("hi"))
//	fmt.Println(res) // "hi x"
//
// # Methods and Receivers
//
// Reading a member that is a function returns a [BoundMethodProxy] that
// remembers the object it was read from. Calling it calls the member with
// that object as this, as the expression obj.greet("hi") would in
// JavaScript. Two attribute names are answered by the proxy itself:
// "typeof" returns the JavaScript typeof tag and "new" returns a host
// method that constructs the proxied value.
//
// # Handle Ownership
//
// Every proxy owns one reference to its handle. Call Release when done
// with a proxy; later calls do nothing. A proxy dropped without Release is
// released on the runtime's goroutine after the garbage collector has
// reclaimed it (see [Runtime.Collect]), and the release is logged as a
// warning.
//
// # Iteration
//
// A proxy is its own iterator. [ObjectProxy.Next] reports exhaustion as
// ok == false and a failed step as an error matching [ErrIterationFailed];
// [ObjectProxy.All] adapts the same protocol to range-over-func.
//
// # Comparisons
//
// Two proxies compare with JavaScript semantics (== is ===). A proxy is
// never equal to a host value that is not a proxy, and ordering against
// one fails with [ErrNotImplemented].
//
// # Concurrency
//
// A Runtime, its table and its proxies must be used from one goroutine at
// a time.
package jsproxy
