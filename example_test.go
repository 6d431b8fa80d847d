package jsproxy_test

import (
	"fmt"

	"github.com/feather-lang/jsproxy"
	"github.com/feather-lang/jsproxy/convert"
	"github.com/feather-lang/jsproxy/jsheap"
)

func Example() {
	table, _ := jsheap.New()
	rt := jsproxy.NewRuntime(table, convert.New(table))
	defer rt.Close()

	h, _ := table.Eval(`({name: "x", greet(g) { return g + " " + this.name; }})`)
	obj := jsproxy.NewObjectProxy(rt, h)
	table.Decref(h)
	defer obj.Release()

	greet, _ := obj.GetAttr("greet")
	defer jsproxy.ReleaseAll(greet)
	res, _ := greet.Call(jsproxy.String("hi"))

	fmt.Println(greet.Type())
	fmt.Println(res)
	// Output:
	// JsBoundMethod
	// hi x
}

func ExampleObjectProxy_All() {
	table, _ := jsheap.New()
	rt := jsproxy.NewRuntime(table, convert.New(table))
	defer rt.Close()

	h, _ := table.Eval("new Set(['a', 'b', 'c'])")
	set := jsproxy.NewObjectProxy(rt, h)
	table.Decref(h)
	defer set.Release()

	for v, err := range set.All() {
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println(v)
	}
	// Output:
	// a
	// b
	// c
}

func ExampleObjectProxy_GetAttr_typeof() {
	table, _ := jsheap.New()
	rt := jsproxy.NewRuntime(table, convert.New(table))
	defer rt.Close()

	h, _ := table.Eval("(function Point(x, y) { this.x = x; this.y = y; })")
	point := jsproxy.NewObjectProxy(rt, h)
	table.Decref(h)
	defer point.Release()

	typ, _ := point.GetAttr("typeof")
	fmt.Println(typ)

	newPoint, _ := point.GetAttr("new")
	p, _ := newPoint.Call(jsproxy.Int(1), jsproxy.Int(2))
	defer jsproxy.ReleaseAll(p)
	x, _ := p.InternalRep().(*jsproxy.ObjectProxy).GetAttr("x")
	fmt.Println(p.Type(), x)
	// Output:
	// function
	// JsProxy 1
}
