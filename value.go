package jsproxy

import (
	"fmt"
	"strconv"
	"strings"
)

// String creates a string object.
//
//	s := jsproxy.String("hello world")
//	s.Type()   // "string"
//	s.String() // "hello world"
func String(s string) *Obj {
	return &Obj{bytes: s}
}

// Int creates an integer object.
//
//	n := jsproxy.Int(42)
//	n.Type()   // "int"
//	n.String() // "42"
func Int(v int64) *Obj {
	return &Obj{intrep: IntType(v)}
}

// Double creates a floating-point object.
//
//	d := jsproxy.Double(3.5)
//	d.Type()   // "double"
//	d.String() // "3.5"
func Double(v float64) *Obj {
	return &Obj{intrep: DoubleType(v)}
}

// Bool creates a boolean object.
func Bool(v bool) *Obj {
	return &Obj{intrep: BoolType(v)}
}

// List creates a list object from the given items.
//
//	list := jsproxy.List(jsproxy.String("a"), jsproxy.Int(1), jsproxy.Bool(true))
//	list.Type()   // "list"
//	list.String() // `["a", 1, true]`
func List(items ...*Obj) *Obj {
	return &Obj{intrep: ListType(items)}
}

// Dict creates an empty dict object.
func Dict() *Obj {
	return &Obj{intrep: &DictType{Items: make(map[string]*Obj)}}
}

// DictKV creates a dict object from alternating key-value pairs.
//
// Keys should be strings (non-strings are converted via fmt.Sprintf).
// Values are auto-converted with [FromGo].
//
//	dict := jsproxy.DictKV("name", "Alice", "age", 30)
//	dict.String() // `{"name": "Alice", "age": 30}`
func DictKV(kvs ...any) *Obj {
	d := &DictType{Items: make(map[string]*Obj, len(kvs)/2)}
	for j := 0; j+1 < len(kvs); j += 2 {
		key, ok := kvs[j].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvs[j])
		}
		d.Set(key, FromGo(kvs[j+1]))
	}
	return &Obj{intrep: d}
}

// asInt converts o to int64, shimmering if needed.
func asInt(o *Obj) (int64, error) {
	if o == nil {
		return 0, nil
	}
	if c, ok := o.intrep.(IntoInt); ok {
		if v, ok := c.IntoInt(); ok {
			return v, nil
		}
	}
	if o.intrep != nil {
		return 0, fmt.Errorf("expected integer but got %s", o.Type())
	}
	v, err := strconv.ParseInt(o.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("expected integer but got %q", o.String())
	}
	o.intrep = IntType(v)
	return v, nil
}

// asDouble converts o to float64, shimmering if needed.
func asDouble(o *Obj) (float64, error) {
	if o == nil {
		return 0, nil
	}
	if c, ok := o.intrep.(IntoDouble); ok {
		if v, ok := c.IntoDouble(); ok {
			return v, nil
		}
		return 0, fmt.Errorf("%s %s has no exact floating-point value", o.Type(), o.String())
	}
	if o.intrep != nil {
		return 0, fmt.Errorf("expected floating-point number but got %s", o.Type())
	}
	v, err := strconv.ParseFloat(o.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("expected floating-point number but got %q", o.String())
	}
	o.intrep = DoubleType(v)
	return v, nil
}

// asList converts o to a list if it has a list-compatible internal representation.
func asList(o *Obj) ([]*Obj, error) {
	if o == nil {
		return nil, nil
	}
	if c, ok := o.intrep.(IntoList); ok {
		if v, ok := c.IntoList(); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("expected list but got %s", o.Type())
}

// asDict converts o to a dictionary if it has a dict-compatible internal representation.
func asDict(o *Obj) (*DictType, error) {
	if o == nil {
		return &DictType{Items: make(map[string]*Obj)}, nil
	}
	if d, ok := o.intrep.(*DictType); ok {
		return d, nil
	}
	if c, ok := o.intrep.(IntoDict); ok {
		if items, order, ok := c.IntoDict(); ok {
			return &DictType{Items: items, Order: order}, nil
		}
	}
	return nil, fmt.Errorf("expected dict but got %s", o.Type())
}

// asBool converts o to a boolean.
func asBool(o *Obj) (bool, error) {
	if o == nil {
		return false, nil
	}
	if c, ok := o.intrep.(IntoBool); ok {
		if v, ok := c.IntoBool(); ok {
			return v, nil
		}
	}
	if o.intrep != nil {
		return false, fmt.Errorf("expected boolean but got %s", o.Type())
	}
	switch strings.ToLower(o.String()) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected boolean but got %q", o.String())
}

// quote renders s as a double-quoted string literal.
func quote(s string) string {
	return strconv.Quote(s)
}
