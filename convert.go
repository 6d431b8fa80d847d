package jsproxy

import (
	"fmt"
	"reflect"
	"slices"
)

// FromGo converts a Go value into a host object.
//
// Supported values:
//   - nil                          - the none value
//   - string, bool                 - string and bool objects
//   - signed/unsigned integers     - int objects
//   - float32, float64             - double objects
//   - slices and arrays            - list objects, elements converted recursively
//   - maps with string keys        - dict objects (keys sorted for a stable order)
//   - *Obj                         - returned unchanged
//   - ObjType                      - wrapped with [NewObj]
//
// Anything else becomes a string object holding its fmt representation.
func FromGo(v any) *Obj {
	switch val := v.(type) {
	case nil:
		return nil
	case *Obj:
		return val
	case ObjType:
		return NewObj(val)
	case string:
		return String(val)
	case bool:
		return Bool(val)
	case int:
		return Int(int64(val))
	case int64:
		return Int(val)
	case float64:
		return Double(val)
	case []any:
		items := make([]*Obj, len(val))
		for j, item := range val {
			items[j] = FromGo(item)
		}
		return List(items...)
	case map[string]any:
		return dictFromMap(reflect.ValueOf(val))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Int(int64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return Double(rv.Float())
	case reflect.Slice, reflect.Array:
		items := make([]*Obj, rv.Len())
		for j := 0; j < rv.Len(); j++ {
			items[j] = FromGo(rv.Index(j).Interface())
		}
		return List(items...)
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return dictFromMap(rv)
		}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
	}
	return String(fmt.Sprintf("%v", v))
}

// dictFromMap converts a string-keyed map, ordering keys so that the
// resulting dict is deterministic.
func dictFromMap(rv reflect.Value) *Obj {
	keys := rv.MapKeys()
	names := make([]string, len(keys))
	for j, k := range keys {
		names[j] = k.String()
	}
	slices.Sort(names)
	d := &DictType{Items: make(map[string]*Obj, len(names))}
	for _, name := range names {
		d.Set(name, FromGo(rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key())).Interface()))
	}
	return &Obj{intrep: d}
}

// Go converts the object into a plain Go value: nil, string, int64, float64,
// bool, []any or map[string]any. Proxies and other custom internal
// representations are returned as their ObjType.
func (o *Obj) Go() any {
	if o == nil {
		return nil
	}
	switch rep := o.intrep.(type) {
	case nil:
		return o.bytes
	case IntType:
		return int64(rep)
	case DoubleType:
		return float64(rep)
	case BoolType:
		return bool(rep)
	case ListType:
		out := make([]any, len(rep))
		for j, item := range rep {
			out[j] = item.Go()
		}
		return out
	case *DictType:
		out := make(map[string]any, len(rep.Items))
		for k, v := range rep.Items {
			out[k] = v.Go()
		}
		return out
	default:
		return rep
	}
}
