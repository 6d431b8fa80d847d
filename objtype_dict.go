package jsproxy

import "strings"

// DictType is the internal representation for dictionary values.
// Order records key insertion order.
type DictType struct {
	Items map[string]*Obj
	Order []string
}

func (t *DictType) Name() string { return "dict" }

func (t *DictType) Dup() ObjType {
	newItems := make(map[string]*Obj, len(t.Items))
	for k, v := range t.Items {
		newItems[k] = v
	}
	newOrder := make([]string, len(t.Order))
	copy(newOrder, t.Order)
	return &DictType{Items: newItems, Order: newOrder}
}

func (t *DictType) UpdateString() string {
	var result strings.Builder
	result.WriteByte('{')
	for i, key := range t.Order {
		if i > 0 {
			result.WriteString(", ")
		}
		result.WriteString(quote(key))
		result.WriteString(": ")
		result.WriteString(reprOf(t.Items[key]))
	}
	result.WriteByte('}')
	return result.String()
}

func (t *DictType) IntoDict() (map[string]*Obj, []string, bool) {
	return t.Items, t.Order, true
}

// Get returns the value stored under key.
func (t *DictType) Get(key string) (*Obj, bool) {
	v, ok := t.Items[key]
	return v, ok
}

// Set stores val under key, appending key to the order if it is new.
func (t *DictType) Set(key string, val *Obj) {
	if t.Items == nil {
		t.Items = make(map[string]*Obj)
	}
	if _, exists := t.Items[key]; !exists {
		t.Order = append(t.Order, key)
	}
	t.Items[key] = val
}

// Len returns the number of entries.
func (t *DictType) Len() int { return len(t.Order) }
