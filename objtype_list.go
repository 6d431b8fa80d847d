package jsproxy

import (
	"slices"
	"strings"
)

// ListType is the internal representation for list values.
type ListType []*Obj

func (t ListType) Name() string { return "list" }
func (t ListType) Dup() ObjType { return ListType(slices.Clone(t)) }
func (t ListType) UpdateString() string {
	var result strings.Builder
	result.WriteByte('[')
	for i, item := range t {
		if i > 0 {
			result.WriteString(", ")
		}
		result.WriteString(reprOf(item))
	}
	result.WriteByte(']')
	return result.String()
}

func (t ListType) IntoList() ([]*Obj, bool) { return t, true }

// reprOf renders a nested element, quoting pure strings.
func reprOf(o *Obj) string {
	switch {
	case o == nil:
		return "none"
	case o.intrep == nil:
		return quote(o.bytes)
	default:
		return o.String()
	}
}
