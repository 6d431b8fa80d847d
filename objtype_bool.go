package jsproxy

// BoolType is the internal representation for boolean values.
type BoolType bool

func (t BoolType) Name() string { return "bool" }
func (t BoolType) Dup() ObjType { return t }
func (t BoolType) UpdateString() string {
	if t {
		return "true"
	}
	return "false"
}

func (t BoolType) IntoBool() (bool, bool) { return bool(t), true }
func (t BoolType) IntoInt() (int64, bool) {
	if t {
		return 1, true
	}
	return 0, true
}
