package jsproxy

import "fmt"

// CompareOp is a rich comparison operator.
type CompareOp int

const (
	OpLT CompareOp = iota // <
	OpLE                  // <=
	OpEQ                  // ==
	OpNE                  // !=
	OpGT                  // >
	OpGE                  // >=
)

var compareOpNames = [...]string{"<", "<=", "==", "!=", ">", ">="}

func (op CompareOp) String() string {
	if op < OpLT || op > OpGE {
		return fmt.Sprintf("CompareOp(%d)", int(op))
	}
	return compareOpNames[op]
}

// ParseCompareOp parses one of "<", "<=", "==", "!=", ">", ">=".
func ParseCompareOp(s string) (CompareOp, error) {
	for i, name := range compareOpNames {
		if name == s {
			return CompareOp(i), nil
		}
	}
	return 0, fmt.Errorf("unknown comparison operator %q", s)
}

// heterogeneousCompare is the result of comparing a proxy with a value
// that is not foreign-backed: never equal, and not orderable.
func heterogeneousCompare(op CompareOp) (bool, error) {
	switch op {
	case OpEQ:
		return false, nil
	case OpNE:
		return true, nil
	default:
		return false, ErrNotImplemented
	}
}
