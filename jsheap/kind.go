package jsheap

// Kind classifies a JavaScript value. It refines typeof: arrays and plain
// objects (prototype Object.prototype or null) have their own kinds, and
// null is not an object.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindBigInt
	KindString
	KindSymbol
	KindFunction
	KindArray
	KindPlainObject
	KindObject
)

var kindNames = [...]string{
	KindUndefined:   "undefined",
	KindNull:        "null",
	KindBoolean:     "boolean",
	KindNumber:      "number",
	KindBigInt:      "bigint",
	KindString:      "string",
	KindSymbol:      "symbol",
	KindFunction:    "function",
	KindArray:       "array",
	KindPlainObject: "plain",
	KindObject:      "object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsContainer reports whether values of kind k can be copied element by
// element into a host list or dict.
func (k Kind) IsContainer() bool {
	return k == KindArray || k == KindPlainObject
}

func parseKind(s string) Kind {
	for k, name := range kindNames {
		if name == s {
			return Kind(k)
		}
	}
	return KindObject
}
