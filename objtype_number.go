package jsproxy

import (
	"math"
	"strconv"
	"strings"
)

// MaxSafeInteger is the largest integer a foreign number holds exactly.
const MaxSafeInteger = 1<<53 - 1

// IntType is the internal representation for integer values.
type IntType int64

func (t IntType) Name() string         { return "int" }
func (t IntType) Dup() ObjType         { return t }
func (t IntType) UpdateString() string { return strconv.FormatInt(int64(t), 10) }

func (t IntType) IntoInt() (int64, bool) { return int64(t), true }
func (t IntType) IntoBool() (bool, bool) { return t != 0, true }

// IntoDouble fails for integers outside ±MaxSafeInteger, which a float64
// would round.
func (t IntType) IntoDouble() (float64, bool) {
	if t > MaxSafeInteger || t < -MaxSafeInteger {
		return 0, false
	}
	return float64(t), true
}

// DoubleType is the internal representation for floating-point values.
type DoubleType float64

func (t DoubleType) Name() string { return "double" }
func (t DoubleType) Dup() ObjType { return t }
func (t DoubleType) UpdateString() string {
	s := strconv.FormatFloat(float64(t), 'g', -1, 64)
	switch s {
	case "+Inf":
		return "Infinity"
	case "-Inf":
		return "-Infinity"
	case "NaN":
		return s
	}
	// round numbers keep a fraction so they read back as doubles
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func (t DoubleType) IntoDouble() (float64, bool) { return float64(t), true }
func (t DoubleType) IntoBool() (bool, bool)      { return t != 0 && !math.IsNaN(float64(t)), true }

// IntoInt only succeeds for integral values.
func (t DoubleType) IntoInt() (int64, bool) {
	f := float64(t)
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

// Number converts a foreign number. Integral values within
// ±MaxSafeInteger become ints, everything else a double.
//
//	jsproxy.Number(3).Type()   // "int"
//	jsproxy.Number(0.5).Type() // "double"
func Number(f float64) *Obj {
	if f == math.Trunc(f) && math.Abs(f) <= MaxSafeInteger {
		return Int(int64(f))
	}
	return Double(f)
}
