package jsproxy

import "fmt"

// Handle identifies one foreign value held by a HandleTable.
// The zero Handle never refers to a value.
type Handle int32

// NoHandle is the zero Handle.
const NoHandle Handle = 0

func (h Handle) String() string { return fmt.Sprintf("#%d", int32(h)) }

// HandleTable is the reference-counted store of foreign values that proxies
// delegate to.
//
// Every method returning a Handle returns a new reference that the caller
// must Decref exactly once. Handle arguments are borrowed.
type HandleTable interface {
	Incref(h Handle) Handle
	Decref(h Handle)

	// ToString returns the foreign string conversion of h.
	ToString(h Handle) (Handle, error)
	// TypeOf returns the foreign runtime type tag of h as a foreign string.
	TypeOf(h Handle) (Handle, error)

	GetMember(h Handle, name string) (Handle, error)
	SetMember(h Handle, name string, v Handle) error
	DeleteMember(h Handle, name string) error

	// The Obj variants take an arbitrary foreign key rather than a name.
	GetMemberObj(h, key Handle) (Handle, error)
	SetMemberObj(h, key, v Handle) error
	DeleteMemberObj(h, key Handle) error

	IsFunction(h Handle) bool
	Truthy(h Handle) bool

	NewArray() Handle
	PushArray(array, v Handle) error

	// Call invokes h with the elements of args as arguments.
	Call(h, args Handle) (Handle, error)
	// CallMember invokes receiver[name] with receiver bound as this.
	CallMember(receiver Handle, name string, args Handle) (Handle, error)
	// BindMember returns receiver[name] with receiver bound as this.
	BindMember(receiver Handle, name string) (Handle, error)
	// New constructs h with the elements of args as arguments.
	New(h, args Handle) (Handle, error)

	Length(h Handle) (int, error)
	// Next advances the foreign iterator h and returns its {done, value}
	// record. A failed step is reported as an error, never as a record.
	Next(h Handle) (Handle, error)

	Compare(op CompareOp, a, b Handle) (bool, error)

	// Keys lists the own enumerable string keys of h.
	Keys(h Handle) ([]string, error)
}

// Translator converts values between the host and the foreign runtime.
type Translator interface {
	// ToForeign returns a new reference to the foreign form of v.
	ToForeign(rt *Runtime, v *Obj) (Handle, error)
	// ToHost returns the host form of h. The handle is borrowed: proxies
	// created for it take their own reference.
	ToHost(rt *Runtime, h Handle) (*Obj, error)
}
