package jsproxy

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Capability is a protocol a registered type supports.
type Capability uint16

const (
	CapCall       Capability = 1 << iota // callable with positional arguments
	CapAttributes                        // attribute read/write/delete
	CapMapping                           // indexed read/write/delete and length
	CapIterable                          // can produce an iterator
	CapIterator                          // can be advanced
	CapCompare                           // rich comparison
	CapConstruct                         // construction via "new"
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{CapCall, "call"},
	{CapAttributes, "attributes"},
	{CapMapping, "mapping"},
	{CapIterable, "iterable"},
	{CapIterator, "iterator"},
	{CapCompare, "compare"},
	{CapConstruct, "construct"},
}

// Has reports whether every capability in want is present.
func (c Capability) Has(want Capability) bool { return c&want == want }

func (c Capability) String() string {
	var parts []string
	for _, cn := range capabilityNames {
		if c.Has(cn.c) {
			parts = append(parts, cn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// TypeInfo describes an internal representation known to the host.
type TypeInfo struct {
	Name string
	Doc  string
	Caps Capability
}

// typeRegistry is the process-wide table of registered types.
type typeRegistry struct {
	mu    sync.RWMutex
	types map[string]TypeInfo
}

var registry = &typeRegistry{types: make(map[string]TypeInfo)}

// RegisterType adds a type to the process-wide registry.
// Registering a name twice returns ErrTypeRegistered and keeps the first entry.
func RegisterType(info TypeInfo) error {
	if info.Name == "" {
		return fmt.Errorf("RegisterType: name is required")
	}
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.types[info.Name]; exists {
		return fmt.Errorf("RegisterType %s: %w", info.Name, ErrTypeRegistered)
	}
	registry.types[info.Name] = info
	return nil
}

// LookupType returns the registered info for name.
func LookupType(name string) (TypeInfo, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	info, ok := registry.types[name]
	return info, ok
}

// Types returns the registered type names, sorted.
func Types() []string {
	registry.mu.RLock()
	names := make([]string, 0, len(registry.types))
	for name := range registry.types {
		names = append(names, name)
	}
	registry.mu.RUnlock()
	slices.Sort(names)
	return names
}

// CapabilitiesOf returns the capabilities registered for v's type.
func CapabilitiesOf(v *Obj) Capability {
	info, ok := LookupType(v.Type())
	if !ok {
		return 0
	}
	return info.Caps
}

// Type names of the two proxy kinds.
const (
	ObjectProxyType = "JsProxy"
	BoundMethodType = "JsBoundMethod"
)

var initOnce sync.Once

// Init registers the proxy types with the host type registry.
// It runs once per process; [NewRuntime] calls it.
func Init() {
	initOnce.Do(func() {
		for _, info := range []TypeInfo{
			{
				Name: ObjectProxyType,
				Doc:  "A proxy to make a JavaScript object behave like a host object",
				Caps: CapCall | CapAttributes | CapMapping | CapIterable | CapIterator | CapCompare | CapConstruct,
			},
			{
				Name: BoundMethodType,
				Doc:  "A proxy to call a JavaScript method with its receiver bound",
				Caps: CapCall,
			},
		} {
			// A name claimed earlier keeps its first registration.
			_ = RegisterType(info)
		}
	})
}
