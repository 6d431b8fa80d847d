package jsproxy

import (
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// Runtime binds proxies to a HandleTable and a Translator.
//
// A Runtime is not safe for concurrent use: all proxy operations must run on
// one goroutine at a time. The only exception is the GC cleanup of proxies that
// were never released, which queues their handles for the owning goroutine.
//
//	table, _ := jsheap.New()
//	rt := jsproxy.NewRuntime(table, convert.New(table))
//	defer rt.Close()
type Runtime struct {
	table  HandleTable
	conv   Translator
	logger *zap.Logger

	live int // proxies holding a reference

	mu      sync.Mutex
	pending []leak // handles of proxies collected without Release
}

// leak records a proxy reclaimed by the garbage collector.
type leak struct {
	h    Handle
	kind string
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used for proxy lifecycle events.
func WithLogger(l *zap.Logger) Option {
	return func(rt *Runtime) {
		if l != nil {
			rt.logger = l
		}
	}
}

// NewRuntime creates a Runtime. It performs the one-time type registration
// (see [Init]) before any proxy can be constructed.
func NewRuntime(table HandleTable, conv Translator, opts ...Option) *Runtime {
	Init()
	rt := &Runtime{
		table:  table,
		conv:   conv,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Table returns the handle table.
func (rt *Runtime) Table() HandleTable { return rt.table }

// Translator returns the value translator.
func (rt *Runtime) Translator() Translator { return rt.conv }

// Logger returns the runtime's logger.
func (rt *Runtime) Logger() *zap.Logger { return rt.logger }

// Wrap creates an ObjectProxy for h inside a host object.
// The proxy takes its own reference; the caller keeps ownership of h.
func (rt *Runtime) Wrap(h Handle) *Obj {
	return NewObj(NewObjectProxy(rt, h))
}

// Live returns the number of proxies that still hold a handle reference.
func (rt *Runtime) Live() int {
	rt.Collect()
	return rt.live
}

// Collect releases the handles of proxies that were garbage collected
// without an explicit Release. It returns how many were released.
// Every proxy operation calls Collect first.
func (rt *Runtime) Collect() int {
	rt.mu.Lock()
	pending := rt.pending
	rt.pending = nil
	rt.mu.Unlock()

	for _, l := range pending {
		rt.logger.Warn("releasing unreleased proxy",
			zap.String("kind", l.kind),
			zap.Stringer("handle", l.h))
		rt.table.Decref(l.h)
		rt.live--
	}
	return len(pending)
}

// Close releases queued handles. Proxies still reachable keep their
// references until they are released.
func (rt *Runtime) Close() {
	if n := rt.Collect(); n > 0 {
		rt.logger.Debug("runtime closed", zap.Int("collected", n))
	}
}

// enqueue is run by runtime cleanups, possibly on another goroutine.
func (rt *Runtime) enqueue(l leak) {
	rt.mu.Lock()
	rt.pending = append(rt.pending, l)
	rt.mu.Unlock()
}

func (rt *Runtime) toForeign(v *Obj) (Handle, error) {
	return rt.conv.ToForeign(rt, v)
}

// toHostRelease translates h and releases it, whatever the outcome.
func (rt *Runtime) toHostRelease(h Handle) (*Obj, error) {
	defer rt.table.Decref(h)
	return rt.conv.ToHost(rt, h)
}

// marshalArgs builds a foreign argument array from args. Each translated
// argument is released once pushed; on failure the array is released too.
func (rt *Runtime) marshalArgs(args []*Obj) (Handle, error) {
	array := rt.table.NewArray()
	for i, arg := range args {
		h, err := rt.toForeign(arg)
		if err != nil {
			rt.table.Decref(array)
			return NoHandle, rt.foreignErr(argOp(i), array, err)
		}
		err = rt.table.PushArray(array, h)
		rt.table.Decref(h)
		if err != nil {
			rt.table.Decref(array)
			return NoHandle, rt.foreignErr(argOp(i), array, err)
		}
	}
	return array, nil
}

// invoke runs a foreign call on h built from args and translates its
// result. The argument array and the result are released before returning.
func (rt *Runtime) invoke(op string, h Handle, args []*Obj, call func(array Handle) (Handle, error)) (*Obj, error) {
	rt.Collect()
	array, err := rt.marshalArgs(args)
	if err != nil {
		return nil, err
	}
	result, err := call(array)
	rt.table.Decref(array)
	if err != nil {
		return nil, rt.foreignErr(op, h, err)
	}
	return rt.toHostRelease(result)
}

// logFailure records a failed foreign operation on h at debug level.
func (rt *Runtime) logFailure(op string, h Handle, err error) {
	rt.logger.Debug("foreign operation failed",
		zap.String("op", op),
		zap.Stringer("handle", h),
		zap.Error(err))
}

func argOp(i int) string {
	return "argument " + strconv.Itoa(i+1)
}
