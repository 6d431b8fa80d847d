package jsproxy

import (
	"runtime"

	"go.uber.org/zap"
)

// Foreign is a host value backed by a foreign handle. Its only
// implementations are *ObjectProxy and *BoundMethodProxy.
type Foreign interface {
	ObjType
	Callable

	// Release drops the proxy's handle reference. Later calls do nothing.
	Release()

	foreign()
}

// ref is the single handle reference a proxy owns.
type ref struct {
	rt       *Runtime
	h        Handle
	released bool
	cleanup  runtime.Cleanup
}

// acquire increments h and arranges for the reference to be released if
// owner is garbage collected before release is called.
func acquire[T any](rt *Runtime, owner *T, h Handle, kind string) ref {
	rt.Collect()
	r := ref{rt: rt, h: rt.table.Incref(h)}
	r.cleanup = runtime.AddCleanup(owner, rt.enqueue, leak{h: r.h, kind: kind})
	rt.live++
	rt.logger.Debug("proxy created", zap.String("kind", kind), zap.Stringer("handle", r.h))
	return r
}

// release decrements the handle on the first call only.
func (r *ref) release(kind string) {
	if r.released {
		return
	}
	r.released = true
	r.cleanup.Stop()
	r.rt.table.Decref(r.h)
	r.rt.live--
	r.rt.logger.Debug("proxy released", zap.String("kind", kind), zap.Stringer("handle", r.h))
}

// check drains queued releases and rejects use after release.
func (r *ref) check() error {
	if r.released {
		return ErrReleased
	}
	r.rt.Collect()
	return nil
}

// IsForeignProxy reports whether v is an ObjectProxy or a BoundMethodProxy.
func IsForeignProxy(v *Obj) bool {
	_, ok := AsForeign(v)
	return ok
}

// AsForeign returns the proxy inside v.
func AsForeign(v *Obj) (Foreign, bool) {
	switch p := v.InternalRep().(type) {
	case *ObjectProxy:
		return p, true
	case *BoundMethodProxy:
		return p, true
	}
	return nil, false
}

// ExtractHandle returns a new reference to the foreign value behind v, for
// collaborators that need the raw handle (translators use it to avoid
// wrapping a proxy in another proxy). For a BoundMethodProxy the result is
// the method currently stored under its name, bound to the receiver.
func ExtractHandle(v *Obj) (Handle, error) {
	switch p := v.InternalRep().(type) {
	case *ObjectProxy:
		if err := p.check(); err != nil {
			return NoHandle, err
		}
		return p.rt.table.Incref(p.h), nil
	case *BoundMethodProxy:
		if err := p.check(); err != nil {
			return NoHandle, err
		}
		h, err := p.rt.table.BindMember(p.h, p.name)
		if err != nil {
			return NoHandle, p.rt.foreignErr("bind method "+p.name, p.h, err)
		}
		return h, nil
	}
	return NoHandle, ErrNotForeign
}

// ReleaseAll releases every proxy in values, including proxies nested in
// lists and dicts. Other values are ignored. A container shared by several
// parents is visited once.
func ReleaseAll(values ...*Obj) {
	releaseAll(values, make(map[*Obj]bool))
}

func releaseAll(values []*Obj, seen map[*Obj]bool) {
	for _, v := range values {
		switch rep := v.InternalRep().(type) {
		case *ObjectProxy:
			rep.Release()
		case *BoundMethodProxy:
			rep.Release()
		case ListType:
			if !seen[v] {
				seen[v] = true
				releaseAll(rep, seen)
			}
		case *DictType:
			if !seen[v] {
				seen[v] = true
				for _, item := range rep.Items {
					releaseAll([]*Obj{item}, seen)
				}
			}
		}
	}
}
