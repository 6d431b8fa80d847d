package jsproxy

import "iter"

// Iter returns the proxy itself: a foreign object serves as both the
// iterable and its iterator, advanced with Next.
func (p *ObjectProxy) Iter() *ObjectProxy { return p }

// Next advances the foreign iterator.
//
// It returns (value, true, nil) for each produced value and (nil, false, nil)
// once the foreign record reports done. A failed foreign step returns an
// error matching ErrIterationFailed; it is never confused with exhaustion.
func (p *ObjectProxy) Next() (*Obj, bool, error) {
	if err := p.check(); err != nil {
		return nil, false, err
	}
	table := p.rt.table

	record, err := table.Next(p.h)
	if err != nil {
		p.rt.logFailure("next", p.h, err)
		return nil, false, &iterationError{err: err}
	}
	defer table.Decref(record)

	done, err := table.GetMember(record, "done")
	if err != nil {
		return nil, false, &iterationError{err: err}
	}
	finished := table.Truthy(done)
	table.Decref(done)
	if finished {
		return nil, false, nil
	}

	value, err := table.GetMember(record, "value")
	if err != nil {
		return nil, false, &iterationError{err: err}
	}
	v, err := p.rt.toHostRelease(value)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// All returns a single-use sequence over the values produced by Next. A
// failed step is yielded once as (nil, err) and ends the sequence.
//
//	for v, err := range proxy.All() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(v)
//	}
func (p *ObjectProxy) All() iter.Seq2[*Obj, error] {
	return func(yield func(*Obj, error) bool) {
		for {
			v, ok, err := p.Next()
			if err != nil {
				yield(nil, err)
				return
			}
			if !ok || !yield(v, nil) {
				return
			}
		}
	}
}
