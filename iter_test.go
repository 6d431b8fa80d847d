package jsproxy_test

import (
	"errors"
	"testing"

	"github.com/feather-lang/jsproxy"
	"github.com/feather-lang/jsproxy/jsheap"
)

const failingIterator = `({
	i: 0,
	next() {
		if (this.i++ < 2) {
			return {done: false, value: this.i};
		}
		throw new Error("boom");
	},
})`

func TestNextExhaustion(t *testing.T) {
	f := setup(t)
	it := f.eval(t, `({i: 0, next() { return this.i < 2 ? {done: false, value: "v" + this.i++} : {done: true}; }})`)
	p := proxyOf(t, it)

	for _, want := range []string{"v0", "v1"} {
		v, ok, err := p.Next()
		if err != nil || !ok {
			t.Fatalf("expected %s, got ok=%v err=%v", want, ok, err)
		}
		if v.String() != want {
			t.Errorf("expected %q, got %q", want, v.String())
		}
	}
	for range 2 {
		v, ok, err := p.Next()
		if err != nil || ok || v != nil {
			t.Errorf("expected exhaustion, got %v ok=%v err=%v", v, ok, err)
		}
	}

	p.Release()
	f.checkBalanced(t)
}

func TestNextFailureIsNotExhaustion(t *testing.T) {
	f := setup(t)
	p := proxyOf(t, f.eval(t, failingIterator))

	for range 2 {
		if _, ok, err := p.Next(); err != nil || !ok {
			t.Fatalf("expected a value, got ok=%v err=%v", ok, err)
		}
	}
	v, ok, err := p.Next()
	if ok || v != nil {
		t.Errorf("expected no value, got %v ok=%v", v, ok)
	}
	if !errors.Is(err, jsproxy.ErrIterationFailed) {
		t.Errorf("expected ErrIterationFailed, got %v", err)
	}
	if !errors.Is(err, jsheap.ErrNextFailed) {
		t.Errorf("expected the table failure to be wrapped, got %v", err)
	}

	p.Release()
	f.checkBalanced(t)
}

func TestAllStopsAtFailure(t *testing.T) {
	f := setup(t)
	p := proxyOf(t, f.eval(t, failingIterator))
	defer p.Release()

	var values []int64
	var failures int
	for v, err := range p.All() {
		if err != nil {
			failures++
			continue
		}
		n, _ := v.Int()
		values = append(values, n)
	}
	if len(values) != 2 || values[0] != 1 || values[1] != 2 {
		t.Errorf("expected [1 2], got %v", values)
	}
	if failures != 1 {
		t.Errorf("expected one failure, got %d", failures)
	}
}

func TestAllEarlyBreak(t *testing.T) {
	f := setup(t)
	p := proxyOf(t, f.eval(t, "new Set(['a', 'b', 'c'])"))

	for v, err := range p.All() {
		if err != nil {
			t.Fatalf("iteration failed: %v", err)
		}
		if v.String() != "a" {
			t.Errorf("expected 'a', got %q", v.String())
		}
		break
	}
	// The iterator continues where the loop stopped.
	v, ok, err := p.Next()
	if err != nil || !ok || v.String() != "b" {
		t.Errorf("expected 'b', got %v ok=%v err=%v", v, ok, err)
	}

	p.Release()
	f.checkBalanced(t)
}

func TestIterNotIterable(t *testing.T) {
	f := setup(t)
	p := proxyOf(t, f.eval(t, "42"))
	defer p.Release()

	if p.Iter() != p {
		t.Error("expected Iter to return the proxy itself")
	}
	if _, _, err := p.Next(); !errors.Is(err, jsproxy.ErrIterationFailed) {
		t.Errorf("expected ErrIterationFailed, got %v", err)
	}
}
