// Package script implements a small line-oriented command language over
// jsproxy proxies. It backs the interactive shell and the scenario runner.
//
// Each line is one command. Variables hold host values; proxies are created
// with js and released with release:
//
//	js obj = ({name: "x", greet(g) { return g + " " + this.name; }})
//	get obj greet -> greet
//	call greet "hi"          # "hi x"
//	release greet
//	release obj
//	refs                     # proxies=0 handles=0
package script

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/feather-lang/jsproxy"
	"github.com/feather-lang/jsproxy/jsheap"
)

// ErrUnknownCommand is returned for a line whose first word is not a command.
var ErrUnknownCommand = errors.New("unknown command")

var commands = []string{
	"call", "cmp", "del", "delitem", "get", "item", "iter", "js", "keys",
	"len", "new", "refs", "release", "repr", "set", "setitem", "typeof", "vars",
}

// Commands returns the sorted names of the commands Exec understands.
func Commands() []string { return slices.Clone(commands) }

// Session is a set of named variables bound to one runtime.
type Session struct {
	rt    *jsproxy.Runtime
	table *jsheap.Table
	vars  map[string]*jsproxy.Obj
}

// NewSession creates an empty session. rt must use table.
func NewSession(rt *jsproxy.Runtime, table *jsheap.Table) *Session {
	return &Session{rt: rt, table: table, vars: make(map[string]*jsproxy.Obj)}
}

// Runtime returns the session's runtime.
func (s *Session) Runtime() *jsproxy.Runtime { return s.rt }

// Var returns the value of a variable.
func (s *Session) Var(name string) (*jsproxy.Obj, bool) {
	v, ok := s.vars[strings.TrimPrefix(name, "$")]
	return v, ok
}

// Vars returns the variable names, sorted.
func (s *Session) Vars() []string {
	return slices.Sorted(maps.Keys(s.vars))
}

// Close releases every variable.
func (s *Session) Close() {
	for name, v := range s.vars {
		jsproxy.ReleaseAll(v)
		delete(s.vars, name)
	}
	s.rt.Collect()
}

// Exec runs one command and returns its printable result. Blank lines and
// lines starting with # produce no output.
func (s *Session) Exec(line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", nil
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	s.rt.Logger().Debug("exec", zap.String("cmd", cmd), zap.String("args", rest))

	if cmd == "js" {
		return s.js(rest)
	}
	args, err := splitArgs(rest)
	if err != nil {
		return "", fmt.Errorf("%s: %w", cmd, err)
	}

	out, err := s.dispatch(cmd, args)
	if err != nil {
		return "", fmt.Errorf("%s: %w", cmd, err)
	}
	return out, nil
}

func (s *Session) dispatch(cmd string, args []string) (string, error) {
	args, target, err := splitTarget(args)
	if err != nil {
		return "", err
	}

	switch cmd {
	case "get":
		if err := arity(args, 2, 2); err != nil {
			return "", err
		}
		p, err := s.proxy(args[0])
		if err != nil {
			return "", err
		}
		return s.result(target)(p.GetAttr(args[1]))

	case "set":
		if err := arity(args, 3, 3); err != nil {
			return "", err
		}
		p, err := s.proxy(args[0])
		if err != nil {
			return "", err
		}
		v, err := s.parseLiteral(args[2])
		if err != nil {
			return "", err
		}
		return "", p.SetAttr(args[1], v)

	case "del":
		if err := arity(args, 2, 2); err != nil {
			return "", err
		}
		p, err := s.proxy(args[0])
		if err != nil {
			return "", err
		}
		return "", p.DelAttr(args[1])

	case "call", "new":
		if err := arity(args, 1, -1); err != nil {
			return "", err
		}
		fn, err := s.lookup(args[0])
		if err != nil {
			return "", err
		}
		callArgs, err := s.literals(args[1:])
		if err != nil {
			return "", err
		}
		if cmd == "call" {
			return s.result(target)(fn.Call(callArgs...))
		}
		p, err := s.proxy(args[0])
		if err != nil {
			return "", err
		}
		return s.result(target)(p.New(callArgs...))

	case "item":
		if err := arity(args, 2, 2); err != nil {
			return "", err
		}
		p, err := s.proxy(args[0])
		if err != nil {
			return "", err
		}
		key, err := s.parseLiteral(args[1])
		if err != nil {
			return "", err
		}
		return s.result(target)(p.GetItem(key))

	case "setitem":
		if err := arity(args, 3, 3); err != nil {
			return "", err
		}
		p, err := s.proxy(args[0])
		if err != nil {
			return "", err
		}
		kv, err := s.literals(args[1:])
		if err != nil {
			return "", err
		}
		return "", p.SetItem(kv[0], kv[1])

	case "delitem":
		if err := arity(args, 2, 2); err != nil {
			return "", err
		}
		p, err := s.proxy(args[0])
		if err != nil {
			return "", err
		}
		key, err := s.parseLiteral(args[1])
		if err != nil {
			return "", err
		}
		return "", p.DelItem(key)

	case "len":
		p, err := s.unary(args)
		if err != nil {
			return "", err
		}
		n, err := p.Len()
		if err != nil {
			return "", err
		}
		return strconv.Itoa(n), nil

	case "typeof":
		p, err := s.unary(args)
		if err != nil {
			return "", err
		}
		return s.result(target)(p.TypeOf())

	case "repr":
		p, err := s.unary(args)
		if err != nil {
			return "", err
		}
		return p.Repr()

	case "iter":
		p, err := s.unary(args)
		if err != nil {
			return "", err
		}
		var values []*jsproxy.Obj
		for v, err := range p.All() {
			if err != nil {
				jsproxy.ReleaseAll(values...)
				return "", err
			}
			values = append(values, v)
		}
		return s.result(target)(jsproxy.List(values...), nil)

	case "cmp":
		if err := arity(args, 3, 3); err != nil {
			return "", err
		}
		p, err := s.proxy(args[0])
		if err != nil {
			return "", err
		}
		op, err := jsproxy.ParseCompareOp(args[1])
		if err != nil {
			return "", err
		}
		other, err := s.parseLiteral(args[2])
		if err != nil {
			return "", err
		}
		ok, err := p.Compare(other, op)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(ok), nil

	case "keys":
		p, err := s.unary(args)
		if err != nil {
			return "", err
		}
		keys, err := p.Keys()
		if err != nil {
			return "", err
		}
		return jsproxy.FromGo(keys).String(), nil

	case "release":
		if err := arity(args, 1, -1); err != nil {
			return "", err
		}
		for _, name := range args {
			name = strings.TrimPrefix(name, "$")
			v, ok := s.vars[name]
			if !ok {
				return "", fmt.Errorf("no such variable %q", name)
			}
			jsproxy.ReleaseAll(v)
			delete(s.vars, name)
		}
		return "", nil

	case "refs":
		if err := arity(args, 0, 0); err != nil {
			return "", err
		}
		return fmt.Sprintf("proxies=%d handles=%d", s.rt.Live(), s.table.Live()), nil

	case "vars":
		if err := arity(args, 0, 0); err != nil {
			return "", err
		}
		parts := make([]string, 0, len(s.vars))
		for _, name := range s.Vars() {
			parts = append(parts, name+":"+s.vars[name].Type())
		}
		return strings.Join(parts, " "), nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownCommand, cmd)
}

// js evaluates source. With "name = source" the value is kept as a proxy
// in the variable name and bound to the global name as well; otherwise it
// is converted and printed.
func (s *Session) js(rest string) (string, error) {
	name, src, ok := strings.Cut(rest, "=")
	name = strings.TrimSpace(name)
	if !ok || !isIdent(name) || strings.HasPrefix(src, "=") || strings.HasPrefix(src, ">") {
		name, src = "", rest
	}

	h, err := s.table.Eval(src)
	if err != nil {
		return "", fmt.Errorf("js: %w", err)
	}
	defer s.table.Decref(h)

	if name != "" {
		if err := s.table.SetGlobal(name, h); err != nil {
			return "", fmt.Errorf("js: %w", err)
		}
		s.store(name, s.rt.Wrap(h))
		return "", nil
	}
	v, err := s.rt.Translator().ToHost(s.rt, h)
	if err != nil {
		return "", fmt.Errorf("js: %w", err)
	}
	defer jsproxy.ReleaseAll(v)
	return show(v), nil
}

// result stores a command result in target, or prints and releases it.
func (s *Session) result(target string) func(*jsproxy.Obj, error) (string, error) {
	return func(v *jsproxy.Obj, err error) (string, error) {
		if err != nil {
			return "", err
		}
		if target != "" {
			s.store(target, v)
			return "", nil
		}
		out := show(v)
		jsproxy.ReleaseAll(v)
		return out, nil
	}
}

func (s *Session) store(name string, v *jsproxy.Obj) {
	if old, ok := s.vars[name]; ok && old != v {
		jsproxy.ReleaseAll(old)
	}
	s.vars[name] = v
}

func (s *Session) lookup(name string) (*jsproxy.Obj, error) {
	v, ok := s.Var(name)
	if !ok {
		return nil, fmt.Errorf("no such variable %q", strings.TrimPrefix(name, "$"))
	}
	return v, nil
}

func (s *Session) proxy(name string) (*jsproxy.ObjectProxy, error) {
	v, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	p, ok := v.InternalRep().(*jsproxy.ObjectProxy)
	if !ok {
		return nil, fmt.Errorf("%s is a %s, not a %s", name, v.Type(), jsproxy.ObjectProxyType)
	}
	return p, nil
}

func (s *Session) unary(args []string) (*jsproxy.ObjectProxy, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	return s.proxy(args[0])
}

func (s *Session) literals(srcs []string) ([]*jsproxy.Obj, error) {
	out := make([]*jsproxy.Obj, len(srcs))
	for i, src := range srcs {
		v, err := s.parseLiteral(src)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// splitTarget removes a trailing "-> name" from args.
func splitTarget(args []string) ([]string, string, error) {
	n := len(args)
	if n >= 2 && args[n-2] == "->" {
		if !isIdent(args[n-1]) {
			return nil, "", fmt.Errorf("bad variable name %q", args[n-1])
		}
		return args[:n-2], args[n-1], nil
	}
	return args, "", nil
}

// arity checks that there are at least lo and, unless hi is negative, at
// most hi arguments.
func arity(args []string, lo, hi int) error {
	if len(args) < lo || (hi >= 0 && len(args) > hi) {
		return fmt.Errorf("wrong # args: got %d", len(args))
	}
	return nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r != '_' && !('a' <= r && r <= 'z') && !('A' <= r && r <= 'Z') && (i == 0 || r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// show renders a value for output: strings are quoted and proxies are
// shown by type and foreign string form.
func show(v *jsproxy.Obj) string {
	switch rep := v.InternalRep().(type) {
	case nil:
		if v.IsNone() {
			return "none"
		}
		return strconv.Quote(v.String())
	case *jsproxy.ObjectProxy:
		return "<" + jsproxy.ObjectProxyType + " " + v.String() + ">"
	case *jsproxy.BoundMethodProxy:
		return "<" + jsproxy.BoundMethodType + " " + rep.MethodName() + ">"
	}
	return v.String()
}
