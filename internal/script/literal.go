package script

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/feather-lang/jsproxy"
)

// parseLiteral reads a YAML flow value: 42, 1.5, true, null, "text", bare
// words, [1, 2] or {a: 1}. A plain scalar $name anywhere in the value is
// replaced by the session variable name. Mapping order is preserved.
func (s *Session) parseLiteral(src string) (*jsproxy.Obj, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return nil, fmt.Errorf("bad literal %q: %w", src, err)
	}
	if len(doc.Content) == 0 {
		return jsproxy.String(""), nil
	}
	return s.fromNode(doc.Content[0])
}

func (s *Session) fromNode(n *yaml.Node) (*jsproxy.Obj, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return s.fromNode(n.Alias)
	case yaml.SequenceNode:
		items := make([]*jsproxy.Obj, len(n.Content))
		for i, c := range n.Content {
			v, err := s.fromNode(c)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return jsproxy.List(items...), nil
	case yaml.MappingNode:
		out := jsproxy.Dict()
		d := out.InternalRep().(*jsproxy.DictType)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := s.fromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			d.Set(n.Content[i].Value, v)
		}
		return out, nil
	case yaml.ScalarNode:
		if n.Style == 0 && n.Tag == "!!str" && strings.HasPrefix(n.Value, "$") {
			return s.lookup(n.Value)
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return jsproxy.FromGo(v), nil
	}
	return nil, fmt.Errorf("unsupported literal at line %d", n.Line)
}
