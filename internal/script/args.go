package script

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// splitArgs splits a command line into words at whitespace. Quoted strings
// and bracketed flow collections ([...] and {...}) are kept whole, so YAML
// literals such as {a: 1, b: "x y"} form one word.
func splitArgs(line string) ([]string, error) {
	var (
		words []string
		cur   strings.Builder
		depth int
		quote rune
		esc   bool
		inTok bool
	)
	flush := func() {
		if inTok {
			words = append(words, cur.String())
			cur.Reset()
			inTok = false
		}
	}

	for _, r := range line {
		if quote != 0 {
			cur.WriteRune(r)
			switch {
			case esc:
				esc = false
			case r == '\\' && quote == '"':
				esc = true
			case r == quote:
				quote = 0
			}
			continue
		}
		switch {
		case r == '"' || r == '\'':
			quote = r
			inTok = true
			cur.WriteRune(r)
		case r == '[' || r == '{':
			depth++
			inTok = true
			cur.WriteRune(r)
		case r == ']' || r == '}':
			if depth == 0 {
				return nil, fmt.Errorf("unbalanced %q", r)
			}
			depth--
			cur.WriteRune(r)
		case unicode.IsSpace(r) && depth == 0:
			flush()
		default:
			inTok = true
			cur.WriteRune(r)
		}
	}
	if quote != 0 {
		return nil, errors.New("unterminated string")
	}
	if depth != 0 {
		return nil, errors.New("unterminated collection")
	}
	flush()
	return words, nil
}
