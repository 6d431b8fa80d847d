package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/feather-lang/jsproxy/internal/script"
)

// runREPL reads commands from the terminal in raw mode until Ctrl-D or exit.
func runREPL(session *script.Session, prompt string) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, oldState)

	screen := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}
	t := term.NewTerminal(screen, prompt)
	t.AutoCompleteCallback = func(line string, pos int, key rune) (string, int, bool) {
		if key != '\t' {
			return "", 0, false
		}
		return complete(session, line, pos)
	}

	resize := func() {
		if w, h, err := term.GetSize(fd); err == nil {
			t.SetSize(w, h)
		}
	}
	resize()
	winch, stop := resizeSignal()
	defer stop()
	go func() {
		for range winch {
			resize()
		}
	}()

	fmt.Fprintln(t, "jsproxy shell - Tab completes, Ctrl-D exits, help lists commands")
	for {
		line, err := t.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(line) {
		case "exit", "quit":
			return nil
		case "help":
			fmt.Fprintln(t, strings.Join(script.Commands(), " "))
			continue
		}

		out, err := session.Exec(line)
		if err != nil {
			fmt.Fprintf(t, "error: %v\n", err)
		} else if out != "" {
			fmt.Fprintln(t, out)
		}
	}
}

// complete extends the word before pos: a command name in first position,
// a variable name elsewhere. It only completes a unique match or the
// longest common prefix of several.
func complete(session *script.Session, line string, pos int) (string, int, bool) {
	head := line[:pos]
	start := strings.LastIndexAny(head, " \t") + 1
	word := head[start:]

	dollar := strings.HasPrefix(word, "$")
	isCmd := strings.TrimSpace(head[:start]) == ""
	pool := session.Vars()
	if isCmd {
		pool = script.Commands()
	}

	prefix := strings.TrimPrefix(word, "$")
	var matches []string
	for _, name := range pool {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}
	if len(matches) == 0 {
		return "", 0, false
	}

	fill := commonPrefix(matches)
	if len(matches) == 1 && isCmd {
		fill += " "
	}
	if dollar {
		fill = "$" + fill
	}
	if fill == word {
		return "", 0, false
	}
	return head[:start] + fill + line[pos:], start + len(fill), true
}

func commonPrefix(words []string) string {
	prefix := words[0]
	for _, w := range words[1:] {
		for !strings.HasPrefix(w, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
