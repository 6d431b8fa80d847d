package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Prompt != "js> " || cfg.LogLevel != "warn" || len(cfg.convertOptions()) != 0 {
		t.Errorf("unexpected defaults %+v", cfg)
	}

	path := filepath.Join(t.TempDir(), "shell.yaml")
	src := "prompt: '> '\ncontainer_copy: false\nmax_depth: 3\nprelude:\n  - js a = [1]\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Prompt != "> " || cfg.LogLevel != "warn" || len(cfg.Prelude) != 1 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if n := len(cfg.convertOptions()); n != 2 {
		t.Errorf("expected 2 convert options, got %d", n)
	}
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	if _, err := newLogger("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestRunScript(t *testing.T) {
	session, err := newSession(defaultConfig())
	if err != nil {
		t.Fatalf("newSession failed: %v", err)
	}
	defer session.Close()

	in := strings.NewReader("js arr = [1, 2]\nlen arr\nbogus\n# done\nrelease arr\nrefs\n")
	var out, errOut bytes.Buffer
	err = runScript(session, in, &out, &errOut)
	if err == nil || !strings.Contains(err.Error(), "1 command(s) failed") {
		t.Errorf("expected one failed command, got %v", err)
	}
	if out.String() != "2\nproxies=0 handles=0\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if !strings.HasPrefix(errOut.String(), "line 3: error: bogus: unknown command") {
		t.Errorf("unexpected error output %q", errOut.String())
	}
}

func TestComplete(t *testing.T) {
	session, err := newSession(defaultConfig())
	if err != nil {
		t.Fatalf("newSession failed: %v", err)
	}
	defer session.Close()
	if _, err := session.Exec("js point = ({x: 1})"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		line    string
		want    string
		wantPos int
		ok      bool
	}{
		{"typ", "typeof ", 7, true},
		{"se", "set", 3, true},
		{"get po", "get point", 9, true},
		{"cmp point == $po", "cmp point == $point", 19, true},
		{"get zz", "", 0, false},
		{"refs", "refs ", 5, true},
	}
	for _, tt := range tests {
		got, pos, ok := complete(session, tt.line, len(tt.line))
		if ok != tt.ok || got != tt.want || pos != tt.wantPos {
			t.Errorf("complete(%q): expected %q %d %v, got %q %d %v", tt.line, tt.want, tt.wantPos, tt.ok, got, pos, ok)
		}
	}
}
