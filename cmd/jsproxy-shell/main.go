// jsproxy-shell is an interactive shell for the jsproxy command language.
// It reads commands from a terminal with line editing, or from a script
// file or stdin otherwise.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/feather-lang/jsproxy"
	"github.com/feather-lang/jsproxy/convert"
	"github.com/feather-lang/jsproxy/internal/script"
	"github.com/feather-lang/jsproxy/jsheap"
)

func main() {
	var (
		configPath string
		logLevel   string
		noCopy     bool
	)

	cmd := &cobra.Command{
		Use:          "jsproxy-shell [flags] [script]",
		Short:        "Interactive shell for JavaScript object proxies",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if noCopy {
				off := false
				cfg.ContainerCopy = &off
			}

			session, err := newSession(cfg)
			if err != nil {
				return err
			}
			defer session.Close()

			for _, line := range cfg.Prelude {
				if _, err := session.Exec(line); err != nil {
					return fmt.Errorf("prelude: %w", err)
				}
			}

			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				return runScript(session, f, cmd.OutOrStdout(), cmd.ErrOrStderr())
			}
			if term.IsTerminal(int(os.Stdin.Fd())) {
				return runREPL(session, cfg.Prompt)
			}
			return runScript(session, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML configuration file")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&noCopy, "no-copy", false, "keep foreign arrays and objects as proxies")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newSession(cfg Config) (*script.Session, error) {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	table, err := jsheap.New(jsheap.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	rt := jsproxy.NewRuntime(table, convert.New(table, cfg.convertOptions()...), jsproxy.WithLogger(logger))
	return script.NewSession(rt, table), nil
}

// runScript executes every line of r. A failing line is reported and the
// rest still run; the returned error says that at least one failed.
func runScript(session *script.Session, r io.Reader, out, errOut io.Writer) error {
	scanner := bufio.NewScanner(r)
	failed := 0
	for lineNo := 1; scanner.Scan(); lineNo++ {
		res, err := session.Exec(scanner.Text())
		if err != nil {
			fmt.Fprintf(errOut, "line %d: error: %v\n", lineNo, err)
			failed++
			continue
		}
		if res != "" {
			fmt.Fprintln(out, res)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d command(s) failed", failed)
	}
	return nil
}
