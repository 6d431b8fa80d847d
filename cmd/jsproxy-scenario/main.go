// jsproxy-scenario runs YAML scenario files against fresh proxy runtimes
// and reports which passed.
package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/feather-lang/jsproxy/convert"
	"github.com/feather-lang/jsproxy/scenario"
)

// Config holds the scenario command's settings.
type Config struct {
	Paths     []string
	Verbose   bool
	Debug     bool
	NoCopy    bool
	Output    io.Writer
	ErrOutput io.Writer
}

func main() {
	var cfg Config

	cmd := &cobra.Command{
		Use:   "jsproxy-scenario [flags] <scenario-files-or-dirs>...",
		Short: "Run jsproxy scenario files",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg.Paths = args
			cfg.Output = os.Stdout
			cfg.ErrOutput = os.Stderr
			os.Exit(run(cfg))
		},
	}

	cmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "print the output of every step")
	cmd.Flags().BoolVar(&cfg.Debug, "debug", false, "log proxy and handle activity")
	cmd.Flags().BoolVar(&cfg.NoCopy, "no-copy", false, "keep foreign arrays and objects as proxies")

	cmd.Execute()
}

// run executes all scenarios and returns the process exit code.
func run(cfg Config) int {
	files, err := collectFiles(cfg.Paths)
	if err != nil {
		fmt.Fprintf(cfg.ErrOutput, "error: %v\n", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprintln(cfg.ErrOutput, "error: no scenario files found")
		return 1
	}

	logger := zap.NewNop()
	if cfg.Debug {
		if logger, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(cfg.ErrOutput, "error: %v\n", err)
			return 1
		}
		defer logger.Sync()
	}

	var opts []convert.Option
	if cfg.NoCopy {
		opts = append(opts, convert.WithContainerCopy(false))
	}
	runner := scenario.NewRunner(logger, opts...)
	reporter := scenario.NewReporter(cfg.Output)
	reporter.Verbose = cfg.Verbose

	var all []scenario.Result
	parseErrors := 0
	for _, file := range files {
		suite, err := scenario.ParseFile(file)
		if err != nil {
			fmt.Fprintf(cfg.ErrOutput, "error: %v\n", err)
			parseErrors++
			continue
		}
		for _, res := range runner.RunSuite(suite) {
			reporter.ReportResult(file, res)
			all = append(all, res)
		}
	}

	summary := scenario.Summarize(all)
	reporter.ReportSummary(summary)
	if summary.Failed > 0 || parseErrors > 0 {
		return 1
	}
	return 0
}

// collectFiles expands directories into the .yaml and .yml files below them.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			ext := strings.ToLower(filepath.Ext(p))
			if !d.IsDir() && (ext == ".yaml" || ext == ".yml") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
