package cmd

import (
	"fmt"
	"os"

	"github.com/AlhaqGH/pohlang/internal/config"
	"github.com/AlhaqGH/pohlang/internal/module"
	"github.com/AlhaqGH/pohlang/internal/value"
	"github.com/AlhaqGH/pohlang/pkg/jsonbridge"
	"github.com/AlhaqGH/pohlang/pkg/poh"
	"github.com/goccy/go-yaml"
)

// newEngine builds a poh.Engine wired with the project's poh.yaml import
// search paths (if any) plus any --import-path flags, so Import
// statements resolve the same way from every execute subcommand, and
// with pkg/jsonbridge's `parse json`/`set field in json` host built-ins
// registered by default.
func newEngine(extraOpts ...poh.Option) (*poh.Engine, error) {
	roots := importPathFlag
	if proj, err := config.LoadFromWorkingDir(); err == nil {
		roots = append(append([]string{}, proj.ImportPaths...), roots...)
		if proj.Stats != "" && !rootCmd.PersistentFlags().Changed("stats-format") {
			statsFormatFlag = proj.Stats
		}
	}
	loader := module.NewFileLoader(roots)
	opts := append([]poh.Option{poh.WithLoader(loader)}, extraOpts...)
	engine, err := poh.New(opts...)
	if err != nil {
		return nil, err
	}
	jsonbridge.Register(func(name string, arity int, fn func([]value.Value) (value.Value, *value.ErrorValue)) {
		engine.RegisterFunction(name, arity, fn)
	})
	return engine, nil
}

func readSource(path string) (string, error) {
	data, err := readBytes(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readBytes(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return data, nil
}

// printStatsReport renders VMStats in the --stats-format requested, using
// goccy/go-yaml for the machine-readable variant.
func printStatsReport(instr, calls, hits, misses uint64) {
	if statsFormatFlag == "yaml" {
		data, err := yaml.Marshal(map[string]uint64{
			"instructions_executed": instr,
			"call_count":            calls,
			"global_cache_hits":     hits,
			"global_cache_misses":   misses,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "stats: %s\n", err)
			return
		}
		fmt.Fprint(os.Stderr, string(data))
		return
	}
	fmt.Fprintf(os.Stderr, "instructions executed: %d\ncalls: %d\nglobal cache hits: %d\nglobal cache misses: %d\n",
		instr, calls, hits, misses)
}
