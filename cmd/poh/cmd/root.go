// Package cmd is the poh CLI, a collaborator that drives pkg/poh's
// Engine for parsing, running and compiling. It also imports
// internal/config, internal/module and internal/value to wire the
// Engine's loader and host built-ins, and internal/bytecode for .pbc
// serialization and disassembly. Split one file per subcommand (root.go, run.go, compile.go, one file per verb).
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	statsFlag       bool
	statsFormatFlag string
	importPathFlag  []string
)

var rootCmd = &cobra.Command{
	Use:     "poh",
	Short:   "PohLang interpreter and bytecode compiler",
	Long:    `poh runs and compiles PohLang, a phrasal natural-language programming language.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVar(&statsFlag, "stats", false, "enable VM execution statistics and print a report on exit")
	rootCmd.PersistentFlags().StringVar(&statsFormatFlag, "stats-format", "text", "stats report format: text or yaml")
	rootCmd.PersistentFlags().StringSliceVar(&importPathFlag, "import-path", nil, "additional Import search root (repeatable)")
}
