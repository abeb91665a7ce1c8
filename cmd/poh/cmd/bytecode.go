package cmd

import (
	"github.com/AlhaqGH/pohlang/pkg/poh"
	"github.com/spf13/cobra"
)

var bytecodeCmd = &cobra.Command{
	Use:   "bytecode <file.poh>",
	Short: "Compile a file and run it with the VM in one step",
	Args:  cobra.ExactArgs(1),
	RunE:  bytecodeFile,
}

func init() {
	rootCmd.AddCommand(bytecodeCmd)
}

func bytecodeFile(_ *cobra.Command, args []string) error {
	filename := args[0]
	source, err := readSource(filename)
	if err != nil {
		return err
	}

	engine, err := newEngine(poh.WithOptimizer())
	if err != nil {
		return err
	}
	chunk, err := engine.Compile(source, filename)
	if err != nil {
		return err
	}
	return execChunk(chunk, filename)
}
