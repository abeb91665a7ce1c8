package cmd

import (
	"fmt"

	"github.com/AlhaqGH/pohlang/internal/bytecode"
	"github.com/AlhaqGH/pohlang/pkg/poh"
	"github.com/spf13/cobra"
)

var runBytecodeCmd = &cobra.Command{
	Use:   "run-bytecode <file.pbc>",
	Short: "Load a compiled .pbc chunk and execute it with the VM",
	Args:  cobra.ExactArgs(1),
	RunE:  runBytecodeFile,
}

func init() {
	rootCmd.AddCommand(runBytecodeCmd)
}

func runBytecodeFile(_ *cobra.Command, args []string) error {
	filename := args[0]
	data, err := readBytes(filename)
	if err != nil {
		return err
	}
	chunk, err := bytecode.Deserialize(data)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", filename, err)
	}
	return execChunk(chunk, filename)
}

func execChunk(chunk *bytecode.Chunk, filename string) error {
	var opts []poh.Option
	if statsFlag {
		opts = append(opts, poh.WithStats())
	}
	engine, err := newEngine(opts...)
	if err != nil {
		return err
	}
	_, evalErr := engine.RunBytecode(chunk, filename)
	if statsFlag {
		if s := engine.Stats(); s != nil {
			printStatsReport(s.InstructionsExecuted, s.CallCount, s.GlobalCacheHits, s.GlobalCacheMisses)
		}
	}
	if evalErr != nil {
		return fmt.Errorf("%s", poh.UncaughtMessage(evalErr, filename))
	}
	return nil
}
