package cmd

import (
	"fmt"
	"os"

	"github.com/AlhaqGH/pohlang/internal/bytecode"
	"github.com/spf13/cobra"
)

var disassembleCmd = &cobra.Command{
	Use:   "disassemble <file.pbc>",
	Short: "Print a compiled chunk's instructions with indices, opcodes, and line numbers",
	Args:  cobra.ExactArgs(1),
	RunE:  disassembleFile,
}

func init() {
	rootCmd.AddCommand(disassembleCmd)
}

func disassembleFile(_ *cobra.Command, args []string) error {
	filename := args[0]
	data, err := readBytes(filename)
	if err != nil {
		return err
	}
	chunk, err := bytecode.Deserialize(data)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", filename, err)
	}
	bytecode.NewDisassembler(os.Stdout, chunk).Disassemble()
	return nil
}
