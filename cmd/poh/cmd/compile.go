package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlhaqGH/pohlang/internal/bytecode"
	"github.com/AlhaqGH/pohlang/pkg/poh"
	"github.com/spf13/cobra"
)

var compileOutputFlag string

var compileCmd = &cobra.Command{
	Use:   "compile <file.poh>",
	Short: "Parse, compile, optimize, and write a .pbc bytecode file",
	Args:  cobra.ExactArgs(1),
	RunE:  compileFile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVarP(&compileOutputFlag, "output", "o", "", "output file (default: <input>.pbc)")
}

func compileFile(_ *cobra.Command, args []string) error {
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

	data, err := bytecode.Serialize(chunk, true)
	if err != nil {
		return fmt.Errorf("failed to serialize bytecode: %w", err)
	}

	out := compileOutputFlag
	if out == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			out = strings.TrimSuffix(filename, ext) + ".pbc"
		} else {
			out = filename + ".pbc"
		}
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", out, err)
	}
	fmt.Printf("Compiled %s -> %s\n", filename, out)
	return nil
}
