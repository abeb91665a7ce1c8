package cmd

import (
	"fmt"

	"github.com/AlhaqGH/pohlang/pkg/poh"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file.poh>",
	Short: "Parse a file and execute it with the tree interpreter",
	Args:  cobra.ExactArgs(1),
	RunE:  runFile,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runFile(_ *cobra.Command, args []string) error {
	filename := args[0]
	source, err := readSource(filename)
	if err != nil {
		return err
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}

	if err := engine.Run(source, filename); err != nil {
		if ev, ok := poh.AsUncaught(err); ok {
			return fmt.Errorf("%s", poh.UncaughtMessage(ev, filename))
		}
		return err
	}
	return nil
}
