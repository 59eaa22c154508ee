package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/exprlang/internal/errors"
	"github.com/cwbudde/exprlang/pkg/engine"
)

var compileCmd = &cobra.Command{
	Use:   "compile <script-file>",
	Short: "Parse a script and report syntax errors, without executing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	opts, err := loadOptions(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	e := engine.New(opts)
	logger.Debug("compiling script", "file", args[0], "bytes", len(data))

	if _, err := e.Compile(string(data)); err != nil {
		if ee, ok := err.(*errors.EngineError); ok {
			fmt.Fprintln(os.Stderr, ee.FormatWithContext(1, false))
			os.Exit(1)
		}
		return err
	}

	fmt.Println("OK")
	return nil
}
