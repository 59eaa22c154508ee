package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/exprlang/internal/errors"
	"github.com/cwbudde/exprlang/pkg/engine"
)

var validateCmd = &cobra.Command{
	Use:   "validate <script-file>",
	Short: "Run the validation analyzer and report warnings without executing",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	opts, err := loadOptions(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	e := engine.New(opts)
	logger.Debug("validating script", "file", args[0])

	result, err := e.Validate(string(data))
	if err != nil {
		if ee, ok := err.(*errors.EngineError); ok {
			fmt.Fprintln(os.Stderr, ee.FormatWithContext(1, false))
			os.Exit(1)
		}
		return err
	}

	fmt.Printf("nodes: %d, expressions: %d, max block depth: %d\n",
		result.TotalNodes, result.Complexity.TotalExpressions, result.Complexity.MaxBlockDepth)
	fmt.Printf("arithmetic: %d, comparison: %d, logical: %d, calls: %d, conditionals: %d\n",
		result.Complexity.ArithmeticOps, result.Complexity.ComparisonOps,
		result.Complexity.LogicalOps, result.Complexity.FunctionCalls, result.Complexity.ConditionalCount)

	if len(result.UsedFunctions) > 0 {
		fmt.Printf("functions used: %v\n", result.UsedFunctions)
	}
	if len(result.ReferencedFields) > 0 {
		fmt.Println("fields referenced:")
		for _, f := range result.ReferencedFields {
			fmt.Printf("  %s (at %d:%d)\n", f.Name, f.Pos.Line, f.Pos.Column)
		}
	}
	if result.Complexity.LocalBlockCount > 0 {
		fmt.Printf("local blocks: %d\n", result.Complexity.LocalBlockCount)
	}

	if len(result.Warnings) == 0 {
		return nil
	}

	fmt.Println("warnings:")
	for _, w := range result.Warnings {
		fmt.Printf("  [%d:%d] %s\n", w.Pos.Line, w.Pos.Column, w.Message)
	}
	os.Exit(1)
	return nil
}
