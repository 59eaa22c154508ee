package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/exprlang/internal/errors"
	"github.com/cwbudde/exprlang/internal/eval"
	"github.com/cwbudde/exprlang/internal/value"
	"github.com/cwbudde/exprlang/pkg/engine"
)

var (
	evalExpr string
	inputs   []string
)

var runCmd = &cobra.Command{
	Use:   "run <script-file>",
	Short: "Compile and execute a script against a set of input fields",
	Long: `run compiles a script and executes it once, printing its assigned
fields, messages, any error, and the elapsed time. Use -e/--eval to pass the script inline
instead of a file, and repeat --input name=value to seed an input field.
Every --input value is taken as a string; use a field's type-hint
conversion in the script itself (e.g. [Amount:number]) to coerce it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate this script text instead of reading a file")
	runCmd.Flags().StringArrayVar(&inputs, "input", nil, "input field as name=value, may be repeated")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	script, err := scriptSource(args)
	if err != nil {
		return err
	}

	fields, err := parseInputs(inputs)
	if err != nil {
		return err
	}

	opts, err := loadOptions(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	e := engine.New(opts)
	logger.Debug("executing script", "inputs", len(fields))

	res, err := e.Execute(script, fields)
	if err != nil {
		if ee, ok := err.(*errors.EngineError); ok {
			fmt.Fprintln(os.Stderr, ee.FormatWithContext(1, false))
			printResult(res)
			os.Exit(1)
		}
		return err
	}

	printResult(res)
	return nil
}

func scriptSource(args []string) (string, error) {
	if evalExpr != "" {
		return evalExpr, nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("run requires a script file or -e/--eval")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}

func parseInputs(raw []string) (map[string]value.Value, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	fields := make(map[string]value.Value, len(raw))
	for _, kv := range raw {
		name, val, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--input %q: expected name=value", kv)
		}
		fields[name] = value.String(val)
	}
	return fields, nil
}

func printResult(res eval.ExecutionResult) {
	if len(res.Assignments) > 0 {
		fmt.Println("assignments:")
		for name, v := range res.Assignments {
			fmt.Printf("  %s = %s\n", name, v)
		}
	}

	for _, m := range res.Messages {
		fmt.Printf("[%s] %s\n", msgLevelName(m.Level), m.Text)
	}

	if res.HasError {
		fmt.Printf("error: [%s] %s (at %d:%d)\n", res.ErrorCode, res.ErrorMessage, res.ErrorLine, res.ErrorColumn)
	}
	fmt.Printf("elapsed: %s\n", res.Elapsed)
}

func msgLevelName(l eval.MsgLevel) string {
	switch l {
	case eval.LevelWarning:
		return "warning"
	case eval.LevelError:
		return "error"
	default:
		return "info"
	}
}
