// Command exprctl is a small host binary around pkg/engine: compile,
// run, and validate scripts from the shell. Grounded on
// CWBudde-go-dws's cmd/dwscript binary (a thin main.go delegating to a
// cmd.Execute() Cobra root), adapted to this package's command set.
package main

import (
	"os"

	"github.com/cwbudde/exprlang/cmd/exprctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
