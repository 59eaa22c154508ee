package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set by build flags), mirroring go-dws's
// cmd/dwscript/cmd/version.go pattern.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose    bool
	configPath string
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "exprctl",
	Short: "exprlang expression engine CLI",
	Long: `exprctl compiles, runs, and validates scripts written in exprlang's
embeddable expression language against pkg/engine.`,
	Version:           Version,
	PersistentPreRunE: setupLogger,
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

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML file overlaying engine options (see cmd/exprctl/cmd/config.go)")
}

func setupLogger(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
