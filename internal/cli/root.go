// Package cli wires the cobra command tree. Commands are thin: they load
// config, build an engine, and hand off to the TUI or a one-shot printer.
package cli

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jgrady/netmon/internal/config"
	"github.com/jgrady/netmon/internal/errors"
)

// Global flags
var (
	configFlag   string
	procRootFlag string
)

// rootCmd is the base command; running netmon with no subcommand opens
// the live dashboard.
var rootCmd = &cobra.Command{
	Use:   "netmon",
	Short: "Live view of this machine's network connections",
	Long: `netmon shows which processes own which sockets and how much traffic
flows through them, read directly from the kernel's proc filesystem.

Run with no arguments to open the live dashboard, or use 'netmon list'
for a one-shot table suitable for scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&procRootFlag, "proc-root", "", "Proc filesystem root (overrides config)")
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective config from file and global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return nil, err
	}
	if procRootFlag != "" {
		cfg.ProcRoot = procRootFlag
	}
	return cfg, nil
}

// printError renders an error to stderr, including the suggestion when the
// error carries one.
func printError(err error) {
	var structured *errors.Error
	if stderrors.As(err, &structured) {
		fmt.Fprintf(os.Stderr, "Error: %s\n", structured.Message)
		if structured.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", structured.Suggestion)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
