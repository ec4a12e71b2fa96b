package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgrady/netmon/internal/engine"
	"github.com/jgrady/netmon/internal/errors"
	"github.com/jgrady/netmon/internal/tui"
)

var (
	listResolveFlag bool
	listSampleFlag  string
)

// listCmd prints a one-shot connection table.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the current connection table",
	Long: `Print a snapshot of this machine's network connections to stdout.

Rates need two samples; pass --sample to measure throughput over that
window. With --resolve, the sample window also gives background hostname
resolution time to land.

Examples:
  netmon list
  netmon list --sample 1s
  netmon list --resolve --sample 2s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCommand(cmd)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listResolveFlag, "resolve", false, "Resolve remote addresses to hostnames")
	listCmd.Flags().StringVar(&listSampleFlag, "sample", "", "Sample window for rate measurement (e.g. 1s)")
}

func listCommand(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listResolveFlag {
		cfg.ResolveHosts = true
	}

	var sample time.Duration
	if listSampleFlag != "" {
		sample, err = time.ParseDuration(listSampleFlag)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Invalid --sample value: "+listSampleFlag,
				"Use a Go duration like 1s or 500ms")
		}
	}

	eng := engine.New(cfg)
	defer eng.Close()

	conns := eng.Refresh(time.Now())
	if sample > 0 {
		time.Sleep(sample)
		conns = eng.Refresh(time.Now())
	}

	fmt.Fprint(cmd.OutOrStdout(), tui.FormatTable(conns))
	return nil
}
