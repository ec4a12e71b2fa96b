package cli

import (
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jgrady/netmon/internal/engine"
	"github.com/jgrady/netmon/internal/errors"
	"github.com/jgrady/netmon/internal/tui"
)

var (
	watchIntervalFlag string
	watchResolveFlag  bool
)

// watchCmd opens the live dashboard.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open the live connection dashboard",
	Long: `Open a full-screen dashboard of this machine's network connections,
refreshed continuously.

Keys: s cycles the sort column, h toggles hostname resolution, p pauses,
r forces a refresh, q quits.

Examples:
  netmon watch
  netmon watch --interval 2s
  netmon watch --resolve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand()
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchIntervalFlag, "interval", "", "Refresh interval (e.g. 500ms, 2s)")
	watchCmd.Flags().BoolVar(&watchResolveFlag, "resolve", false, "Resolve remote addresses to hostnames")
}

func watchCommand() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"The dashboard needs a terminal",
			"Use 'netmon list' for non-interactive output")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if watchIntervalFlag != "" {
		interval, err := time.ParseDuration(watchIntervalFlag)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Invalid --interval value: "+watchIntervalFlag,
				"Use a Go duration like 500ms or 2s")
		}
		cfg.RefreshInterval = interval
	}
	if watchResolveFlag {
		cfg.ResolveHosts = true
	}

	eng := engine.New(cfg)
	defer eng.Close()

	model := tui.NewModel(eng, cfg.RefreshInterval)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "Dashboard exited with an error")
	}
	return nil
}
