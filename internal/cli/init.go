package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/jgrady/netmon/internal/config"
	"github.com/jgrady/netmon/internal/errors"
)

var (
	initForce  bool
	initGlobal bool
)

// initCmd creates a netmon config file.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a netmon configuration file",
	Long: `Initialize a netmon configuration file with interactive prompts.

Writes .netmon.yaml in the current directory, or the global
~/.config/netmon/config.yaml with --global.

Examples:
  netmon init
  netmon init --global
  netmon init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce, initGlobal)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	initCmd.Flags().BoolVar(&initGlobal, "global", false, "Write the global config instead of a local one")
}

func initCommand(force, global bool) error {
	path := filepath.Join(".", config.ConfigFileName)
	if global {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot determine home directory",
				"Run without --global to write a local config instead")
		}
		path = filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile)
	}

	if _, err := os.Stat(path); err == nil && !force {
		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	interval := cfg.RefreshInterval.String()
	workers := strconv.Itoa(cfg.Workers)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Refresh interval").
				Description("How often the dashboard re-reads the socket tables").
				Placeholder("1s").
				Value(&interval).
				Validate(validateInterval),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Resolve hostnames by default?").
				Description("Reverse-DNS for remote addresses (toggleable with 'h' in the dashboard)").
				Value(&cfg.ResolveHosts),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Resolver workers").
				Description("Background threads performing reverse lookups").
				Placeholder("4").
				Value(&workers).
				Validate(validateWorkers),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility")
	}

	cfg.RefreshInterval, _ = time.ParseDuration(strings.TrimSpace(interval))
	cfg.Workers, _ = strconv.Atoi(strings.TrimSpace(workers))

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Write(cfg, path); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}

func validateInterval(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("use a Go duration like 500ms or 2s")
	}
	if d < config.MinRefreshInterval {
		return fmt.Errorf("minimum is %s", config.MinRefreshInterval)
	}
	return nil
}

func validateWorkers(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n < 1 || n > config.MaxWorkers {
		return fmt.Errorf("must be between 1 and %d", config.MaxWorkers)
	}
	return nil
}
