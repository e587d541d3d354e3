package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gordian-engine/hashtree/internal/hconfig"
	"github.com/spf13/cobra"
)

func (a *app) initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file for hashtree.",
		Long: `Create a configuration file for hashtree with default values,
at the path given by --config.`,
		Args: cobra.NoArgs,

		// Skip loading a config that does not exist yet.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },

		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				_, err := os.Stat(a.configPath)
				if err == nil {
					return fmt.Errorf("%s already exists; use --force to overwrite it", a.configPath)
				}
				if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}

			if err := hconfig.Default().Save(a.configPath); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "Wrote default configuration to", a.configPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	return cmd
}
