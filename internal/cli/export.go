package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/gemman/internal/config"
	"github.com/unkn0wn-root/gemman/internal/launcher"
	"github.com/unkn0wn-root/gemman/internal/storage"
)

// newExportCmd writes a standalone launch script for a profile so it can
// run from cron or a shell alias without the TUI.
func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <profile-id>",
		Short: "Export a profile as a shell launch script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := storage.NewStore(config.DataDir())
			profile, err := store.LoadProfile(args[0])
			if err != nil {
				return err
			}
			path := output
			if path == "" {
				path = "launch-" + profile.ID + ".sh"
			}
			if err := launcher.WriteLaunchScript(profile, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "script path (default launch-<id>.sh)")
	return cmd
}
