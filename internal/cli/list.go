package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/gemman/internal/config"
	"github.com/unkn0wn-root/gemman/internal/errdef"
	"github.com/unkn0wn-root/gemman/internal/storage"
)

// newListCmd dumps stored records to stdout, for scripting and for checking
// what the TUI will show without starting it.
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored extensions and profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := storage.NewStore(config.DataDir())

			extensions, err := store.ListExtensions()
			if err != nil {
				return errdef.Wrap(errdef.CodeStorage, err, "list extensions")
			}
			profiles, err := store.ListProfiles()
			if err != nil {
				return errdef.Wrap(errdef.CodeStorage, err, "list profiles")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Extensions (%d):\n", len(extensions))
			for _, ext := range extensions {
				version := ext.Version
				if version == "" {
					version = "-"
				}
				fmt.Fprintf(out, "  %-36s  %-24s  %s\n", ext.ID, ext.DisplayName(), version)
			}

			fmt.Fprintf(out, "\nProfiles (%d):\n", len(profiles))
			for _, profile := range profiles {
				marker := " "
				if profile.Metadata.IsDefault {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-36s  %-24s  %s\n",
					marker, profile.ID, profile.DisplayName(), profile.Summary())
			}
			return nil
		},
	}
}
