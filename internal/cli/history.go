package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/gemman/internal/config"
	"github.com/unkn0wn-root/gemman/internal/history"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent Gemini launches",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := history.NewStore(config.HistoryPath(), 200)
			if err := store.Load(); err != nil {
				return err
			}

			entries := store.Entries()
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No launches recorded.")
				return nil
			}
			for _, entry := range entries {
				status := entry.Duration.Round(time.Second).String()
				if entry.Error != "" {
					status = "failed: " + entry.Error
				}
				fmt.Fprintf(out, "%s  %-24s  %s\n",
					entry.LaunchedAt.Local().Format("2006-01-02 15:04"),
					entry.ProfileName, status)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to show")
	return cmd
}
