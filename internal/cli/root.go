package cli

import (
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/gemman/internal/config"
	"github.com/unkn0wn-root/gemman/internal/errdef"
	"github.com/unkn0wn-root/gemman/internal/history"
	"github.com/unkn0wn-root/gemman/internal/launcher"
	"github.com/unkn0wn-root/gemman/internal/settings"
	"github.com/unkn0wn-root/gemman/internal/storage"
	"github.com/unkn0wn-root/gemman/internal/theme"
	"github.com/unkn0wn-root/gemman/internal/ui"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "gemman",
		Short:        "Manage Gemini CLI extensions and launch profiles",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newExportCmd())
	return cmd
}

func runTUI() error {
	if path := os.Getenv("GEMMAN_LOG"); path != "" {
		f, err := tea.LogToFile(path, "gemman")
		if err != nil {
			return errdef.Wrap(errdef.CodeFilesystem, err, "open log file")
		}
		defer f.Close()
	}

	store := storage.NewStore(config.DataDir())
	if err := store.Init(); err != nil {
		return errdef.Wrap(errdef.CodeStorage, err, "initialize storage")
	}

	settingsStore, err := settings.Load()
	if err != nil {
		// Defaults are already in place; tell the user and keep going.
		log.Printf("warning: %v", err)
	}

	catalog, err := theme.LoadCatalog(config.ThemeDirs())
	if err != nil {
		log.Printf("warning: %v", err)
	}

	l := launcher.New(config.WorkspaceRoot(), store)
	launches := history.NewStore(config.HistoryPath(), 200)
	if err := launches.Load(); err != nil {
		log.Printf("warning: %v", err)
	}

	app, err := ui.NewApp(store, settingsStore, l, launches, catalog)
	if err != nil {
		return err
	}

	program := tea.NewProgram(app, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
