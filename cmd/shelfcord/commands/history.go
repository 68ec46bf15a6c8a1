package commands

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/five82/shelfcord/internal/config"
	"github.com/five82/shelfcord/internal/history"
)

func init() {
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Lists every book seen on the currently-reading shelf.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistoryStore()
		if err != nil {
			return err
		}
		renderHistory(cmd.OutOrStdout(), store.Entries())
		return nil
	},
}

func openHistoryStore() (*history.Store, error) {
	path := historyPath
	if path == "" {
		path = history.DefaultPath()
	}
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	return history.Open(resolved)
}

func renderHistory(w io.Writer, entries []history.Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Title", "Author", "First seen", "Last seen"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.ID, e.Title, e.Author, e.FirstSeen.Format("2006-01-02"), e.LastSeen.Format("2006-01-02")})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
