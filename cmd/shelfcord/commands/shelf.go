package commands

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/five82/shelfcord/internal/app"
	"github.com/five82/shelfcord/internal/goodreads"
)

func init() {
	rootCmd.AddCommand(shelfCmd)
}

var shelfCmd = &cobra.Command{
	Use:   "shelf",
	Short: "Fetches the currently-reading shelf and prints it.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, books, err := app.LoadShelf(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		current, _ := goodreads.Select(books, cfg.LastBookID)
		renderShelf(cmd.OutOrStdout(), books, current.ID)
		return nil
	},
}

func renderShelf(w io.Writer, books []goodreads.Book, currentID string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"", "ID", "Title", "Author", "Started"})
	for _, book := range books {
		marker := ""
		if book.ID == currentID {
			marker = "*"
		}
		started := book.StartDate
		if !book.Started.IsZero() {
			started = book.Started.Format("2006-01-02")
		}
		t.AppendRow(table.Row{marker, book.ID, book.Title, book.Author, started})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
