package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/shelfcord/internal/app"
	"github.com/five82/shelfcord/internal/config"
	"github.com/five82/shelfcord/internal/goodreads"
)

func init() {
	rootCmd.AddCommand(selectCmd)
}

var selectCmd = &cobra.Command{
	Use:   "select <title>",
	Short: "Chooses which currently-reading book is shown, by fuzzy title match.",
	Long: `Chooses which currently-reading book is shown, by fuzzy title match.

The choice is saved as lastBookId in the config file and the shelf is added
to the book history. A shelfcord instance that is already running keeps the
selection it loaded at startup and writes it back on its next settings save,
so restart it afterwards, or press b in its UI instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, books, err := app.LoadShelf(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		return selectBook(cmd.OutOrStdout(), cfg, books, strings.Join(args, " "))
	},
}

func selectBook(w io.Writer, cfg config.Config, books []goodreads.Book, query string) error {
	book, ok := goodreads.Match(books, query)
	if !ok {
		return fmt.Errorf("no book on the shelf matches %q", query)
	}

	// The poller only honours selections of books it has recorded.
	hist, err := openHistoryStore()
	if err != nil {
		return err
	}
	if hist.Record(books, time.Now()) > 0 {
		if err := hist.Save(); err != nil {
			return err
		}
	}

	cfg.LastBookID = book.ID
	if err := config.Save(configPath, cfg); err != nil {
		return err
	}
	fmt.Fprintf(w, "showing %s\n", book.Label())
	return nil
}
