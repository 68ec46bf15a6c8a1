package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/five82/shelfcord/internal/app"
)

var (
	configPath  string
	prefsPath   string
	logPath     string
	historyPath string
	headless    bool
	debug       bool
	interval    int
)

var rootCmd = &cobra.Command{
	Use:           "shelfcord",
	Short:         "shelfcord shows your Goodreads currently-reading shelf as Discord presence.",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(cmd.Context(), app.Options{
			ConfigPath:  configPath,
			PrefsPath:   prefsPath,
			LogPath:     logPath,
			HistoryPath: historyPath,
			Interval:    interval,
			Headless:    headless,
			Debug:       debug,
			Stderr:      cmd.ErrOrStderr(),
		})
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default ~/.config/shelfcord/config.json)")
	flags.StringVar(&historyPath, "history", "", "book history file (default ~/.local/share/shelfcord/history.json)")

	rootCmd.Flags().StringVar(&prefsPath, "prefs", "", "UI preferences file (default ~/.config/shelfcord/prefs.toml)")
	rootCmd.Flags().StringVar(&logPath, "log", "", "log file (default ~/.local/share/shelfcord/shelfcord.log)")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "run without the terminal UI, logging to stderr")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "log debug messages")
	rootCmd.Flags().IntVar(&interval, "interval", 0, "refresh interval in seconds (overrides the config file)")
}

// ExecuteContext runs the command line and returns the process exit code.
func ExecuteContext(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "shelfcord: %v\n", err)
		return 1
	}
	return 0
}
