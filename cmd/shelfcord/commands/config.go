package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/five82/shelfcord/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Prints the config file path and effective values.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ResolvePath(configPath)
		if err != nil {
			return err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		renderConfig(cmd.OutOrStdout(), path, cfg)
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
		return nil
	},
}

func renderConfig(w io.Writer, path string, cfg config.Config) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(path)
	t.AppendHeader(table.Row{"Key", "Value"})
	t.AppendRows([]table.Row{
		{"discordAppId", cfg.DiscordAppID},
		{"goodreadsUserId", cfg.GoodreadsUserID},
		{"refreshInterval", strconv.Itoa(cfg.RefreshInterval)},
		{"keepRunning", strconv.FormatBool(cfg.KeepAlive())},
		{"minimizeToTray", strconv.FormatBool(cfg.MinimizeToTray)},
		{"runOnStartup", strconv.FormatBool(cfg.RunOnStartup)},
		{"lastBookId", cfg.LastBookID},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
