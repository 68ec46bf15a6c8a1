package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/shelfcord/internal/config"
	"github.com/five82/shelfcord/internal/goodreads"
	"github.com/five82/shelfcord/internal/history"
)

func TestRenderShelf_MarksCurrentBook(t *testing.T) {
	books := []goodreads.Book{
		{ID: "1", Title: "Dune", Author: "Frank Herbert", StartDate: "Mar 14, 2025", Started: time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)},
		{ID: "2", Title: "Emma", Author: "Jane Austen", StartDate: "not set"},
	}
	var out bytes.Buffer
	renderShelf(&out, books, "2")

	lines := strings.Split(out.String(), "\n")
	var dune, emma string
	for _, line := range lines {
		switch {
		case strings.Contains(line, "Dune"):
			dune = line
		case strings.Contains(line, "Emma"):
			emma = line
		}
	}
	if dune == "" || emma == "" {
		t.Fatalf("table missing rows:\n%s", out.String())
	}
	if strings.Contains(dune, "*") {
		t.Fatalf("Dune row marked current: %q", dune)
	}
	if !strings.Contains(emma, "*") {
		t.Fatalf("Emma row not marked current: %q", emma)
	}
	if !strings.Contains(dune, "2025-03-14") || !strings.Contains(emma, "not set") {
		t.Fatalf("start dates not rendered:\n%s", out.String())
	}
}

func TestRenderConfig(t *testing.T) {
	cfg := config.Default()
	cfg.GoodreadsUserID = "reader"
	var out bytes.Buffer
	renderConfig(&out, "/tmp/shelfcord/config.json", cfg)

	got := out.String()
	for _, want := range []string{"/tmp/shelfcord/config.json", "goodreadsUserId", "reader", config.DefaultDiscordAppID, "keepRunning", "true"} {
		if !strings.Contains(got, want) {
			t.Fatalf("config table missing %q:\n%s", want, got)
		}
	}
}

func TestRenderHistory(t *testing.T) {
	seen := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	var out bytes.Buffer
	renderHistory(&out, []history.Entry{{ID: "7", Title: "Kindred", Author: "Octavia E. Butler", FirstSeen: seen, LastSeen: seen}})

	if got := out.String(); !strings.Contains(got, "Kindred") || !strings.Contains(got, "2026-10-01") {
		t.Fatalf("history table = %s", got)
	}
}

func TestSelectBook_SavesSelectionAndHistory(t *testing.T) {
	dir := t.TempDir()
	oldConfig, oldHistory := configPath, historyPath
	configPath = filepath.Join(dir, "config.json")
	historyPath = filepath.Join(dir, "history.json")
	t.Cleanup(func() { configPath, historyPath = oldConfig, oldHistory })

	cfg := config.Default()
	cfg.GoodreadsUserID = "reader"
	books := []goodreads.Book{
		{ID: "1", Title: "Dune", Author: "Frank Herbert"},
		{ID: "2", Title: "Emma", Author: "Jane Austen"},
	}

	var out bytes.Buffer
	if err := selectBook(&out, cfg, books, "emma"); err != nil {
		t.Fatalf("selectBook() error = %v", err)
	}
	if !strings.Contains(out.String(), "Emma") {
		t.Fatalf("output = %q, want the chosen book", out.String())
	}

	saved, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if saved.LastBookID != "2" {
		t.Fatalf("lastBookId = %q, want %q", saved.LastBookID, "2")
	}
	hist, err := history.Open(historyPath)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	if !hist.Has("2") {
		t.Fatalf("history does not contain the selected book")
	}

	if err := selectBook(&out, cfg, books, "zzzz qqqq"); err == nil {
		t.Fatalf("selectBook() with no match returned nil error")
	}
	if !strings.Contains(selectCmd.Long, "already running") {
		t.Fatalf("select help does not explain running instances: %q", selectCmd.Long)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	want := map[string]bool{"shelf": false, "select": false, "config": false, "history": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"headless", "debug", "interval"} {
		if rootCmd.Flags().Lookup(flag) == nil {
			t.Errorf("flag --%s not registered", flag)
		}
	}
	if rootCmd.PersistentFlags().Lookup("config") == nil {
		t.Error("flag --config not registered")
	}
}
