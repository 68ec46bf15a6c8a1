package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
)

const (
	defaultLogPath = "~/.local/share/shelfcord/shelfcord.log"

	// TimeFormat is the timestamp layout written to the log file.
	TimeFormat = "2006-01-02T15:04:05"
)

// DefaultPath returns the default log file path.
func DefaultPath() string {
	return defaultLogPath
}

// Options configure the process logger.
type Options struct {
	Path   string    // log file; required
	Debug  bool      // log DEBUG records
	Stderr io.Writer // when set, records are also written here through tint
}

// Logger is the configured logger and the file behind it.
type Logger struct {
	*slog.Logger
	file *os.File
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Setup opens the log file for appending and builds a logger writing to it.
func Setup(opts Options) (*Logger, error) {
	if opts.Path == "" {
		return nil, errors.New("log path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler = NewFileHandler(file, level)
	if opts.Stderr != nil {
		handler = slogmulti.Fanout(handler, tint.NewHandler(opts.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}))
	}
	return &Logger{Logger: slog.New(handler), file: file}, nil
}

// NewFileHandler returns the text handler used for the log file.
func NewFileHandler(w io.Writer, level slog.Leveler) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				return slog.String(slog.TimeKey, a.Value.Time().Format(TimeFormat))
			}
			return a
		},
	})
}
