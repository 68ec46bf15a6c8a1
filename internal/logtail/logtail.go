package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Palette holds the styles used to colour log lines.
type Palette struct {
	Time  lipgloss.Style
	Debug lipgloss.Style
	Info  lipgloss.Style
	Warn  lipgloss.Style
	Error lipgloss.Style
	Key   lipgloss.Style
	Text  lipgloss.Style
}

var (
	timePattern  = regexp.MustCompile(`^time=(\S+)`)
	levelPattern = regexp.MustCompile(`\blevel=(DEBUG|INFO|WARN|ERROR)\b`)
	keyPattern   = regexp.MustCompile(`(\s)([A-Za-z_][A-Za-z0-9_.]*)=`)
)

// ColorizeLine renders one slog text line with the palette. Lines that are
// not in slog's key=value format are rendered with the Text style.
func ColorizeLine(line string, p Palette) string {
	if !timePattern.MatchString(line) {
		return p.Text.Render(line)
	}

	var b strings.Builder
	rest := line
	if loc := timePattern.FindStringSubmatchIndex(rest); loc != nil {
		b.WriteString(p.Time.Render(rest[loc[2]:loc[3]]))
		rest = rest[loc[1]:]
	}
	if loc := levelPattern.FindStringSubmatchIndex(rest); loc != nil {
		b.WriteString(p.Text.Render(rest[:loc[0]]))
		b.WriteString(levelStyle(rest[loc[2]:loc[3]], p).Render(fmt.Sprintf("%-5s", rest[loc[2]:loc[3]])))
		rest = rest[loc[1]:]
	}
	b.WriteString(keyPattern.ReplaceAllStringFunc(rest, func(m string) string {
		sub := keyPattern.FindStringSubmatch(m)
		return sub[1] + p.Key.Render(sub[2]) + "="
	}))
	return b.String()
}

// ColorizeLines renders every line with ColorizeLine.
func ColorizeLines(lines []string, p Palette) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = ColorizeLine(line, p)
	}
	return out
}

// Level returns the slog level named in line, or "" when there is none.
func Level(line string) string {
	if m := levelPattern.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}

func levelStyle(level string, p Palette) lipgloss.Style {
	switch level {
	case "DEBUG":
		return p.Debug
	case "WARN":
		return p.Warn
	case "ERROR":
		return p.Error
	default:
		return p.Info
	}
}
