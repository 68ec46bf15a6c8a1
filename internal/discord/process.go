package discord

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// Running reports whether a Discord client process is alive.
func Running(ctx context.Context) bool {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		// Unknown is treated as running; Dial gives the real answer.
		return true
	}
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if isDiscordProcess(name) {
			return true
		}
	}
	return false
}

func isDiscordProcess(name string) bool {
	name = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ".exe")
	switch name {
	case "discord", "discordcanary", "discordptb", "discord-canary", "discord-ptb", "vesktop", "webcord":
		return true
	}
	return strings.HasPrefix(name, "discord")
}
