//go:build !windows

package discord

import (
	"context"
	"net"
	"os"
	"path/filepath"
)

// endpoint returns the socket the RPC client connects to: discord-ipc-0 in
// the first runtime or temp directory set in the environment.
func endpoint() string {
	for _, key := range []string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"} {
		if dir, ok := os.LookupEnv(key); ok {
			return filepath.Join(dir, "discord-ipc-0")
		}
	}
	return "/tmp/discord-ipc-0"
}

func dialEndpoint(ctx context.Context, path string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", path)
}
