//go:build windows

package discord

import (
	"context"
	"net"

	"github.com/Microsoft/go-winio"
)

func endpoint() string {
	return `\\.\pipe\discord-ipc-0`
}

func dialEndpoint(ctx context.Context, path string) (net.Conn, error) {
	return winio.DialPipeContext(ctx, path)
}
