// Package discord publishes rich presence to the local Discord client.
//
// The RPC session itself is handled by github.com/hugolgst/rich-go, which
// keeps a single process-wide socket. Client wraps it with context-bound
// calls, a probe of the IPC endpoint (discord-ipc-0 in the runtime or temp
// directory, a named pipe of the same name on Windows) before each update,
// and a process check for telling "Discord closed" apart from other errors.
//
// Activities are scoped to the connection, so Discord drops the presence on
// its own when the socket closes or the process exits.
package discord
