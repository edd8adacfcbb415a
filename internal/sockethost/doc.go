// Package sockethost is a bridge.Host backed by a socket.io client.
//
// Outbound calls are emitted as "bridge_call" events carrying
// {"method": ..., "args": [...]}. The remote console sends
// "console_message" events whose first argument is a flat object; each is
// flattened to a map[string]string and queued for the owner goroutine.
package sockethost
