// Package bridge connects a console registry to a native host.
//
// The Adapter is the registry's delegate: registry events become outbound
// calls on a Host (VariableRegistered, VariableUpdated, ActionRegistered,
// ActionUnregistered, LogMessage). Inbound native messages arrive as flat
// string maps through Dispatch and are resolved against a fixed handler
// table keyed by the "name" entry.
//
// # Ownership
//
// Everything except log ingestion runs on a single owner goroutine. Init
// returns the owner context; log records produced with that context are
// forwarded immediately, all others wait in a queue until the next Tick.
//
// # Failures
//
// Nothing here returns an error to the host's update loop. Malformed input,
// unknown ids and faulting host calls (errors and panics) are logged and the
// operation is skipped.
//
// # Persistence
//
// Successful mutations set a dirty flag. Tick saves at most once, however
// many mutations happened since the previous tick.
package bridge
