// Package registry owns the console's variables and actions.
//
// The Registry keeps variables in insertion order, which is both the order
// they are announced to a native host and the order the persistence store
// writes them. Ids come from a counter owned by each Registry instance, so
// independent registries (one per test, say) never share id space.
//
// Modules contribute variables and actions by implementing Module. Registering
// a duplicate name is a programmer error and panics, in the same way that
// constructing a variable with invalid arguments does.
//
// A single Delegate receives registration and update events; the native
// bridge adapter is the production delegate.
package registry
