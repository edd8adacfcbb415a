// Package errs classifies the failures the console can produce.
//
// Only construction errors are meant to reach a caller. Parse, lookup, bridge
// call and persistence errors are built with E, logged at the boundary that
// caught them, and otherwise swallowed so the host's update loop never sees them.
package errs
