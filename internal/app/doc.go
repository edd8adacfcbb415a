// Package app wires the console together: it loads the definition, builds the
// registry and its modules, connects the native host and drives the tick loop
// that owns every registry mutation. It is decoupled from any specific
// entrypoint like a CLI.
package app
