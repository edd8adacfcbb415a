// Package persist saves and restores console variable values.
//
// # File Format
//
// The store is a flat binary file with no header:
//
//	int32 count (little endian)
//	count × { string name, string value }
//
// Each string is a 7-bit varint byte length (unsigned LEB128) followed by its
// UTF-8 bytes. Only variables that differ from their default and do not carry
// the NoArchive flag are written, in registry order.
//
// # Failure Semantics
//
// A missing file is an empty store. Names that no longer exist are skipped
// with a warning, so old stores keep loading after variables are removed.
// Save goes through a temporary file and a rename, so a failed save leaves the
// previous file in place.
package persist
