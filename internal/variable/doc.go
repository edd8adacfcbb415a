// Package variable implements the console's typed, observable values.
//
// # Model
//
// A Variable is a named value of a fixed Type backed by a Cell, which keeps a
// string, an int and a float representation of the same scalar. For boolean,
// integer and float variables the numeric fields are re-derived from the string
// on every write, so Int always equals the truncation of Float. String and enum
// variables carry zero in both numeric fields.
//
// # Change Notification
//
// Each Variable owns a Notifier. Setters notify only when the value actually
// changed, but the comparison differs by setter:
//
//   - SetValue compares the string representation.
//   - SetInt, SetFloat and SetBool compare the primitive they were given.
//
// Persistence round-trips go through SetValue while native code paths use the
// typed setters, and both rules are observable, so neither may be "fixed".
//
// # Ranges and Allowed Values
//
// Range and AvailableValues are advisory. Variable never rejects a value; the
// bridge and other callers validate before writing.
//
// # Identity
//
// Ids are handed out by the owning registry and are never persisted. Stores
// key by Name, which is the only identity stable across process restarts.
package variable
