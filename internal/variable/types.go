package variable

import (
	"fmt"
	"strings"
)

// Type is the immutable value type of a Variable.
type Type int

const (
	Boolean Type = iota
	Integer
	Float
	String
	Enum
)

// String returns the type name sent to native hosts.
func (t Type) String() string {
	switch t {
	case Boolean:
		return "Boolean"
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case String:
		return "String"
	case Enum:
		return "Enum"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// IsNumeric reports whether the numeric fields of the cell are derived from its string.
func (t Type) IsNumeric() bool {
	return t == Boolean || t == Integer || t == Float
}

// ParseType maps a config keyword ("bool", "int", "float", "string", "enum") to a Type.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bool", "boolean":
		return Boolean, nil
	case "int", "integer":
		return Integer, nil
	case "float", "number":
		return Float, nil
	case "string":
		return String, nil
	case "enum":
		return Enum, nil
	default:
		return 0, fmt.Errorf("unknown variable type %q", s)
	}
}

// Flags is a bitset of per-variable behaviour switches.
type Flags int

const (
	// Hidden variables are not listed by the console UI.
	Hidden Flags = 1 << iota
	// NoArchive variables are never written to the persistence store.
	NoArchive

	None Flags = 0
)

// Has reports whether all bits of f2 are set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// ParseFlags maps config keywords ("hidden", "no_archive") to a Flags value.
func ParseFlags(names []string) (Flags, error) {
	var f Flags
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "hidden":
			f |= Hidden
		case "no_archive", "noarchive":
			f |= NoArchive
		case "", "none":
		default:
			return 0, fmt.Errorf("unknown variable flag %q", n)
		}
	}
	return f, nil
}
