package bridge

import (
	"fmt"
	"strconv"
)

// Kind tags the payload of a Slot.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindBool
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Slot is one outbound call argument.
type Slot struct {
	Kind  Kind
	Str   string
	Bool  bool
	Int   int
	Float float64
}

// Slot constructors.
func String(s string) Slot { return Slot{Kind: KindString, Str: s} }
func Bool(b bool) Slot     { return Slot{Kind: KindBool, Bool: b} }
func Int(i int) Slot       { return Slot{Kind: KindInt, Int: i} }
func Float(f float64) Slot { return Slot{Kind: KindFloat, Float: f} }
func Null() Slot           { return Slot{Kind: KindNull} }

// Interface returns the payload as a plain Go value, nil for KindNull.
func (s Slot) Interface() any {
	switch s.Kind {
	case KindString:
		return s.Str
	case KindBool:
		return s.Bool
	case KindInt:
		return s.Int
	case KindFloat:
		return s.Float
	default:
		return nil
	}
}

func (s Slot) String() string {
	if s.Kind == KindNull {
		return "null"
	}
	return fmt.Sprint(s.Interface())
}
