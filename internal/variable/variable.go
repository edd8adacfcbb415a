package variable

import (
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/vk/devconsole/internal/errs"
)

// Variable is a named, typed console value with a default and change notification.
//
// Variables are owned by a single goroutine (the console owner); only the
// Notifier is safe for concurrent use.
type Variable struct {
	id    int
	name  string
	typ   Type
	flags Flags

	value Cell
	def   Cell

	hasRange bool
	min, max float64
	values   []string

	notifier Notifier
}

// Option customizes a Variable at construction.
type Option func(*Variable)

// WithFlags sets the variable's flags.
func WithFlags(f Flags) Option {
	return func(v *Variable) { v.flags |= f }
}

// WithRange attaches an advisory numeric range.
func WithRange(min, max float64) Option {
	return func(v *Variable) {
		v.hasRange = true
		v.min, v.max = min, max
	}
}

// WithLogger sets the logger used to report observer failures.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Variable) { v.notifier.SetLogger(logger) }
}

func withValues(values []string) Option {
	return func(v *Variable) { v.values = append([]string(nil), values...) }
}

// New constructs a variable of type t whose default (and current) value is def.
// Enum variables must be built with NewEnum or NewEnumNamed.
func New(id int, name string, t Type, def string, opts ...Option) (*Variable, error) {
	if t == Enum {
		return nil, errs.Errorf(errs.Construction, "variable.New", "variable %q: enum variables require NewEnum or NewEnumNamed", name)
	}
	return newVariable(id, name, t, def, opts...)
}

func newVariable(id int, name string, t Type, def string, opts ...Option) (*Variable, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errs.E(errs.Construction, "variable.New", errors.New("variable name cannot be empty"))
	}
	if t < Boolean || t > Enum {
		return nil, errs.Errorf(errs.Construction, "variable.New", "variable %q: invalid type %v", name, t)
	}
	v := &Variable{id: id, name: name, typ: t}
	v.def = parseCell(t, def)
	v.value = v.def
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// NewBool constructs a boolean variable.
func NewBool(id int, name string, def bool, opts ...Option) (*Variable, error) {
	return New(id, name, Boolean, boolCell(def).String, opts...)
}

// NewInt constructs an integer variable.
func NewInt(id int, name string, def int, opts ...Option) (*Variable, error) {
	return New(id, name, Integer, intCell(def).String, opts...)
}

// NewFloat constructs a float variable.
func NewFloat(id int, name string, def float64, opts ...Option) (*Variable, error) {
	return New(id, name, Float, formatFloat(def), opts...)
}

// NewString constructs a string variable.
func NewString(id int, name string, def string, opts ...Option) (*Variable, error) {
	return New(id, name, String, def, opts...)
}

func (v *Variable) ID() int       { return v.id }
func (v *Variable) Name() string  { return v.name }
func (v *Variable) Type() Type    { return v.typ }
func (v *Variable) Flags() Flags  { return v.flags }
func (v *Variable) Cell() Cell    { return v.value }
func (v *Variable) Default() Cell { return v.def }

// HasFlag reports whether every bit of f is set.
func (v *Variable) HasFlag(f Flags) bool { return v.flags.Has(f) }

// Value returns the string representation of the current value.
func (v *Variable) Value() string { return v.value.String }

// Int returns the integer representation of the current value.
func (v *Variable) Int() int { return v.value.Int }

// Float returns the float representation of the current value.
func (v *Variable) Float() float64 { return v.value.Float }

// Bool reports whether the integer representation is non-zero.
func (v *Variable) Bool() bool { return v.value.Int != 0 }

// DefaultValue returns the string representation of the default value.
func (v *Variable) DefaultValue() string { return v.def.String }

// Range returns the advisory range, if one was declared.
func (v *Variable) Range() (min, max float64, ok bool) {
	return v.min, v.max, v.hasRange
}

// AvailableValues returns the allowed member names of an enum variable, in
// declaration order. It is nil for other types.
func (v *Variable) AvailableValues() []string {
	return v.values
}

// Notifier returns the observer list notified on value changes.
func (v *Variable) Notifier() *Notifier { return &v.notifier }

// IsDefault reports whether the current value equals the default in all three
// representations.
func (v *Variable) IsDefault() bool {
	return v.value.Equal(v.def)
}

// SetValue assigns from a string. Observers are notified only if the string
// representation changed.
func (v *Variable) SetValue(s string) {
	old := v.value.String
	v.value = parseCell(v.typ, s)
	if old != s {
		v.notifier.Notify(v)
	}
}

// SetInt assigns an integer. Observers are notified only if the integer
// representation changed.
func (v *Variable) SetInt(i int) {
	old := v.value.Int
	v.value = intCell(i)
	if old != i {
		v.notifier.Notify(v)
	}
}

// SetFloat assigns a float. Observers are notified only if the float
// representation changed.
func (v *Variable) SetFloat(f float64) {
	old := v.value.Float
	v.value = floatCell(f)
	if old != f && !(math.IsNaN(old) && math.IsNaN(f)) {
		v.notifier.Notify(v)
	}
}

// SetBool assigns a boolean. Observers are notified only if the boolean
// value changed.
func (v *Variable) SetBool(b bool) {
	old := v.Bool()
	v.value = boolCell(b)
	if old != b {
		v.notifier.Notify(v)
	}
}

// ResetToDefault restores the default value, notifying observers if it
// differs from the previous value.
func (v *Variable) ResetToDefault() {
	if v.value.Equal(v.def) {
		return
	}
	v.value = v.def
	v.notifier.Notify(v)
}

// String implements fmt.Stringer for log output.
func (v *Variable) String() string {
	return v.name + "=" + v.value.String
}
