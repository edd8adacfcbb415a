package variable

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/vk/devconsole/internal/errs"
)

// EnumVariable is a Variable whose value is a member of a Go enumeration.
//
// An enumeration is an integer-kinded named type that implements fmt.Stringer
// and lists its declared members:
//
//	type Difficulty int
//
//	func (d Difficulty) String() string    { ... }
//	func (Difficulty) Members() []Difficulty { return []Difficulty{Easy, Normal, Hard} }
type EnumVariable[E comparable] struct {
	*Variable
	members map[string]E
	def     E
}

type memberLister[E any] interface {
	Members() []E
}

// NewEnum constructs an enum variable with default def. It fails with a
// construction error if E is not an enumeration or def is not one of its members.
func NewEnum[E comparable](id int, name string, def E, opts ...Option) (*EnumVariable[E], error) {
	const op = "variable.NewEnum"

	rt := reflect.TypeOf(def)
	if rt == nil || !isIntegerKind(rt.Kind()) {
		return nil, errs.Errorf(errs.Construction, op, "variable %q: %v is not an enumeration type", name, rt)
	}
	if _, ok := any(def).(fmt.Stringer); !ok {
		return nil, errs.Errorf(errs.Construction, op, "variable %q: enumeration %v does not implement fmt.Stringer", name, rt)
	}
	lister, ok := any(def).(memberLister[E])
	if !ok {
		return nil, errs.Errorf(errs.Construction, op, "variable %q: enumeration %v does not list its members", name, rt)
	}
	declared := lister.Members()
	if len(declared) == 0 {
		return nil, errs.Errorf(errs.Construction, op, "variable %q: enumeration %v has no members", name, rt)
	}

	members := make(map[string]E, len(declared))
	names := make([]string, 0, len(declared))
	defName := ""
	for _, m := range declared {
		mName := any(m).(fmt.Stringer).String()
		if _, dup := members[mName]; dup {
			return nil, errs.Errorf(errs.Construction, op, "variable %q: duplicate enumeration member name %q", name, mName)
		}
		members[mName] = m
		names = append(names, mName)
		if m == def {
			defName = mName
		}
	}
	if defName == "" {
		return nil, errs.Errorf(errs.Construction, op, "variable %q: default %v is not a member of %v", name, def, rt)
	}

	v, err := newVariable(id, name, Enum, defName, append([]Option{withValues(names)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &EnumVariable[E]{Variable: v, members: members, def: def}, nil
}

// NewEnumNamed constructs an enum variable whose members are given by name,
// for enumerations declared outside Go (e.g. in a console config file).
func NewEnumNamed(id int, name string, members []string, def string, opts ...Option) (*Variable, error) {
	const op = "variable.NewEnumNamed"
	if len(members) == 0 {
		return nil, errs.Errorf(errs.Construction, op, "variable %q: enumeration has no members", name)
	}
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if strings.TrimSpace(m) == "" {
			return nil, errs.Errorf(errs.Construction, op, "variable %q: empty enumeration member", name)
		}
		if _, dup := seen[m]; dup {
			return nil, errs.Errorf(errs.Construction, op, "variable %q: duplicate enumeration member %q", name, m)
		}
		seen[m] = struct{}{}
	}
	if def == "" {
		def = members[0]
	}
	if _, ok := seen[def]; !ok {
		return nil, errs.Errorf(errs.Construction, op, "variable %q: default %q is not a member", name, def)
	}
	return newVariable(id, name, Enum, def, append([]Option{withValues(members)}, opts...)...)
}

// EnumValue returns the member named by the current value. If the value was
// written without validation and names no member, the default member is returned.
func (e *EnumVariable[E]) EnumValue() E {
	if m, ok := e.members[e.Value()]; ok {
		return m
	}
	return e.def
}

// SetEnum assigns a member by value.
func (e *EnumVariable[E]) SetEnum(m E) {
	e.SetValue(any(m).(fmt.Stringer).String())
}

// IsMember reports whether s names a member of the enumeration.
func (v *Variable) IsMember(s string) bool {
	for _, m := range v.values {
		if m == s {
			return true
		}
	}
	return false
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
