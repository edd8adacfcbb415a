package bridge

import (
	"strconv"

	"github.com/vk/devconsole/internal/errs"
	"github.com/vk/devconsole/internal/variable"
)

// ParseAndApply parses raw according to v's type and applies it. On a
// parse error v is left untouched.
//
//	Boolean  "0" or "1"
//	Integer  strconv.Atoi
//	Float    strconv.ParseFloat
//	String   anything
//	Enum     a member of v.AvailableValues()
func ParseAndApply(v *variable.Variable, raw string) error {
	const op = "bridge.ParseAndApply"

	switch v.Type() {
	case variable.Boolean:
		switch raw {
		case "0":
			v.SetBool(false)
		case "1":
			v.SetBool(true)
		default:
			return errs.Errorf(errs.Parse, op, "%s: boolean value must be \"0\" or \"1\", got %q", v.Name(), raw)
		}
	case variable.Integer:
		i, err := strconv.Atoi(raw)
		if err != nil {
			return errs.Errorf(errs.Parse, op, "%s: %w", v.Name(), err)
		}
		v.SetInt(i)
	case variable.Float:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return errs.Errorf(errs.Parse, op, "%s: %w", v.Name(), err)
		}
		v.SetFloat(f)
	case variable.String:
		v.SetValue(raw)
	case variable.Enum:
		if !v.IsMember(raw) {
			return errs.Errorf(errs.Parse, op, "%s: %q is not one of %v", v.Name(), raw, v.AvailableValues())
		}
		v.SetValue(raw)
	default:
		return errs.Errorf(errs.Parse, op, "%s: unsupported type %s", v.Name(), v.Type())
	}
	return nil
}
