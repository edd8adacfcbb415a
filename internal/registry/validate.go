package registry

import (
	"fmt"
	"strings"

	"github.com/vk/devconsole/internal/variable"
)

// Validate checks the registered variables for inconsistent metadata: an
// inverted range, a default outside its range, or an enum default that is not
// one of its members. Ranges are advisory at runtime, so these are reported
// once at startup rather than on every write.
func (r *Registry) Validate() error {
	var errs []string

	for _, v := range r.vars {
		if lo, hi, ok := v.Range(); ok {
			if lo > hi {
				errs = append(errs, fmt.Sprintf("variable '%s': range min %v is greater than max %v", v.Name(), lo, hi))
			} else if v.Type().IsNumeric() {
				def := v.Default().Float
				if def < lo || def > hi {
					errs = append(errs, fmt.Sprintf("variable '%s': default %s is outside range [%v, %v]", v.Name(), v.DefaultValue(), lo, hi))
				}
			} else {
				errs = append(errs, fmt.Sprintf("variable '%s': range declared on non-numeric type %s", v.Name(), v.Type()))
			}
		}
		if v.Type() == variable.Enum && !v.IsMember(v.DefaultValue()) {
			errs = append(errs, fmt.Sprintf("variable '%s': default %q is not an enum member", v.Name(), v.DefaultValue()))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
