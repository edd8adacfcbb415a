package print

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vk/devconsole/internal/registry"
	"github.com/vk/devconsole/internal/variable"
)

// Module registers the print_variables action.
type Module struct {
	// Out receives the listing. Defaults to os.Stdout.
	Out io.Writer
}

// Register adds the action.
func (m *Module) Register(r *registry.Registry) {
	out := m.Out
	if out == nil {
		out = os.Stdout
	}
	r.RegisterActionWithDescription("print_variables", "Print every console variable and its value.",
		func(ctx context.Context) error {
			return PrintVariables(out, r.Variables())
		})
}

// PrintVariables writes one line per variable in registration order. Hidden
// variables are skipped; non-default values are marked with '*'.
func PrintVariables(w io.Writer, vars []*variable.Variable) error {
	for _, v := range vars {
		if v.HasFlag(variable.Hidden) {
			continue
		}
		mark := " "
		if !v.IsDefault() {
			mark = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %-24s = %q (%s)\n", mark, v.Name(), v.Value(), v.Type()); err != nil {
			return err
		}
	}
	return nil
}
