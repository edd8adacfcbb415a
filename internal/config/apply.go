package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/vk/devconsole/internal/ctxlog"
	"github.com/vk/devconsole/internal/registry"
	"github.com/vk/devconsole/internal/variable"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Apply registers the model's variables and then its actions with r. It
// stops at the first definition that fails.
func Apply(ctx context.Context, m *Model, r *registry.Registry) error {
	logger := ctxlog.FromContext(ctx)

	for _, def := range m.Variables {
		if err := applyVariable(r, def); err != nil {
			return fmt.Errorf("variable '%s': %w", def.Name, err)
		}
	}
	for _, def := range m.Actions {
		if err := applyAction(logger, r, def); err != nil {
			return fmt.Errorf("action '%s': %w", def.Name, err)
		}
	}

	logger.Debug("Console definition applied.", "variables", len(m.Variables), "actions", len(m.Actions))
	return nil
}

func applyVariable(r *registry.Registry, def *VariableDefinition) error {
	var opts []variable.Option
	if def.Flags != variable.None {
		opts = append(opts, variable.WithFlags(def.Flags))
	}
	if def.Min != nil || def.Max != nil {
		if def.Type != variable.Integer && def.Type != variable.Float {
			return errors.New("min/max are only valid for int and float variables")
		}
		if def.Min == nil || def.Max == nil {
			return errors.New("min and max must be set together")
		}
		opts = append(opts, variable.WithRange(*def.Min, *def.Max))
	}

	if def.Type == variable.Enum {
		if len(def.Values) == 0 {
			return errors.New("enum variables need a non-empty 'values' list")
		}
		d := ""
		if def.Default != nil {
			s, err := DefaultString(variable.String, *def.Default)
			if err != nil {
				return err
			}
			d = s
		}
		_, err := r.NewEnumVariable(def.Name, def.Values, d, opts...)
		return err
	}

	if len(def.Values) > 0 {
		return fmt.Errorf("'values' is only valid for enum variables")
	}
	d := zeroValue(def.Type)
	if def.Default != nil {
		s, err := DefaultString(def.Type, *def.Default)
		if err != nil {
			return err
		}
		d = s
	}
	_, err := r.NewVariable(def.Name, def.Type, d, opts...)
	return err
}

func zeroValue(t variable.Type) string {
	if t.IsNumeric() {
		return "0"
	}
	return ""
}

// DefaultString converts a configured default to the string representation
// stored in a variable of type t.
func DefaultString(t variable.Type, v cty.Value) (string, error) {
	if v.IsNull() || !v.IsKnown() {
		return zeroValue(t), nil
	}
	switch t {
	case variable.Boolean:
		var b bool
		if err := fromCty(v, cty.Bool, &b); err != nil {
			return "", err
		}
		if b {
			return "1", nil
		}
		return "0", nil
	case variable.Integer:
		var i int
		if err := fromCty(v, cty.Number, &i); err != nil {
			return "", err
		}
		return strconv.Itoa(i), nil
	case variable.Float:
		var f float64
		if err := fromCty(v, cty.Number, &f); err != nil {
			return "", err
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	default:
		var s string
		if err := fromCty(v, cty.String, &s); err != nil {
			return "", err
		}
		return s, nil
	}
}

func fromCty(v cty.Value, want cty.Type, dst any) error {
	converted, err := convert.Convert(v, want)
	if err != nil {
		return fmt.Errorf("default value: %w", err)
	}
	if err := gocty.FromCtyValue(converted, dst); err != nil {
		return fmt.Errorf("default value: %w", err)
	}
	return nil
}

func applyAction(logger *slog.Logger, r *registry.Registry, def *ActionDefinition) error {
	targets := make([]*variable.Variable, 0, len(def.Resets))
	for _, name := range def.Resets {
		v, ok := r.FindVariableByName(name)
		if !ok {
			return fmt.Errorf("resets unknown variable '%s'", name)
		}
		targets = append(targets, v)
	}
	if _, exists := r.FindActionByName(def.Name); exists {
		return fmt.Errorf("action with name '%s' already registered", def.Name)
	}

	r.RegisterActionWithDescription(def.Name, def.Description, func(context.Context) error {
		for _, v := range targets {
			v.ResetToDefault()
		}
		logger.Debug("Variables reset by action.", "action", def.Name, "count", len(targets))
		return nil
	})
	return nil
}
