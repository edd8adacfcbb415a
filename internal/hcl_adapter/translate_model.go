// This file translates decoded HCL blocks into the format-agnostic model.

package hcl_adapter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/devconsole/internal/config"
	"github.com/vk/devconsole/internal/ctxlog"
	"github.com/vk/devconsole/internal/variable"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

type merger struct {
	model       *config.Model
	consoleFile string
	hostFile    string
	seenVars    map[string]string
	seenActions map[string]string
}

func (m *merger) merge(ctx context.Context, file string, root *fileRoot) error {
	if len(root.Console) > 1 || (len(root.Console) == 1 && m.consoleFile != "") {
		return fmt.Errorf("%s: only one console block is allowed (first defined in %s)", file, firstNonEmpty(m.consoleFile, file))
	}
	if len(root.Console) == 1 {
		if err := translateConsole(root.Console[0], &m.model.Console); err != nil {
			return fmt.Errorf("%s: console: %w", file, err)
		}
		m.consoleFile = file
	}

	if len(root.Host) > 1 || (len(root.Host) == 1 && m.hostFile != "") {
		return fmt.Errorf("%s: only one host block is allowed (first defined in %s)", file, firstNonEmpty(m.hostFile, file))
	}
	if len(root.Host) == 1 {
		h := root.Host[0]
		m.model.Host = &config.Host{URL: h.URL, Namespace: h.Namespace, InsecureSkipVerify: h.InsecureSkipVerify}
		m.hostFile = file
	}

	for _, vb := range root.Variables {
		if prev, dup := m.seenVars[vb.Name]; dup {
			return fmt.Errorf("%s: variable '%s' already defined in %s", file, vb.Name, prev)
		}
		def, err := translateVariable(ctx, vb)
		if err != nil {
			return fmt.Errorf("%s: variable '%s': %w", file, vb.Name, err)
		}
		m.seenVars[vb.Name] = file
		m.model.Variables = append(m.model.Variables, def)
	}

	for _, ab := range root.Actions {
		if prev, dup := m.seenActions[ab.Name]; dup {
			return fmt.Errorf("%s: action '%s' already defined in %s", file, ab.Name, prev)
		}
		m.seenActions[ab.Name] = file
		m.model.Actions = append(m.model.Actions, &config.ActionDefinition{
			Name:        ab.Name,
			Description: ab.Description,
			Resets:      ab.Resets,
		})
	}
	return nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// translateConsole overlays the block's explicit settings on c.
func translateConsole(b *ConsoleBlock, c *config.Console) error {
	if b.SavePath != "" {
		c.SavePath = b.SavePath
	}
	if b.TickInterval != "" {
		d, err := time.ParseDuration(b.TickInterval)
		if err != nil {
			return fmt.Errorf("tick_interval: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("tick_interval must be positive, got %s", b.TickInterval)
		}
		c.TickInterval = d
	}
	if b.LogForwardLevel != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(b.LogForwardLevel)); err != nil {
			return fmt.Errorf("log_forward_level: %w", err)
		}
		c.LogForwardLevel = lvl
	}
	return nil
}

// translateVariable converts a variable block into the agnostic model.
func translateVariable(ctx context.Context, b *VariableBlock) (*config.VariableDefinition, error) {
	logger := ctxlog.FromContext(ctx).With("variable", b.Name)
	ctx = ctxlog.WithLogger(ctx, logger)

	t, err := variable.ParseType(b.Type)
	if err != nil {
		return nil, err
	}
	flags, err := variable.ParseFlags(b.Flags)
	if err != nil {
		return nil, err
	}

	def := &config.VariableDefinition{
		Name:        b.Name,
		Type:        t,
		Description: b.Description,
		Flags:       flags,
		Values:      b.Values,
	}

	if isExprDefined(ctx, b.Default, "default") {
		val, diags := b.Default.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid default value: %w", diags)
		}
		if !val.IsNull() {
			def.Default = &val
		}
	}
	if def.Min, err = numberAttr(ctx, b.Min, "min"); err != nil {
		return nil, err
	}
	if def.Max, err = numberAttr(ctx, b.Max, "max"); err != nil {
		return nil, err
	}

	logger.Debug("Translated variable definition.", "type", t.String(), "has_default", def.Default != nil)
	return def, nil
}

// numberAttr evaluates an optional numeric attribute.
func numberAttr(ctx context.Context, expr hcl.Expression, name string) (*float64, error) {
	if !isExprDefined(ctx, expr, name) {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid %s: %w", name, diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	var f float64
	if err := gocty.FromCtyValue(num, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &f, nil
}
