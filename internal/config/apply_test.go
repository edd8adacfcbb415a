package config_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/devconsole/internal/config"
	"github.com/vk/devconsole/internal/registry"
	"github.com/vk/devconsole/internal/testutil"
	"github.com/vk/devconsole/internal/variable"
	"github.com/zclconf/go-cty/cty"
)

func ptr(f float64) *float64 { return &f }

func val(v cty.Value) *cty.Value { return &v }

func TestApply_RegistersVariablesAndActions(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx := testutil.Context(t, nil)
	r := registry.New(nil)
	m := config.NewModel()
	m.Variables = []*config.VariableDefinition{
		{Name: "score", Type: variable.Integer, Default: val(cty.NumberIntVal(5)), Min: ptr(0), Max: ptr(100)},
		{Name: "speed", Type: variable.Float, Default: val(cty.StringVal("1.5"))},
		{Name: "god_mode", Type: variable.Boolean, Default: val(cty.True), Flags: variable.Hidden},
		{Name: "player", Type: variable.String},
		{Name: "difficulty", Type: variable.Enum, Values: []string{"easy", "normal", "hard"}, Default: val(cty.StringVal("hard"))},
	}
	m.Actions = []*config.ActionDefinition{{Name: "reset", Resets: []string{"score", "difficulty"}}}

	// --- Act ---
	require.NoError(t, config.Apply(ctx, m, r))

	// --- Assert ---
	score, ok := r.FindVariableByName("score")
	require.True(t, ok)
	assert.Equal(t, 5, score.Int())
	lo, hi, hasRange := score.Range()
	assert.True(t, hasRange)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 100.0, hi)

	speed, _ := r.FindVariableByName("speed")
	assert.Equal(t, "1.5", speed.Value())

	god, _ := r.FindVariableByName("god_mode")
	assert.True(t, god.Bool())
	assert.True(t, god.HasFlag(variable.Hidden))

	player, _ := r.FindVariableByName("player")
	assert.Equal(t, "", player.Value())

	difficulty, _ := r.FindVariableByName("difficulty")
	assert.Equal(t, "hard", difficulty.Value())

	score.SetInt(50)
	difficulty.SetValue("easy")
	act, ok := r.FindActionByName("reset")
	require.True(t, ok)
	require.NoError(t, act.Run(context.Background()))
	assert.True(t, score.IsDefault())
	assert.True(t, difficulty.IsDefault())
}

func TestApply_EnumDefaultsToFirstMember(t *testing.T) {
	t.Parallel()

	r := registry.New(nil)
	m := config.NewModel()
	m.Variables = []*config.VariableDefinition{{Name: "mode", Type: variable.Enum, Values: []string{"a", "b"}}}

	require.NoError(t, config.Apply(testutil.Context(t, nil), m, r))

	v, _ := r.FindVariableByName("mode")
	assert.Equal(t, "a", v.Value())
}

func TestApply_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		vars        []*config.VariableDefinition
		actions     []*config.ActionDefinition
		errContains string
	}{
		{
			name:        "fractional int default",
			vars:        []*config.VariableDefinition{{Name: "x", Type: variable.Integer, Default: val(cty.NumberFloatVal(3.5))}},
			errContains: "default value",
		},
		{
			name:        "range on string",
			vars:        []*config.VariableDefinition{{Name: "x", Type: variable.String, Min: ptr(0), Max: ptr(1)}},
			errContains: "min/max are only valid",
		},
		{
			name:        "half range",
			vars:        []*config.VariableDefinition{{Name: "x", Type: variable.Float, Min: ptr(0)}},
			errContains: "min and max must be set together",
		},
		{
			name:        "enum without values",
			vars:        []*config.VariableDefinition{{Name: "x", Type: variable.Enum}},
			errContains: "non-empty 'values'",
		},
		{
			name:        "values on int",
			vars:        []*config.VariableDefinition{{Name: "x", Type: variable.Integer, Values: []string{"1"}}},
			errContains: "only valid for enum",
		},
		{
			name:        "enum default not a member",
			vars:        []*config.VariableDefinition{{Name: "x", Type: variable.Enum, Values: []string{"a"}, Default: val(cty.StringVal("z"))}},
			errContains: "variable 'x'",
		},
		{
			name:        "action resets unknown variable",
			actions:     []*config.ActionDefinition{{Name: "reset", Resets: []string{"ghost"}}},
			errContains: "resets unknown variable 'ghost'",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := config.NewModel()
			m.Variables = tc.vars
			m.Actions = tc.actions

			err := config.Apply(testutil.Context(t, nil), m, registry.New(nil))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestDefaultString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		typ  variable.Type
		in   cty.Value
		want string
	}{
		{variable.Boolean, cty.False, "0"},
		{variable.Boolean, cty.StringVal("true"), "1"},
		{variable.Integer, cty.StringVal("12"), "12"},
		{variable.Float, cty.NumberFloatVal(0.25), "0.25"},
		{variable.String, cty.NumberIntVal(7), "7"},
		{variable.Integer, cty.NullVal(cty.Number), "0"},
	}
	for _, tc := range testCases {
		got, err := config.DefaultString(tc.typ, tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s %#v", tc.typ, tc.in)
	}
}
