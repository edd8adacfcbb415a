package loglevel

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/devconsole/internal/registry"
)

func TestModule_DrivesLevelVar(t *testing.T) {
	t.Parallel()

	var lv slog.LevelVar
	lv.Set(slog.LevelWarn)
	r := registry.New(nil)
	r.Use(&Module{Var: &lv})

	v, ok := r.FindVariableByName(VariableName)
	require.True(t, ok)
	assert.Equal(t, "warn", v.Value())
	assert.Equal(t, []string{"debug", "info", "warn", "error"}, v.AvailableValues())

	v.SetValue("debug")
	assert.Equal(t, slog.LevelDebug, lv.Level())

	v.ResetToDefault()
	assert.Equal(t, slog.LevelWarn, lv.Level())
}

func TestFromSlog(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Debug, FromSlog(slog.LevelDebug-4))
	assert.Equal(t, Info, FromSlog(slog.LevelInfo+1))
	assert.Equal(t, Error, FromSlog(slog.LevelError+8))
	for _, l := range Level(0).Members() {
		assert.Equal(t, l, FromSlog(l.Slog()))
	}
}
