package print

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/devconsole/internal/registry"
	"github.com/vk/devconsole/internal/variable"
)

func TestPrintVariablesAction(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var out bytes.Buffer
	r := registry.New(nil)
	r.Use(&Module{Out: &out})
	r.AddInt("score", 0).SetInt(9)
	r.AddString("name", "anon")
	r.AddBool("secret", false, variable.WithFlags(variable.Hidden))

	act, ok := r.FindActionByName("print_variables")
	require.True(t, ok)

	// --- Act ---
	require.NoError(t, act.Run(context.Background()))

	// --- Assert ---
	got := out.String()
	assert.Contains(t, got, `* score`)
	assert.Contains(t, got, `"9" (Integer)`)
	assert.Contains(t, got, `  name`)
	assert.NotContains(t, got, "secret")
}
