package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestE(t *testing.T) {
	t.Parallel()

	assert.NoError(t, E(Parse, "op", nil))

	base := errors.New("boom")
	err := E(Lookup, "bridge.resolve", base)
	assert.EqualError(t, err, "bridge.resolve: lookup error: boom")
	assert.ErrorIs(t, err, base)
	assert.True(t, Is(err, Lookup))
	assert.False(t, Is(err, Parse))
	assert.Equal(t, Lookup, KindOf(err))
}

func TestIs_NestedKinds(t *testing.T) {
	t.Parallel()

	inner := Errorf(Parse, "variable.parse", "bad %q", "x")
	outer := E(BridgeCall, "dispatch", fmt.Errorf("handler: %w", inner))

	assert.True(t, Is(outer, BridgeCall))
	assert.True(t, Is(outer, Parse))
	assert.False(t, Is(outer, Persistence))
	assert.Equal(t, BridgeCall, KindOf(outer))
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "construction", Construction.String())
	assert.Equal(t, "persistence", Persistence.String())
	assert.Equal(t, "unknown", Kind(99).String())
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
}
