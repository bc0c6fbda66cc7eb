package serialization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscriminatorRegistry(t *testing.T) {
	r := NewDiscriminatorRegistry()

	require.NoError(t, r.Register("Animal", "_t"))

	element, ok := r.Lookup("Animal")
	assert.True(t, ok)
	assert.Equal(t, "_t", element)

	// Re-registering the same element is idempotent.
	require.NoError(t, r.Register("Animal", "_t"))

	// A different element for the same root conflicts.
	err := r.Register("Animal", "kind")
	require.ErrorIs(t, err, ErrConflictingDiscriminator)

	r.Reset()
	_, ok = r.Lookup("Animal")
	assert.False(t, ok)
}

func TestGlobalRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	require.NoError(t, Register("Vehicle", "type"))
	element, ok := Lookup("Vehicle")
	assert.True(t, ok)
	assert.Equal(t, "type", element)
}
