package uid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflake_Generate(t *testing.T) {
	// Arrange
	gen, err := NewSnowflake(1)
	require.NoError(t, err)

	// Act
	first := gen.Generate()
	second := gen.Generate()

	// Assert
	assert.Positive(t, first)
	assert.Greater(t, second, first)
}

func TestNewSnowflake_InvalidNode(t *testing.T) {
	_, err := NewSnowflake(4096)
	assert.Error(t, err)
}

func TestUUID_Generate(t *testing.T) {
	id, err := uuid.Parse(NewUUID().Generate())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}
