package security

import (
	"encoding/hex"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateULIDIsParseable(t *testing.T) {
	id := GenerateULID()
	_, err := ulid.Parse(id)
	require.NoError(t, err)
	assert.Len(t, id, 26)
}

func TestGenerateSecureKeyIsHexOfRequestedLength(t *testing.T) {
	key, err := GenerateSecureKey(64)
	require.NoError(t, err)
	assert.Len(t, key, 64)
	_, err = hex.DecodeString(key)
	require.NoError(t, err)

	other, err := GenerateSecureKey(64)
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}
