package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("traveler-42", "traveler@example.com", time.Hour)
	require.NoError(t, err)

	parsed, err := ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, parsed.Valid)

	id, err := ExtractIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "traveler-42", id)
	assert.Equal(t, "traveler-42", UserIDFromToken(token))
}

func TestUserIDFromToken_FallsBackToDemoIdentity(t *testing.T) {
	assert.Equal(t, DemoUserID, UserIDFromToken(""))
	assert.Equal(t, DemoUserID, UserIDFromToken("not-a-token"))

	expired, err := GenerateToken("traveler-42", "traveler@example.com", -time.Hour)
	require.NoError(t, err)
	assert.Equal(t, DemoUserID, UserIDFromToken(expired))
}
