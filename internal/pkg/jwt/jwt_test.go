package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	cfg := DefaultConfig("test-secret")

	tok, err := GenerateToken("u1", "alice", "DEVELOPER", cfg)
	require.NoError(t, err)

	claims, err := ValidateToken(tok, "test-secret")
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, "DEVELOPER", claims.Role)
	require.Equal(t, "nexcrm-api", claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tok, err := GenerateToken("u1", "alice", "", DefaultConfig("a"))
	require.NoError(t, err)

	_, err = ValidateToken(tok, "b")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := DefaultConfig("s")
	cfg.AccessExpiry = -time.Minute

	tok, err := GenerateToken("u1", "alice", "", cfg)
	require.NoError(t, err)

	_, err = ValidateToken(tok, "s")
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestGenerateToken_RequiresConfig(t *testing.T) {
	_, err := GenerateToken("u1", "alice", "", nil)
	require.Error(t, err)
}

func TestGenerateToken_RequiresUserID(t *testing.T) {
	_, err := GenerateToken("", "alice", "", DefaultConfig("s"))
	require.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not-a-token", "s")
	require.True(t, errors.Is(err, ErrTokenInvalid))
}
