package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerifyToken(t *testing.T) {
	tok, err := IssueToken(42, PurposeEmailConfirm, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	uid, err := VerifyToken(tok, PurposeEmailConfirm)
	require.NoError(t, err)
	assert.Equal(t, uint(42), uid)
}

func TestVerifyTokenWrongPurpose(t *testing.T) {
	tok, err := IssueToken(7, PurposePasswordReset, time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(tok, PurposeEmailConfirm)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenExpired(t *testing.T) {
	tok, err := IssueToken(7, PurposeEmailConfirm, -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(tok, PurposeEmailConfirm)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenGarbage(t *testing.T) {
	_, err := VerifyToken("not-a-token", PurposeEmailConfirm)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
