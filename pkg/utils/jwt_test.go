package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-tracker/domain/models"
)

func TestGenerateAndParseToken(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "alice", IsAdmin: true}
	now := time.Now()

	token, err := GenerateToken(user, "secret", time.Hour, now)
	require.NoError(t, err)

	claims, err := ParseToken("Bearer "+token, "secret")
	require.NoError(t, err)

	id, err := claims.TokenUserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsAdmin)
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), claims.RemainingTTL(now).Seconds(), 1)
}

func TestParseTokenRejectsBadInput(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "bob"}

	_, err := ParseToken("", "secret")
	assert.ErrorIs(t, err, ErrMissingToken)

	token, err := GenerateToken(user, "secret", time.Hour, time.Now())
	require.NoError(t, err)
	_, err = ParseToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := GenerateToken(user, "secret", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = ParseToken(expired, "secret")
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "abc", ExtractTokenFromHeader("bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("abc"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "report.pdf", SanitizeFileName("../../etc/report.pdf"))
	assert.Equal(t, "a_b.txt", SanitizeFileName("a:b.txt"))
	assert.Equal(t, "file", SanitizeFileName(".."))
	assert.Equal(t, "projects/p/tasks/t/f-x.png", AttachmentPath("p", "t", "f", "x.png"))
}

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(16)
	assert.Len(t, s, 16)
	assert.NotEqual(t, s, GenerateRandomString(16))
}
