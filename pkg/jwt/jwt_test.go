package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, err := m.IssueToken("operator1", "operator1", "editor")
	assert.NoError(t, err)

	claims, err := m.VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "operator1", claims.Username)
	assert.Equal(t, "editor", claims.Role)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, _ := NewManager("secret-a", time.Hour).IssueToken("u", "u", "editor")

	_, err := NewManager("secret-b", time.Hour).VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	token, _ := NewManager("secret", -time.Minute).IssueToken("u", "u", "editor")

	_, err := NewManager("secret", -time.Minute).VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := NewManager("secret", time.Hour).VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
