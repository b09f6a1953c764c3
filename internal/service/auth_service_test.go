package service

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/advpress/advpress-backend/internal/common"
	"github.com/advpress/advpress-backend/internal/config"
	"github.com/advpress/advpress-backend/internal/domain"
	"github.com/advpress/advpress-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
)

func hashPassword(password string) string {
	digest := sha256.Sum256([]byte(password))
	return hex.EncodeToString(digest[:])
}

func newTestAuthService() AuthService {
	manager := jwt.NewManager("test-secret", time.Hour)
	return NewAuthService([]config.AccountConfig{
		{Username: "admin", PasswordHash: hashPassword("admin-pass"), Role: domain.RoleAdmin},
		{Username: "operator1", PasswordHash: hashPassword("op-pass"), Role: domain.RoleEditor},
		{Username: "legacy", PasswordHash: hashPassword("x"), Role: "something-else"},
	}, manager)
}

func TestLogin_Success(t *testing.T) {
	svc := newTestAuthService()

	resp, err := svc.Login("admin", "admin-pass")
	assert.NoError(t, err)
	assert.Equal(t, "admin", resp.Username)
	assert.Equal(t, domain.RoleAdmin, resp.Role)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Login("admin", "nope")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Login("ghost", "whatever")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLookup_UnknownRoleBecomesEditor(t *testing.T) {
	svc := newTestAuthService()

	account, err := svc.Lookup("legacy")
	assert.NoError(t, err)
	assert.Equal(t, domain.RoleEditor, account.Role)
	assert.True(t, account.HasEditPermission())
}

func TestLookup_Missing(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Lookup("ghost")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}
