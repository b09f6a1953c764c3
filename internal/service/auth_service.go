package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/advpress/advpress-backend/internal/common"
	"github.com/advpress/advpress-backend/internal/config"
	"github.com/advpress/advpress-backend/internal/domain"
	"github.com/advpress/advpress-backend/pkg/jwt"
)

// AuthService authenticates config-seeded operator accounts and issues
// tokens. There is no self-registration: accounts come from configuration,
// mirroring the admin / outsourced-operator split.
type AuthService interface {
	Login(username, password string) (*domain.LoginResponse, error)
	Lookup(username string) (*domain.Account, error)
}

type authService struct {
	accounts   map[string]*domain.Account
	jwtManager *jwt.Manager
}

// NewAuthService creates a new AuthService from seeded accounts
func NewAuthService(seeded []config.AccountConfig, jwtManager *jwt.Manager) AuthService {
	accounts := make(map[string]*domain.Account, len(seeded))
	for _, a := range seeded {
		role := a.Role
		if role != domain.RoleAdmin {
			role = domain.RoleEditor
		}
		accounts[a.Username] = &domain.Account{
			Username:     a.Username,
			PasswordHash: a.PasswordHash,
			Role:         role,
		}
	}
	return &authService{accounts: accounts, jwtManager: jwtManager}
}

// Login verifies credentials and issues a JWT
func (s *authService) Login(username, password string) (*domain.LoginResponse, error) {
	account, ok := s.accounts[username]
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	digest := sha256.Sum256([]byte(password))
	hashed := hex.EncodeToString(digest[:])
	if subtle.ConstantTimeCompare([]byte(hashed), []byte(account.PasswordHash)) != 1 {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.jwtManager.IssueToken(account.Username, account.Username, account.Role)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResponse{
		Token:    token,
		Username: account.Username,
		Role:     account.Role,
	}, nil
}

// Lookup resolves a username to its account, for permission checks after
// token verification
func (s *authService) Lookup(username string) (*domain.Account, error) {
	account, ok := s.accounts[username]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	return account, nil
}

// TokenExpiry converts configured hours to a duration
func TokenExpiry(hours int) time.Duration {
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}
