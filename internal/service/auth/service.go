package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fieldserve/repairline/internal/ports"
)

// Account is one provisioned admin login. Accounts come from configuration;
// the admin surface is small enough that a user store would be overkill.
type Account struct {
	Email        string
	PasswordHash string // bcrypt
	TenantID     string
	Role         string
}

type Service struct {
	accounts map[string]Account
	secret   []byte
	tokenTTL time.Duration
	log      *zap.Logger
}

func NewService(accounts []Account, jwtSecret string, tokenTTL time.Duration, log *zap.Logger) ports.AuthService {
	byEmail := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		byEmail[strings.ToLower(a.Email)] = a
	}
	return &Service{
		accounts: byEmail,
		secret:   []byte(jwtSecret),
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// Login verifies the password against the provisioned account and returns a
// signed token. The error is the same whether the account is unknown or the
// password is wrong.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	account, ok := s.accounts[strings.ToLower(email)]
	if !ok {
		// Burn a comparison anyway so unknown accounts cost the same.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000000000000000000000000000000000"), []byte(password))
		return "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed admin login", zap.String("email", email))
		return "", errors.New("invalid credentials")
	}

	token, err := s.signToken(account)
	if err != nil {
		return "", err
	}

	s.log.Info("admin login", zap.String("email", email), zap.String("tenant_id", account.TenantID))
	return token, nil
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*ports.AdminClaims, error) {
	return s.parseToken(token)
}
