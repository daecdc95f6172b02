package auth

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func testService(t *testing.T) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	accounts := []Account{{
		Email:        "admin@apex.example.com",
		PasswordHash: string(hash),
		TenantID:     "tenant-1",
		Role:         "admin",
	}}
	return NewService(accounts, "test-secret", time.Hour, newTestLogger()).(*Service)
}

func TestLogin_IssuesValidToken(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service := testService(t)

	// Act
	token, err := service.Login(ctx, "admin@apex.example.com", "correct-horse")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Fatal("expected a signed token")
	}

	claims, err := service.ValidateToken(ctx, token)
	if err != nil {
		t.Fatalf("expected the issued token to validate, got %v", err)
	}
	if claims.Subject != "admin@apex.example.com" {
		t.Errorf("expected subject to be the email, got '%s'", claims.Subject)
	}
	if claims.TenantID != "tenant-1" {
		t.Errorf("expected tenant-1, got '%s'", claims.TenantID)
	}
}

func TestLogin_EmailIsCaseInsensitive(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service := testService(t)

	// Act
	_, err := service.Login(ctx, "Admin@Apex.Example.Com", "correct-horse")

	// Assert
	if err != nil {
		t.Errorf("expected case-insensitive email lookup, got %v", err)
	}
}

func TestLogin_WrongPasswordRejected(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service := testService(t)

	// Act
	_, err := service.Login(ctx, "admin@apex.example.com", "wrong")

	// Assert
	if err == nil {
		t.Error("expected an error for a wrong password")
	}
}

func TestLogin_UnknownAccountSameError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service := testService(t)

	// Act
	_, errUnknown := service.Login(ctx, "nobody@apex.example.com", "correct-horse")
	_, errWrongPwd := service.Login(ctx, "admin@apex.example.com", "wrong")

	// Assert
	if errUnknown == nil || errWrongPwd == nil {
		t.Fatal("expected both logins to fail")
	}
	if errUnknown.Error() != errWrongPwd.Error() {
		t.Error("unknown account and wrong password must be indistinguishable")
	}
}

func TestValidateToken_RejectsTampering(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service := testService(t)
	token, err := service.Login(ctx, "admin@apex.example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Act
	_, err = service.ValidateToken(ctx, token+"x")

	// Assert
	if err == nil {
		t.Error("expected a tampered token to be rejected")
	}
}

func TestValidateToken_RejectsWrongSecret(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service := testService(t)
	token, err := service.Login(ctx, "admin@apex.example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	other := NewService(nil, "other-secret", time.Hour, newTestLogger())

	// Act
	_, err = other.ValidateToken(ctx, token)

	// Assert
	if err == nil {
		t.Error("expected a token signed with a different secret to be rejected")
	}
}
