package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/sahuajaykumar2004-dot/EP/domain"
)

func testJWTService(accessTTL time.Duration) domain.TokenService {
	return NewJWTService("test-secret", "edupioneer", accessTTL, 24*time.Hour)
}

func TestJWTServiceImpl_AccessTokenRoundTrip(t *testing.T) {
	svc := testJWTService(15 * time.Minute)

	token, err := svc.GenerateAccessToken(3, domain.UserTypeStudent, "sess_1")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.UserID != 3 || claims.Role != domain.UserTypeStudent || claims.SessionID != "sess_1" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestJWTServiceImpl_RefreshTokenRejectedAsAccess(t *testing.T) {
	svc := testJWTService(15 * time.Minute)

	refresh, err := svc.GenerateRefreshToken(3, domain.UserTypeStudent, "sess_1")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	if _, err := svc.ValidateAccessToken(refresh); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for refresh-as-access, got %v", err)
	}
	if _, err := svc.ValidateRefreshToken(refresh); err != nil {
		t.Fatalf("refresh token should validate as refresh: %v", err)
	}
}

func TestJWTServiceImpl_ExpiredTokenSurfacesExpiry(t *testing.T) {
	svc := testJWTService(-time.Minute)

	token, err := svc.GenerateAccessToken(3, domain.UserTypeStudent, "sess_1")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	if _, err := svc.ValidateAccessToken(token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTServiceImpl_TamperedTokenRejected(t *testing.T) {
	svc := testJWTService(15 * time.Minute)

	token, err := svc.GenerateAccessToken(3, domain.UserTypeStudent, "sess_1")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := svc.ValidateAccessToken(tampered); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered token, got %v", err)
	}
}
