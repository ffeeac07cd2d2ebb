package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

const testSecret = "test-secret-at-least-32-chars-long-for-security"

func TestJWTManager_GenerateAndValidate_Roles(t *testing.T) {
	t.Parallel()

	manager := NewJWTManager(testSecret, "proposalflow-test", 15*time.Minute)

	for _, role := range []domain.UserRole{
		domain.UserRoleUser, domain.UserRoleApprover, domain.UserRoleAdmin, domain.UserRoleRegistrar,
	} {
		t.Run(role.String(), func(t *testing.T) {
			t.Parallel()

			actor := domain.Actor{ID: uuid.New(), Role: role}
			token, err := manager.GenerateAccessToken(actor)
			if err != nil {
				t.Fatalf("GenerateAccessToken failed: %v", err)
			}
			if token == "" {
				t.Fatal("expected non-empty token")
			}

			got, err := manager.ValidateAccessToken(token)
			if err != nil {
				t.Fatalf("ValidateAccessToken failed: %v", err)
			}
			if got != actor {
				t.Errorf("actor: got %+v, want %+v", got, actor)
			}
		})
	}
}

func TestJWTManager_GenerateAccessToken_InvalidActor(t *testing.T) {
	t.Parallel()

	manager := NewJWTManager(testSecret, "proposalflow-test", 15*time.Minute)

	if _, err := manager.GenerateAccessToken(domain.Actor{Role: domain.UserRoleAdmin}); err == nil {
		t.Error("expected error for nil actor id")
	}
	if _, err := manager.GenerateAccessToken(domain.Actor{ID: uuid.New(), Role: "ROOT"}); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestJWTManager_ValidateAccessToken_Expired(t *testing.T) {
	t.Parallel()

	manager := NewJWTManager(testSecret, "proposalflow-test", -1*time.Hour)

	token, err := manager.GenerateAccessToken(domain.Actor{ID: uuid.New(), Role: domain.UserRoleUser})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, err = manager.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
	if !strings.Contains(err.Error(), "expired") && !strings.Contains(err.Error(), "parse token") {
		t.Errorf("expected expiry-related error, got: %v", err)
	}
}

func TestJWTManager_ValidateAccessToken_InvalidSignature(t *testing.T) {
	t.Parallel()

	manager1 := NewJWTManager(testSecret, "proposalflow-test", 15*time.Minute)
	manager2 := NewJWTManager("different-secret-32-chars-long-for-security!!", "proposalflow-test", 15*time.Minute)

	token, err := manager1.GenerateAccessToken(domain.Actor{ID: uuid.New(), Role: domain.UserRoleUser})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := manager2.ValidateAccessToken(token); err == nil {
		t.Fatal("expected error for invalid signature, got nil")
	}
}

func TestJWTManager_ValidateAccessToken_Malformed(t *testing.T) {
	t.Parallel()

	manager := NewJWTManager(testSecret, "proposalflow-test", 15*time.Minute)

	for _, token := range []string{"not.a.jwt", "invalid-token", "header.payload"} {
		if _, err := manager.ValidateAccessToken(token); err == nil {
			t.Errorf("expected error for malformed token %q, got nil", token)
		}
	}
}

func TestJWTManager_ValidateAccessToken_WrongIssuer(t *testing.T) {
	t.Parallel()

	manager1 := NewJWTManager(testSecret, "proposalflow-test", 15*time.Minute)
	manager2 := NewJWTManager(testSecret, "wrong-issuer", 15*time.Minute)

	token, err := manager1.GenerateAccessToken(domain.Actor{ID: uuid.New(), Role: domain.UserRoleUser})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := manager2.ValidateAccessToken(token); err == nil {
		t.Fatal("expected error for wrong issuer, got nil")
	}
}

func TestJWTManager_ValidateAccessToken_UnknownRole(t *testing.T) {
	t.Parallel()

	manager := NewJWTManager(testSecret, "proposalflow-test", 15*time.Minute)

	now := time.Now()
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "proposalflow-test",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: "SUPERUSER",
	})
	token, err := forged.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = manager.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for unknown role claim")
	}
	if !strings.Contains(err.Error(), "role") {
		t.Errorf("expected role error, got: %v", err)
	}
}

func TestJWTManager_ValidateAccessToken_EmptyString(t *testing.T) {
	t.Parallel()

	manager := NewJWTManager(testSecret, "proposalflow-test", 15*time.Minute)

	_, err := manager.ValidateAccessToken("")
	if err == nil {
		t.Fatal("expected error for empty token, got nil")
	}
	if !strings.Contains(err.Error(), "empty") {
		t.Errorf("expected 'empty' error, got: %v", err)
	}
}
