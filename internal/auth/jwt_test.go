package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService("test-secret-key-for-testing-purposes", 15*time.Minute)
}

func TestNewJWTService(t *testing.T) {
	service := newTestJWTService()
	assert.NotNil(t, service)
	assert.Equal(t, 15*time.Minute, service.GetAccessTokenExpiry())
}

func TestJWTService_GenerateAccessToken_Success(t *testing.T) {
	service := newTestJWTService()

	token, expiresAt, err := service.GenerateAccessToken("user-123", "an@example.vn", RoleCustomer)

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))
	assert.True(t, expiresAt.Before(time.Now().Add(16*time.Minute)))
}

func TestJWTService_ValidateAccessToken_Valid(t *testing.T) {
	service := newTestJWTService()

	token, _, err := service.GenerateAccessToken("user-456", "an@example.vn", RoleAdmin)
	require.NoError(t, err)

	claims, err := service.ValidateAccessToken(token)

	require.NoError(t, err)
	assert.Equal(t, "user-456", claims.UserID)
	assert.Equal(t, "an@example.vn", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "user-456", claims.Subject)
}

func TestJWTService_ValidateAccessToken_Expired(t *testing.T) {
	// Create a service with very short expiry
	service := NewJWTService("test-secret", 1*time.Millisecond)

	token, _, err := service.GenerateAccessToken("user-123", "an@example.vn", RoleCustomer)
	require.NoError(t, err)

	// Wait for token to expire
	time.Sleep(10 * time.Millisecond)

	claims, err := service.ValidateAccessToken(token)

	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestJWTService_ValidateAccessToken_Invalid(t *testing.T) {
	service := newTestJWTService()

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"random string", "not-a-valid-token"},
		{"malformed JWT", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTService_ValidateAccessToken_WrongSignature(t *testing.T) {
	service1 := NewJWTService("secret-key-1", 15*time.Minute)
	service2 := NewJWTService("secret-key-2", 15*time.Minute)

	token, _, err := service1.GenerateAccessToken("user-123", "an@example.vn", RoleCustomer)
	require.NoError(t, err)

	claims, err := service2.ValidateAccessToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestJWTService_ValidateAccessToken_WrongAlgorithm(t *testing.T) {
	service := newTestJWTService()

	// Create a token with a different algorithm (none)
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: "user-123",
		Role:   RoleCustomer,
	})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	claims, err := service.ValidateAccessToken(tokenString)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestJWTService_EmptySecretRejectsEverything(t *testing.T) {
	signer := NewJWTService("some-secret", time.Minute)
	token, _, err := signer.GenerateAccessToken("user-1", "", RoleCustomer)
	require.NoError(t, err)

	_, err = NewJWTService("", time.Minute).ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// ============================================
// Session Tests
// ============================================

func TestJWTService_GetSession(t *testing.T) {
	service := newTestJWTService()
	token, expiresAt, err := service.GenerateAccessToken("user-9", "chi@example.vn", RoleCustomer)
	require.NoError(t, err)

	session, err := service.GetSession(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, "user-9", session.UserID)
	assert.Equal(t, "chi@example.vn", session.Email)
	assert.WithinDuration(t, expiresAt, session.ExpiresAt, time.Second)
}

func TestJWTService_GetSession_SubjectOnly(t *testing.T) {
	secret := []byte("test-secret-key-for-testing-purposes")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role:             RoleService,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "svc-1"},
	})
	tokenString, err := token.SignedString(secret)
	require.NoError(t, err)

	session, err := newTestJWTService().GetSession(context.Background(), tokenString)
	require.NoError(t, err)
	assert.Equal(t, "svc-1", session.UserID)
	assert.True(t, session.ExpiresAt.IsZero())
}

func TestJWTService_GetSession_Errors(t *testing.T) {
	service := newTestJWTService()

	_, err := service.GetSession(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoSession)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = service.GetSession(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKeyProbe(t *testing.T) {
	service := newTestJWTService()
	key, _, err := service.GenerateAccessToken("service", "", RoleService)
	require.NoError(t, err)

	assert.NoError(t, NewKeyProbe(service, key).Check(context.Background()))
	assert.ErrorIs(t, NewKeyProbe(service, "not-a-jwt").Check(context.Background()), ErrInvalidToken)
	assert.ErrorIs(t, NewKeyProbe(NewJWTService("other", time.Minute), key).Check(context.Background()), ErrInvalidToken)
}
