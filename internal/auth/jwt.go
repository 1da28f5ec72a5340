package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrNoSession    = errors.New("no active session")
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
	RoleService  = "service_role"
)

// Claims represents JWT claims issued by the identity provider
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// ID returns the user id, falling back to the subject claim.
func (c *Claims) ID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// Session is the verified identity behind a request.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// JWTService verifies and issues HS256 tokens
type JWTService struct {
	secretKey         []byte
	accessTokenExpiry time.Duration
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey string, accessExpiry time.Duration) *JWTService {
	return &JWTService{
		secretKey:         []byte(secretKey),
		accessTokenExpiry: accessExpiry,
	}
}

// GenerateAccessToken creates a new access token. The storefront only
// verifies tokens in production; this is used by tests and local tooling.
func (s *JWTService) GenerateAccessToken(userID, email, role string) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.accessTokenExpiry)

	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ValidateAccessToken validates an access token and returns claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	if len(s.secretKey) == 0 {
		return nil, ErrInvalidToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GetSession resolves a bearer token to a session.
func (s *JWTService) GetSession(ctx context.Context, tokenString string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if tokenString == "" {
		return nil, ErrNoSession
	}
	claims, err := s.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	session := &Session{UserID: claims.ID(), Email: claims.Email, Role: claims.Role}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// GetAccessTokenExpiry returns the access token expiry duration
func (s *JWTService) GetAccessTokenExpiry() time.Duration {
	return s.accessTokenExpiry
}

// KeyProbe checks that the configured store access key is accepted by the
// identity provider.
type KeyProbe struct {
	sessions  *JWTService
	accessKey string
}

func NewKeyProbe(sessions *JWTService, accessKey string) *KeyProbe {
	return &KeyProbe{sessions: sessions, accessKey: accessKey}
}

func (p *KeyProbe) Check(ctx context.Context) error {
	_, err := p.sessions.GetSession(ctx, p.accessKey)
	return err
}
