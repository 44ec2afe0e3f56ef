package utils

import (
	"errors" // Error values
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
	"github.com/google/uuid"       // Token IDs
)

// ErrInvalidToken is returned for malformed, expired or wrongly signed tokens
var ErrInvalidToken = errors.New("invalid or expired token")

// JWT Claims
type Claims struct {
	UserID               uint `json:"user_id"` // Custom claim for user ID
	jwt.RegisteredClaims      // Standard JWT claims, ID carries the revocation key
}

// TokenManager issues and validates HS256 access tokens
type TokenManager struct {
	secret []byte        // Signing secret
	ttl    time.Duration // Token lifetime
	now    func() time.Time
}

// NewTokenManager creates a token manager for the given secret and lifetime
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Generate creates a signed access token for a given user ID
func (m *TokenManager) Generate(userID uint) (string, error) {
	now := m.now()
	// Set token claims
	claims := Claims{
		UserID: userID, // Custom claim for user ID
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),                   // Unique token ID used by logout
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)), // Expiry
			IssuedAt:  jwt.NewNumericDate(now),            // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(m.secret)                        // Sign the token with the secret
}

// Parse parses and validates a token string
func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return m.secret, nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired(), jwt.WithTimeFunc(m.now))
	// Check for parsing errors
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.ID != "" {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
