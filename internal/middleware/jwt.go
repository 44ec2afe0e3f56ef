package middleware

import (
	"context"  // Context for revocation lookups
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"digital_wallet/internal/utils" // Token claims

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Context keys set by JWTAuthMiddleware
const (
	UserIDKey = "userID" // uint, authenticated user ID
	ClaimsKey = "claims" // *utils.Claims, parsed token claims
)

// TokenParser validates access tokens. Implemented by utils.TokenManager.
type TokenParser interface {
	Parse(token string) (*utils.Claims, error)
}

// RevocationChecker reports logged out tokens. Implemented by utils.Cache.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// unauthorized aborts the request with a 401
func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}

// JWTAuthMiddleware validates bearer tokens and extracts user information.
// revoked may be nil, in which case logout revocation is not enforced.
func JWTAuthMiddleware(tokens TokenParser, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(c)
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		claims, err := tokens.Parse(tokenStr)                 // Parse the JWT token
		if err != nil {
			unauthorized(c)
			return
		}
		if revoked != nil {
			isRevoked, err := revoked.IsTokenRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// Redis unavailable: the token is still validly signed and unexpired
				logrus.WithFields(logrus.Fields{
					"user_id": claims.UserID,
					"error":   err.Error(),
				}).Warn("Token revocation check failed")
			} else if isRevoked {
				unauthorized(c)
				return
			}
		}
		c.Set(UserIDKey, claims.UserID) // Store userID in context
		c.Set(ClaimsKey, claims)        // Store claims for logout
		c.Next()                        // Proceed to the next handler
	}
}

// UserID returns the authenticated user ID set by JWTAuthMiddleware
func UserID(c *gin.Context) (uint, bool) {
	id, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	userID, ok := id.(uint)
	return userID, ok
}

// Claims returns the token claims set by JWTAuthMiddleware
func Claims(c *gin.Context) (*utils.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}
