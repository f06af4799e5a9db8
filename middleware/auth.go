package middleware

import (
	"context"
	"strings"

	"myarc/services"
	"myarc/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey         = "user_id"
	EmailKey          = "email"
	TokenKey          = "token"
	TokenExpiresAtKey = "token_expires_at"
)

type TokenParser interface {
	ParseJWT(tokenString string) (*services.Claims, error)
}

type RevocationChecker interface {
	IsBlacklisted(ctx context.Context, tokenString string) bool
}

// AuthMiddleware requires a valid, unrevoked bearer token. revoked may be nil.
func AuthMiddleware(tokens TokenParser, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.TrackAuthAttempt("failure", "missing_token")
			utils.AbortUnauthorized(c, "Missing or invalid token")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims, err := tokens.ParseJWT(tokenString)
		if err != nil {
			utils.TrackAuthAttempt("failure", "invalid_token")
			utils.AbortUnauthorized(c, "Invalid token")
			return
		}

		if revoked != nil && revoked.IsBlacklisted(c.Request.Context(), tokenString) {
			utils.TrackAuthAttempt("failure", "blacklisted_token")
			utils.AbortUnauthorized(c, "Token has been invalidated")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Set(TokenKey, tokenString)
		if claims.ExpiresAt != nil {
			c.Set(TokenExpiresAtKey, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}
