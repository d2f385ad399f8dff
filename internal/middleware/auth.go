package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"structa-system/internal/utils"
)

const claimsKey = "claims"

// JWTAuth rejects requests without a valid bearer token and stores the parsed
// claims on the gin context.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := utils.ParseToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin must run after JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CtxClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if !claims.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

// CtxClaims returns the claims stored by JWTAuth, or nil.
func CtxClaims(c *gin.Context) *utils.Claims {
	raw, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := raw.(*utils.Claims)
	return claims
}
