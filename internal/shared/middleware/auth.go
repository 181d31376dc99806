package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"conduit-backend/pkg/jwt"
)

const (
	// Context keys set bởi auth middleware
	ContextUserIDKey   = "userID"
	ContextUsernameKey = "username"
)

// AuthMiddleware - Middleware xác thực JWT access token
// Mọi protected handler dùng middleware này để lấy acting user
func AuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Lấy token từ Authorization header
		token, ok := extractBearerToken(c)
		if !ok {
			c.JSON(401, gin.H{"success": false, "error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "missing or malformed authorization header",
			}})
			c.Abort()
			return
		}

		// 2. Verify và parse JWT
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			c.JSON(401, gin.H{"success": false, "error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "invalid token",
			}})
			c.Abort()
			return
		}

		// 3. Convert string sang uuid.UUID
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(401, gin.H{"success": false, "error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "invalid user ID in token",
			}})
			c.Abort()
			return
		}

		// 4. Set identity vào context
		c.Set(ContextUserIDKey, userID)
		c.Set(ContextUsernameKey, claims.Username)

		c.Next()
	}
}

// OptionalAuthMiddleware resolve identity nếu có token hợp lệ, nhưng không
// chặn anonymous requests. Dùng cho public reads có personalized flags
// (following, favorited).
func OptionalAuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractBearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			// Invalid token trên public read → treat as anonymous
			c.Next()
			return
		}

		if userID, err := uuid.Parse(claims.UserID); err == nil {
			c.Set(ContextUserIDKey, userID)
			c.Set(ContextUsernameKey, claims.Username)
		}

		c.Next()
	}
}

// GetUserID lấy acting user id do auth middleware set
// Returns uuid.Nil nếu request là anonymous
func GetUserID(c *gin.Context) uuid.UUID {
	v, exists := c.Get(ContextUserIDKey)
	if !exists {
		return uuid.Nil
	}
	userID, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}

func extractBearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	return parts[1], true
}
