package middleware

import (
	"strings"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// bearerToken reads the Authorization header, falling back to the token the login
// handlers store in the cookie session
func bearerToken(c *gin.Context, sessionKey string) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return utils.SessionString(c, sessionKey)
}

// verify parses the token and rejects it when it was revoked at logout
func verify(tokenString string) (jwt.MapClaims, bool) {
	if tokenString == "" {
		return nil, false
	}
	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		utils.LogDebug("Invalid token: %v", err)
		return nil, false
	}
	if utils.IsTokenRevoked(tokenString) {
		utils.LogDebug("Revoked token presented")
		return nil, false
	}
	return claims, true
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogInfo("AuthMiddleware called")

		tokenString := bearerToken(c, utils.SessionTokenKey)
		claims, ok := verify(tokenString)
		if !ok {
			utils.LogError("Missing or invalid user token")
			utils.Unauthorized(c, "Please login for access")
			c.Abort()
			return
		}

		userID, ok := utils.ClaimID(claims, "user_id")
		if !ok {
			utils.LogError("Invalid token claims")
			utils.Unauthorized(c, "Invalid token claims")
			c.Abort()
			return
		}
		utils.LogDebug("Authenticating user ID: %d", userID)

		var user models.User
		if err := config.DB.First(&user, userID).Error; err != nil {
			utils.LogError("User not found: %v", err)
			utils.Unauthorized(c, "User not found")
			c.Abort()
			return
		}

		if user.IsBlocked {
			utils.LogError("Blocked user attempted access: %d", userID)
			utils.Forbidden(c, "Account is blocked")
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("token", tokenString)
		utils.LogInfo("User %d authenticated successfully", userID)
		c.Next()
	}
}

// OptionalAuth sets the user when a valid token is present and never aborts
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := verify(bearerToken(c, utils.SessionTokenKey))
		if ok {
			if userID, ok := utils.ClaimID(claims, "user_id"); ok {
				var user models.User
				if err := config.DB.First(&user, userID).Error; err == nil && !user.IsBlocked {
					c.Set("user", user)
				}
			}
		}
		c.Next()
	}
}

func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogInfo("AdminAuthMiddleware called")

		tokenString := bearerToken(c, utils.SessionAdminTokenKey)
		claims, ok := verify(tokenString)
		if !ok {
			utils.LogError("Missing or invalid admin token")
			utils.Unauthorized(c, "Please login for access")
			c.Abort()
			return
		}

		if role, _ := claims["role"].(string); role != "admin" {
			utils.LogError("Non-admin token attempted admin access")
			utils.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}

		adminID, ok := utils.ClaimID(claims, "admin_id")
		if !ok {
			utils.LogError("Invalid admin ID in token")
			utils.Unauthorized(c, "Invalid token claims")
			c.Abort()
			return
		}

		var admin models.Admin
		if err := config.DB.First(&admin, adminID).Error; err != nil {
			utils.LogError("Admin not found: %v", err)
			utils.Unauthorized(c, "Admin not found")
			c.Abort()
			return
		}

		if !admin.IsActive {
			utils.LogError("Inactive admin attempted access: %d", adminID)
			utils.Forbidden(c, "Admin account is inactive")
			c.Abort()
			return
		}

		c.Set("admin", admin)
		c.Set("token", tokenString)
		utils.LogInfo("Admin %d authenticated successfully", adminID)
		c.Next()
	}
}
