package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restaurant-ordering-api/auth"
	"restaurant-ordering-api/models"
	"restaurant-ordering-api/pkg/resp"
)

const (
	identityKey = "identity"
	userKey     = "user"
)

// AuthRequired verifies the bearer token against the identity provider and
// stores the resolved identity in the request context. No business logic
// runs for requests that fail here.
func AuthRequired(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			resp.Error(c, http.StatusUnauthorized, "Authorization header required (Bearer <token>)")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		id, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			resp.Error(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// UserRequired resolves the verified identity to its internal user record.
// Callers with a valid token but no account get 404; they must register
// first.
func UserRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := GetIdentity(c)
		var user models.User
		if err := db.Where("firebase_uid = ?", id.UID).First(&user).Error; err != nil {
			resp.Error(c, http.StatusNotFound, "User not registered")
			return
		}
		c.Set(userKey, &user)
		c.Next()
	}
}

// AdminRequired enforces that the resolved user is an admin.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetUser(c).IsAdmin() {
			resp.Error(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// GetIdentity extracts the verified identity from the context.
func GetIdentity(c *gin.Context) *auth.Identity {
	val, _ := c.Get(identityKey)
	return val.(*auth.Identity)
}

// GetUser extracts the resolved user record from the context.
func GetUser(c *gin.Context) *models.User {
	val, _ := c.Get(userKey)
	return val.(*models.User)
}
