package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/intern-task-api/internal/constants"
	apierrors "github.com/yukikurage/intern-task-api/internal/errors"
	"github.com/yukikurage/intern-task-api/internal/models"
	"github.com/yukikurage/intern-task-api/internal/services"
)

// RequireAuth checks for a valid access token, taken from the Authorization
// header or else the access_token cookie, and loads the caller into context.
func RequireAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _, err := auth.Authenticate(ExtractToken(c, constants.AccessTokenCookieName), services.TokenTypeAccess)
		if err != nil {
			apierrors.Respond(c, err)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUserRole, user.Role)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := GetUserRole(c)
		if !exists {
			apierrors.RespondUnauthorized(c, "")
			c.Abort()
			return
		}
		if !role.IsAdmin() {
			apierrors.RespondForbidden(c, "Admin privileges required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ExtractToken returns the bearer token of the request, falling back to the
// named cookie. It returns an empty string when neither is present.
func ExtractToken(c *gin.Context, cookieName string) string {
	header := c.GetHeader(constants.AuthorizationHeader)
	if len(header) > len(constants.BearerPrefix) && strings.EqualFold(header[:len(constants.BearerPrefix)], constants.BearerPrefix) {
		return strings.TrimSpace(header[len(constants.BearerPrefix):])
	}
	if token, err := c.Cookie(cookieName); err == nil {
		return token
	}
	return ""
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetUserRole retrieves the current user's role from context
func GetUserRole(c *gin.Context) (models.UserRole, bool) {
	role, exists := c.Get(constants.ContextKeyUserRole)
	if !exists {
		return "", false
	}
	r, ok := role.(models.UserRole)
	return r, ok
}

// GetUser retrieves the authenticated user from context
func GetUser(c *gin.Context) (*models.User, bool) {
	user, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	u, ok := user.(*models.User)
	return u, ok
}
