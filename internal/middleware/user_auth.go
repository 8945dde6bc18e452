package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/intern-task-api/internal/errors"
)

// RequireSelfOrAdmin lets a request through when the user ID in the named
// path parameter is the caller's own, or when the caller is an admin.
// It must run after RequireAuth.
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, err := strconv.ParseUint(c.Param(param), 10, 64)
		if err != nil {
			apierrors.RespondWithError(c, http.StatusBadRequest,
				apierrors.NewAPIErrorWithDetails(apierrors.ErrCodeInvalidInput, "Invalid user ID", map[string]string{"field": param}))
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.RespondUnauthorized(c, "")
			c.Abort()
			return
		}

		if role, _ := GetUserRole(c); !role.IsAdmin() && userID != targetID {
			apierrors.RespondForbidden(c, "You can only access your own profile")
			c.Abort()
			return
		}

		c.Next()
	}
}
