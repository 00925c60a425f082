package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"matchday/social-api/model"
)

// Authorize runs after Protect and rejects any request whose attached role
// is outside the allowed set.
func Authorize(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString("requestID")

		role, ok := c.MustGet(CtxUserRole).(model.Role)
		if !ok || !slices.Contains(roles, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "You are not allowed to access this route",
				"requestID": requestID,
			})
			return
		}

		c.Next()
	}
}
