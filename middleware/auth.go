package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"matchday/social-api/security"
	"matchday/social-api/store"
)

// Context keys set by Protect for downstream handlers.
const (
	CtxUserID   = "userID"
	CtxUserRole = "userRole"
)

// Protect requires a valid bearer access token and confirms the subject
// still exists before letting the request through. Role comes from the
// database, not the token, so a role change applies immediately.
func Protect(users *store.UserStore, tokens *security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString("requestID")

		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Not authorized, no token",
				"requestID": requestID,
			})
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")

		userID, _, err := tokens.VerifyAccess(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Not authorized, token failed",
				"requestID": requestID,
			})
			return
		}

		// The token can outlive the account it was issued for
		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "The user belonging to this token no longer exists",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to load token subject",
				zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set(CtxUserID, user.ID)
		c.Set(CtxUserRole, user.Role)
		c.Next()
	}
}
