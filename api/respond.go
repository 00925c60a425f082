package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"matchday/social-api/apperr"
)

// fail is the single place that decides operational vs internal. Operational
// errors go to the caller verbatim, anything else is logged and collapsed to
// a generic 500.
func fail(c *gin.Context, err error) {
	requestID := c.GetString("requestID")

	var op *apperr.Error
	if errors.As(err, &op) {
		c.AbortWithStatusJSON(op.Status, gin.H{
			"error":     op.Message,
			"requestID": requestID,
		})
		return
	}

	zap.L().Error("Unhandled internal error",
		zap.Error(err),
		zap.String("requestID", requestID),
		zap.String("path", c.Request.URL.Path))

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":     "Internal server error",
		"requestID": requestID,
	})
}

func badBody(c *gin.Context, err error) {
	requestID := c.GetString("requestID")

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":     "Invalid request body",
		"requestID": requestID,
	})

	zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
}
