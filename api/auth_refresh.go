package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type refreshBody struct {
	RefreshToken string `json:"refreshToken"`
}

func (a *API) AuthRefresh(c *gin.Context) {
	requestID := c.GetString("requestID")

	var data refreshBody
	if err := c.ShouldBind(&data); err != nil {
		badBody(c, err)
		return
	}

	if data.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Refresh token field can't be empty",
			"requestID": requestID,
		})
		return
	}

	access, err := a.Auth.Refresh(c.Request.Context(), data.RefreshToken)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": access,
	})
}
