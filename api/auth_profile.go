package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"matchday/social-api/middleware"
)

type setProfileBody struct {
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
}

func (a *API) AuthSetProfile(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(string)

	var data setProfileBody
	if err := c.ShouldBind(&data); err != nil {
		badBody(c, err)
		return
	}

	result, err := a.Auth.SetProfile(c.Request.Context(), userID, data.Username, data.Bio)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": result.Username,
		"bio":      result.Bio,
	})
}
