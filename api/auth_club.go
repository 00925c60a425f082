package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"matchday/social-api/middleware"
)

type selectClubBody struct {
	Club string `json:"club"`
}

func (a *API) AuthSelectClub(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(string)

	var data selectClubBody
	if err := c.ShouldBind(&data); err != nil {
		badBody(c, err)
		return
	}

	club, err := a.Auth.SelectClub(c.Request.Context(), userID, data.Club)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"club":    club,
		"message": fmt.Sprintf("Welcome to %v!", club),
	})
}
