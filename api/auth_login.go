package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"matchday/social-api/validators"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) AuthLogin(c *gin.Context) {
	requestID := c.GetString("requestID")

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		badBody(c, err)
		return
	}

	if data.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email field can't be empty",
			"requestID": requestID,
		})
		return
	}

	if data.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Password field can't be empty",
			"requestID": requestID,
		})
		return
	}

	result, err := a.Auth.Login(c.Request.Context(), validators.NormalizeEmail(data.Email), data.Password)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":          result.UserID,
		"email":           result.Email,
		"role":            result.Role,
		"accessToken":     result.AccessToken,
		"refreshToken":    result.RefreshToken,
		"hasUsername":     result.HasUsername,
		"hasSelectedClub": result.HasSelectedClub,
	})
}
