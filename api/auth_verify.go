package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"matchday/social-api/validators"
)

type verifyBody struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

func (a *API) AuthVerify(c *gin.Context) {
	requestID := c.GetString("requestID")

	var data verifyBody
	if err := c.ShouldBind(&data); err != nil {
		badBody(c, err)
		return
	}

	if data.Email == "" || data.Otp == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email and OTP fields can't be empty",
			"requestID": requestID,
		})
		return
	}

	message, err := a.Auth.VerifyEmail(c.Request.Context(), validators.NormalizeEmail(data.Email), data.Otp)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
