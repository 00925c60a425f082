package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"matchday/social-api/service"
	"matchday/social-api/validators"
)

type registerBody struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (a *API) AuthRegister(c *gin.Context) {
	requestID := c.GetString("requestID")

	var data registerBody
	if err := c.ShouldBind(&data); err != nil {
		badBody(c, err)
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	result, err := a.Auth.Register(c.Request.Context(), service.RegisterInput{
		Email:     validators.NormalizeEmail(data.Email),
		Password:  data.Password,
		FirstName: data.FirstName,
		LastName:  data.LastName,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"userId":  result.UserID,
		"email":   result.Email,
		"message": result.Message,
	})
}
