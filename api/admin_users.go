package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type adminUser struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Username   *string `json:"username"`
	Role       string  `json:"role"`
	Reputation int     `json:"reputation"`
	IsVerified bool    `json:"isVerified"`
}

func (a *API) AdminUsers(c *gin.Context) {
	users, err := a.Auth.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]adminUser, 0, len(users))
	for _, u := range users {
		out = append(out, adminUser{
			ID:         u.ID,
			Email:      u.Email,
			Username:   u.Username,
			Role:       string(u.Role),
			Reputation: u.Reputation,
			IsVerified: u.IsVerified,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"results": len(out),
		"users":   out,
	})
}
