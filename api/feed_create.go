package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"matchday/social-api/middleware"
	"matchday/social-api/service"
)

type createPostBody struct {
	Content       string  `json:"content"`
	HasAudio      bool    `json:"hasAudio"`
	AudioURL      *string `json:"audioUrl"`
	AudioDuration *string `json:"audioDuration"`
}

func (a *API) FeedCreate(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(string)

	var data createPostBody
	if err := c.ShouldBind(&data); err != nil {
		badBody(c, err)
		return
	}

	post, err := a.Feed.CreatePost(c.Request.Context(), userID, service.CreatePostInput{
		Content:       data.Content,
		HasAudio:      data.HasAudio,
		AudioURL:      data.AudioURL,
		AudioDuration: data.AudioDuration,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"post":    toFeedPost(*post),
	})
}
