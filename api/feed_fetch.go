package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"matchday/social-api/model"
)

type feedPost struct {
	ID            string  `json:"id"`
	Content       string  `json:"content"`
	HasAudio      bool    `json:"hasAudio"`
	AudioURL      *string `json:"audioUrl,omitempty"`
	AudioDuration *string `json:"audioDuration,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	Author        struct {
		ID       string  `json:"id"`
		Username *string `json:"username"`
		Club     *string `json:"club"`
	} `json:"author"`
}

func (a *API) FeedFetch(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	posts, err := a.Feed.GetFeed(c.Request.Context(), limit, offset)
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]feedPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, toFeedPost(p))
	}

	c.JSON(http.StatusOK, gin.H{
		"results": len(out),
		"posts":   out,
	})
}

func toFeedPost(p model.Post) feedPost {
	fp := feedPost{
		ID:            p.ID,
		Content:       p.Content,
		HasAudio:      p.HasAudio,
		AudioURL:      p.AudioURL,
		AudioDuration: p.AudioDuration,
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
	}

	fp.Author.ID = p.Author.ID
	fp.Author.Username = p.Author.Username
	fp.Author.Club = p.Author.Club

	return fp
}
