package service

import (
	"context"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	"matchday/social-api/apperr"
	"matchday/social-api/model"
	"matchday/social-api/store"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

// Feed is plain passthrough CRUD over posts, no invariants past "content
// required".
type Feed struct {
	posts *store.PostStore
}

func NewFeed(db *gorm.DB) *Feed {
	return &Feed{posts: store.NewPostStore(db)}
}

type CreatePostInput struct {
	Content       string
	HasAudio      bool
	AudioURL      *string
	AudioDuration *string
}

func (s *Feed) CreatePost(ctx context.Context, authorID string, in CreatePostInput) (*model.Post, error) {
	if in.Content == "" {
		return nil, apperr.BadRequest("Post content cannot be empty")
	}

	post := &model.Post{
		ID:            gonanoid.Must(16),
		AuthorID:      authorID,
		Content:       in.Content,
		HasAudio:      in.HasAudio,
		AudioURL:      in.AudioURL,
		AudioDuration: in.AudioDuration,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.posts.FindByID(ctx, post.ID)
}

func (s *Feed) GetFeed(ctx context.Context, limit, offset int) ([]model.Post, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}

	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	if offset < 0 {
		offset = 0
	}

	return s.posts.List(ctx, limit, offset)
}
