package store

import (
	"context"

	"matchday/social-api/model"

	"gorm.io/gorm"
)

type PostStore struct {
	db *gorm.DB
}

func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

func (s *PostStore) Create(ctx context.Context, p *model.Post) error {
	return translate(s.db.WithContext(ctx).Create(p).Error)
}

func (s *PostStore) FindByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post

	err := s.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, translate(err)
	}

	return &p, nil
}

// List returns posts newest first with the author record preloaded.
func (s *PostStore) List(ctx context.Context, limit, offset int) ([]model.Post, error) {
	var posts []model.Post

	err := s.db.WithContext(ctx).
		Preload("Author").
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, translate(err)
	}

	return posts, nil
}
