package store

import (
	"context"

	"gorm.io/gorm"

	"matchday/social-api/model"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// WithTx returns a store bound to the given transaction handle.
func (s *UserStore) WithTx(tx *gorm.DB) *UserStore {
	return &UserStore{db: tx}
}

func (s *UserStore) Create(ctx context.Context, u *model.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}

	return &u, nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}

	return &u, nil
}

// Exists reports whether any user already claims the email or, when username
// is non-nil, the username.
func (s *UserStore) Exists(ctx context.Context, email string, username *string) (bool, error) {
	q := s.db.WithContext(ctx).Model(&model.User{})

	if username != nil {
		q = q.Where("email = ? OR username = ?", email, *username)
	} else {
		q = q.Where("email = ?", email)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, translate(err)
	}

	return count > 0, nil
}

// MarkVerified flips is_verified to true. The flag is monotonic, it is never
// set back to false.
func (s *UserStore) MarkVerified(ctx context.Context, id string) error {
	return translate(s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("is_verified", true).Error)
}

// SetRefreshTokenHash overwrites the stored refresh token digest, which
// invalidates any refresh token issued before this one.
func (s *UserStore) SetRefreshTokenHash(ctx context.Context, id string, hash string) error {
	return translate(s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("refresh_token_hash", hash).Error)
}

func (s *UserStore) SetProfile(ctx context.Context, id, username string, bio *string) error {
	return translate(s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"username": username,
			"bio":      bio,
		}).Error)
}

func (s *UserStore) SetClub(ctx context.Context, id, club string) error {
	return translate(s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("club", club).Error)
}

func (s *UserStore) List(ctx context.Context) ([]model.User, error) {
	var users []model.User

	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, translate(err)
	}

	return users, nil
}
