package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"matchday/social-api/model"
)

type OtpStore struct {
	db *gorm.DB
}

func NewOtpStore(db *gorm.DB) *OtpStore {
	return &OtpStore{db: db}
}

func (s *OtpStore) WithTx(tx *gorm.DB) *OtpStore {
	return &OtpStore{db: tx}
}

// Replace deletes any outstanding code for the user before storing the new
// one, so at most one code is ever live per user.
func (s *OtpStore) Replace(ctx context.Context, userID, code string, expiresAt time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.Otp{}).Error; err != nil {
			return err
		}

		return tx.Create(&model.Otp{
			UserID:    userID,
			Code:      code,
			ExpiresAt: expiresAt,
		}).Error
	})
}

// FindValid returns the code record only when it matches and now is still
// strictly before its expiry.
func (s *OtpStore) FindValid(ctx context.Context, userID, code string, now time.Time) (*model.Otp, error) {
	var otp model.Otp

	err := s.db.WithContext(ctx).
		Where("user_id = ? AND code = ? AND expires_at > ?", userID, code, now).
		First(&otp).Error
	if err != nil {
		return nil, translate(err)
	}

	return &otp, nil
}

func (s *OtpStore) DeleteForUser(ctx context.Context, userID string) error {
	return translate(s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Otp{}).Error)
}
