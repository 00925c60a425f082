package model

import "time"

// Otp is a one-time email verification code. At most one live code exists
// per user, enforced by OtpStore.Replace.
type Otp struct {
	ID        int    `gorm:"primaryKey;autoIncrement"`
	UserID    string `gorm:"index;not null"`
	Code      string `gorm:"not null"`
	ExpiresAt time.Time
	CreatedAt time.Time
}
