package model

import "time"

type User struct {
	ID           string  `gorm:"primaryKey"`
	Email        string  `gorm:"uniqueIndex;not null"`
	Username     *string `gorm:"uniqueIndex"`
	PasswordHash string  `gorm:"not null"`
	FirstName    string
	LastName     string
	Club         *string
	Bio          *string
	Role         Role `gorm:"not null;default:USER"`
	Reputation   int  `gorm:"not null;default:0"`
	IsVerified   bool `gorm:"not null;default:false"`

	// Argon2id digest of the most recently issued refresh token. Overwritten
	// on every login, so only one refresh session per account is ever live.
	RefreshTokenHash *string

	CreatedAt time.Time
}
