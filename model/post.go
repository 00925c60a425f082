package model

import "time"

type Post struct {
	ID            string `gorm:"primaryKey"`
	AuthorID      string `gorm:"index;not null"`
	Content       string `gorm:"not null"`
	HasAudio      bool   `gorm:"not null;default:false"`
	AudioURL      *string
	AudioDuration *string
	CreatedAt     time.Time

	Author User `gorm:"foreignKey:AuthorID"`
}
