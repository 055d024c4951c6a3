package models

import (
	"time"

	"gorm.io/gorm"
)

// CogTriEntry is one Cognitive Triangle journaling exercise.
type CogTriEntry struct {
	gorm.Model

	UserID uint      `gorm:"not null;index"`
	Date   time.Time `gorm:"not null;index"`

	Situation string
	Thoughts  string
	Feelings  string
	Behavior  string

	Complete bool `gorm:"not null;default:false"`
}
