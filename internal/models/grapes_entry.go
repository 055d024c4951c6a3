package models

import (
	"time"

	"gorm.io/gorm"
)

// GrapesEntry is one day's GRAPES self-care checklist. UserID is a plain
// column without a foreign-key constraint: entries are owned by exactly one
// user but the reference is not validated at write time.
type GrapesEntry struct {
	gorm.Model

	UserID uint      `gorm:"not null;index"`
	Date   time.Time `gorm:"not null;index"`

	Gentle         string
	Recreation     string
	Accomplishment string
	Pleasure       string
	Exercise       string
	Social         string

	Completed bool `gorm:"not null;default:false"`
}
