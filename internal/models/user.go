package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	Username     string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Streak       int    `gorm:"not null;default:0"`

	// Nested document state kept as JSON columns
	PetStats    datatypes.JSON
	Preferences datatypes.JSON
}
